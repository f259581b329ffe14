package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/dto"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
)

func TestRequireAuth_RedirectsWithNext(t *testing.T) {
	env := setupTestEnv(t, nil)

	paths := []string{"/", "/positions/?page=2", "/tasks/1/", "/tasks/1/toggle-assign/", "/employees/create/", "/accounts/me/"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := env.do(http.MethodGet, path, nil)
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, loginRedirectFor(path), w.Header().Get("Location"))
		})
	}
}

func loginRedirectFor(path string) string {
	return "/accounts/login/?next=" + strings.NewReplacer("/", "%2F", "?", "%3F", "=", "%3D").Replace(path)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t, nil)
	position := env.createPosition("Developer")
	employee := env.createEmployee("alice", position.ID)

	w := env.do(http.MethodPost, "/accounts/login/", map[string]string{
		"username": "alice",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")

	got := decode[dto.EmployeeDTO](t, w)
	require.Equal(t, employee.ID, got.ID)
	require.Equal(t, "alice", got.Username)
}

func TestAuthHandler_LoginRedirectsToNext(t *testing.T) {
	env := setupTestEnv(t, nil)
	position := env.createPosition("Developer")
	env.createEmployee("alice", position.ID)

	tests := []struct {
		name         string
		url          string
		body         map[string]string
		wantCode     int
		wantLocation string
	}{
		{
			name:         "next in query",
			url:          "/accounts/login/?next=%2Ftasks%2F%3Fpage%3D2",
			wantCode:     http.StatusSeeOther,
			wantLocation: "/tasks/?page=2",
		},
		{
			name:         "next in body",
			url:          "/accounts/login/",
			body:         map[string]string{"next": "/employees/"},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/employees/",
		},
		{
			name:     "protocol relative next is ignored",
			url:      "/accounts/login/?next=%2F%2Fevil.example.com%2F",
			wantCode: http.StatusOK,
		},
		{
			name:     "absolute next is ignored",
			url:      "/accounts/login/?next=https%3A%2F%2Fevil.example.com%2F",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]string{"username": "alice", "password": testPassword}
			for k, v := range tt.body {
				body[k] = v
			}

			w := env.do(http.MethodPost, tt.url, body)
			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, nil)
	position := env.createPosition("Developer")
	env.createEmployee("alice", position.ID)

	w := env.do(http.MethodPost, "/accounts/login/", map[string]string{
		"username": "alice",
		"password": "wrong-horse",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, apierrors.ErrCodeInvalidCredentials, decode[apierrors.APIError](t, w).Code)

	w = env.do(http.MethodPost, "/accounts/login/", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apierrors.ErrCodeInvalidInput, decode[apierrors.APIError](t, w).Code)
}

func TestAuthHandler_LoginPage(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(http.MethodGet, "/accounts/login/?next=%2Ftasks%2F", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "/tasks/", decode[map[string]any](t, w)["next"])
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	env := setupTestEnv(t, nil)
	employee, session := env.loginAs("alice")

	w := env.do(http.MethodGet, "/accounts/me/", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.EmployeeDTO](t, w)
	require.Equal(t, employee.ID, got.ID)
	require.NotNil(t, got.Position)
	require.Equal(t, "Staff", got.Position.Name)

	w = env.do(http.MethodPost, "/accounts/logout/", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := session
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			cleared = c
		}
	}
	w = env.do(http.MethodGet, "/", nil, cleared)
	require.Equal(t, http.StatusFound, w.Code)
}

func TestRequireAuth_DeletedEmployeeIsRedirected(t *testing.T) {
	env := setupTestEnv(t, nil)
	employee, session := env.loginAs("alice")

	require.NoError(t, env.svc.Employee.Delete(context.Background(), employee.ID))

	w := env.do(http.MethodGet, "/", nil, session)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/accounts/login/?next=%2F", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/tasks/":              "/tasks/",
		"/tasks/?page=2":       "/tasks/?page=2",
		"":                     "",
		"tasks/":               "",
		"//evil.example.com":   "",
		"/\\evil.example.com":  "",
		"https://evil.example": "",
	}

	for in, want := range tests {
		require.Equal(t, want, safeNext(in), in)
	}
}
