package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "correct-horse"

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	svc    Services
}

func setupTestEnv(t *testing.T, drafter services.TaskDrafter) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := testutil.NewSQLiteDB(t)
	logger := zap.NewNop().Sugar()

	positionRepo := repository.NewPositionRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	svc := Services{
		Auth:      services.NewAuthService(employeeRepo),
		Position:  services.NewPositionService(positionRepo, logger),
		TaskType:  services.NewTaskTypeService(taskTypeRepo, logger),
		Employee:  services.NewEmployeeService(employeeRepo, positionRepo, services.NewDefaultPasswordPolicy(), logger),
		Task:      services.NewTaskService(taskRepo, taskTypeRepo, employeeRepo, drafter, logger),
		Dashboard: services.NewDashboardService(employeeRepo, taskRepo),
	}

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, svc, RouterConfig{
		LoginURL: constants.DefaultLoginURL,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		ServeMetrics: true,
	}, logger)

	return &testEnv{t: t, db: db, router: r, svc: svc}
}

func (e *testEnv) do(method, url string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createPosition(name string) *models.Position {
	e.t.Helper()
	position, err := e.svc.Position.Create(context.Background(), services.CreatePositionInput{Name: name})
	require.NoError(e.t, err)
	return position
}

func (e *testEnv) createTaskType(name string) *models.TaskType {
	e.t.Helper()
	taskType, err := e.svc.TaskType.Create(context.Background(), services.CreateTaskTypeInput{Name: name})
	require.NoError(e.t, err)
	return taskType
}

func (e *testEnv) createEmployee(username string, positionID uint64) *models.Employee {
	e.t.Helper()
	employee, err := e.svc.Employee.Create(context.Background(), services.CreateEmployeeInput{
		Username:   username,
		Password:   testPassword,
		FirstName:  "Test",
		LastName:   "User",
		PositionID: positionID,
	})
	require.NoError(e.t, err)
	return employee
}

func (e *testEnv) createTask(name, deadline string, completed bool, taskTypeID uint64) *models.Task {
	e.t.Helper()
	task, err := e.svc.Task.Create(context.Background(), services.CreateTaskInput{
		Name:        name,
		Deadline:    deadline,
		IsCompleted: completed,
		Priority:    "ME",
		TaskTypeID:  taskTypeID,
	})
	require.NoError(e.t, err)
	return task
}

// login authenticates username and returns the session cookie.
func (e *testEnv) login(username string) *http.Cookie {
	e.t.Helper()

	w := e.do(http.MethodPost, "/accounts/login/", map[string]string{
		"username": username,
		"password": testPassword,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	e.t.Fatal("session cookie not set")
	return nil
}

// loginAs seeds a position and an employee and logs them in.
func (e *testEnv) loginAs(username string) (*models.Employee, *http.Cookie) {
	e.t.Helper()
	position := e.createPosition("Staff")
	employee := e.createEmployee(username, position.ID)
	return employee, e.login(username)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
