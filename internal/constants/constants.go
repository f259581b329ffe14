package constants

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated employee ID.
	ContextKeyUserID = "user_id"
	// ContextKeyEmployee holds the resolved *models.Employee for the current request.
	ContextKeyEmployee = "employee"

	SessionCookieName = "task_session"
	SessionMaxAge     = 86400 * 7

	DefaultLoginURL = "/accounts/login/"
	NextQueryParam  = "next"
)

// Pagination
const (
	MinPage         = 1
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Validation limits. MaxPasswordBytes is the longest input bcrypt accepts.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// MaxDraftedTasks caps how many drafts a single drafting request may return.
const MaxDraftedTasks = 20

// DateLayout is the wire format of Task.Deadline.
const DateLayout = "2006-01-02"
