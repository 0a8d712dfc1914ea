package domain

import "context"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleGuard     Role = "guard"
	RoleAnonymous Role = "anonymous"
)

// Session identifies the caller of a core operation. It is passed
// explicitly into every usecase method rather than living in ambient
// state, so authorization is testable without a transport layer.
type Session struct {
	Subject string
	Role    Role
}

func AnonymousSession() Session {
	return Session{Role: RoleAnonymous}
}

// Actions checked against the role policy.
const (
	ActionApplicationSubmit = "application:submit"
	ActionApplicationList   = "application:list"
	ActionApplicationSelf   = "application:self"
	ActionApplicationUpdate = "application:update"
	ActionApplicationDelete = "application:delete"
	ActionApplicationDecide = "application:decide"
	ActionLedgerScan        = "ledger:scan"
	ActionDashboardRead     = "dashboard:read"
	ActionDirectoryRead     = "directory:read"
	ActionDirectoryWrite    = "directory:write"
	ActionDirectoryReadOpen = "directory:read_open"
)

// Authorizer decides whether a session may perform an action.
// Implementations return ErrForbidden (or ErrUnauthorized for an empty
// session where one is required) rather than a bare bool.
type Authorizer interface {
	Require(ctx context.Context, session Session, action string) error
}
