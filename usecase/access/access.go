// Package access holds the console's authorization decisions as plain
// functions of session state. Transport layers translate the results.
package access

import "github.com/fastygo/aiops/domain"

// Decision is the outcome of the authentication gate.
type Decision int

const (
	// Suspend: the session is still being restored, decide nothing yet.
	Suspend Decision = iota
	// Redirect: nobody is signed in, send the client to the login view.
	Redirect
	// Render: a user is present.
	Render
)

func (d Decision) String() string {
	switch d {
	case Suspend:
		return "suspend"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

// LoginPath is where Redirect sends the client.
const LoginPath = "/login"

// AuthGate never redirects before hydration.
func AuthGate(session domain.Session) Decision {
	switch session.State() {
	case domain.SessionUnhydrated:
		return Suspend
	case domain.SessionNoUser:
		return Redirect
	default:
		return Render
	}
}

// RequireRole reports whether user's role is in allow. A nil user is never a member.
func RequireRole(user *domain.User, allow ...domain.Role) bool {
	if user == nil {
		return false
	}
	return domain.HasRole(user.Role, allow...)
}

// Can reports whether user's role holds permission.
func Can(user *domain.User, permission domain.Permission) bool {
	return user.Can(permission)
}

// AllRoles is the allow-list for views open to every signed-in user.
var AllRoles = []domain.Role{domain.RoleAdmin, domain.RoleOperator, domain.RoleExecutive, domain.RoleObserver}
