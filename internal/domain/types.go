package domain

// Role identifies who is acting on a booking.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleAgent   Role = "agent"
	// RoleSystem is used by server-side jobs such as the completion sweeper.
	RoleSystem Role = "system"
)

// ParseRole accepts the two roles a user account can hold.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTourist, RoleAgent:
		return Role(s), nil
	default:
		return "", invalidArgument("role", "must be tourist or agent")
	}
}

// Actor carries authenticated user info for authorization checks.
type Actor struct {
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}

// SystemActor is the identity of background jobs.
var SystemActor = Actor{Role: RoleSystem}

func (a Actor) IsAgent() bool   { return a.Role == RoleAgent }
func (a Actor) IsTourist() bool { return a.Role == RoleTourist }
