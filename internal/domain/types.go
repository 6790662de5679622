package domain

const (
	RoleAdmin    = "Admin"
	RoleOperator = "Operator"
	RoleCommuter = "Commuter"
)

// Principal carries the authenticated caller resolved from the bearer token.
type Principal struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ValidRole reports whether role is one of the known caller roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOperator, RoleCommuter:
		return true
	default:
		return false
	}
}
