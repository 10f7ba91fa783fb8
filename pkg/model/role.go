package model

// Role is the closed set of actor roles recognized by the booking engine.
// Temporal policy exemptions are decided by policy configuration, not by
// comparing role strings inline.
type Role string

const (
	RoleStaff     Role = "staff"
	RoleRegistrar Role = "registrar"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a wire value onto the role enum. Unknown values fall back
// to staff, the least privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleRegistrar:
		return RoleRegistrar
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStaff
	}
}
