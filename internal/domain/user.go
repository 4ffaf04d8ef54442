package domain

// Role is the authenticated actor's role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the already-authenticated identity handed to the booking
// service. Session issuance happens upstream.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user may act on other users' bookings
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
