package domain

// UserStatus is the account status managed from the user management screen.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// Toggle flips active and inactive. Any other value becomes active.
func (s UserStatus) Toggle() UserStatus {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// Label is the display form used in the user table.
func (s UserStatus) Label() string {
	if s == StatusActive {
		return "Active"
	}
	return "Inactive"
}

// User is an account as listed by the remote service. Passwords are write-only
// and never appear here.
type User struct {
	ID         string     `json:"_id"`
	EmployeeID string     `json:"employeeId"`
	FirstName  string     `json:"firstName"`
	Status     UserStatus `json:"status"`
}

// Credentials is the login form.
type Credentials struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// Registration is the signup form.
type Registration struct {
	FirstName            string `json:"firstName"`
	EmployeeID           string `json:"employeeId"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}
