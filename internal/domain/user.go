package domain

import "time"

// UserRole enumerates the roles in the system.
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAgent    UserRole = "AGENT"
	RoleAdmin    UserRole = "ADMIN"
)

// AgentSkill pairs a skill name with a 1-5 proficiency level.
type AgentSkill struct {
	Name        string
	Proficiency int
}

// User models customers, agents and administrators.
//
// Skills and Workload are populated only by roster queries; Workload is the
// count of assigned tickets currently in progress and is a point-in-time
// snapshot.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time

	Skills   []AgentSkill
	Workload int
}

// FullName renders the display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
