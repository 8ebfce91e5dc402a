package model

import "time"

// Role is one of the fixed newsroom roles.
type Role string

const (
	RoleAdmin            Role = "Admin"
	RoleAssignmentEditor Role = "Assignment Editor"
	RoleHeadOfDepartment Role = "Head of Department"
	RoleReporter         Role = "Reporter"
	RoleCameraman        Role = "Cameraman"
)

// Roles lists every valid role in display order.
var Roles = []Role{
	RoleAdmin,
	RoleAssignmentEditor,
	RoleHeadOfDepartment,
	RoleReporter,
	RoleCameraman,
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Elevated reports whether r belongs to the administrative family.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleAssignmentEditor || r == RoleHeadOfDepartment
}

// User is the application profile linked to an external identity.
type User struct {
	ID              int64     `json:"id"`
	UID             string    `json:"uid"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	PhotoURL        string    `json:"photoUrl"`
	FCMToken        string    `json:"fcmToken"`
	ProfileComplete bool      `json:"profileComplete"`
	IsActive        bool      `json:"isActive"`
	LastActive      time.Time `json:"lastActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateUserInput is the request shape for creating a user.
type CreateUserInput struct {
	UID             string `json:"uid" validate:"required"`
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,role"`
	PhotoURL        string `json:"photoUrl"`
	FCMToken        string `json:"fcmToken"`
	ProfileComplete *bool  `json:"profileComplete"`
	IsActive        *bool  `json:"isActive"`
}

// UserPatch carries the fields of a partial user update. Nil means untouched.
type UserPatch struct {
	UID             *string `json:"uid" validate:"omitempty,min=1"`
	FullName        *string `json:"fullName" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Role            *Role   `json:"role" validate:"omitempty,role"`
	PhotoURL        *string `json:"photoUrl"`
	FCMToken        *string `json:"fcmToken"`
	ProfileComplete *bool   `json:"profileComplete"`
	IsActive        *bool   `json:"isActive"`
}

// Apply merges the present fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.UID != nil {
		u.UID = *p.UID
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.FCMToken != nil {
		u.FCMToken = *p.FCMToken
	}
	if p.ProfileComplete != nil {
		u.ProfileComplete = *p.ProfileComplete
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}
