package model

import "time"

// AdminProfile holds supplementary privileges for a user identity.
type AdminProfile struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	Privileges []string  `json:"privileges"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateAdminProfileInput is the request shape for creating an admin profile.
type CreateAdminProfileInput struct {
	UserID     string   `json:"userId" validate:"required"`
	Privileges []string `json:"privileges" validate:"omitempty,dive,required"`
}

// AdminProfilePatch carries the fields of a partial admin profile update.
type AdminProfilePatch struct {
	Privileges *[]string `json:"privileges" validate:"omitempty,dive,required"`
}

// Apply merges the present fields of p onto a.
func (p AdminProfilePatch) Apply(a *AdminProfile) {
	if p.Privileges != nil {
		a.Privileges = append([]string(nil), (*p.Privileges)...)
	}
}
