package model

import "time"

// Persona is a fixed demo identity that can sign in without an external
// identity provider.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// DemoSession is a freshly issued demo session.
type DemoSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Persona   Persona   `json:"persona"`
}
