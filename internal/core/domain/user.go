package domain

import "time"

// IdentityKind names one of the two independent identity slots.
type IdentityKind string

const (
	KindUser  IdentityKind = "user"
	KindAdmin IdentityKind = "admin"
)

// Valid reports whether k is one of the known identity kinds.
func (k IdentityKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

// RegularUser models a signed-in storefront customer as returned by the API.
type RegularUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AdminUser models a signed-in back-office operator.
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// SessionState is a point-in-time view of both identity slots.
//
// A nil slot means "no session of that kind". While Bootstrapping is true the
// slots are not yet conclusive and must not drive auth-dependent decisions.
type SessionState struct {
	User          *RegularUser `json:"user"`
	Admin         *AdminUser   `json:"admin"`
	Bootstrapping bool         `json:"bootstrapping"`
}

// Authenticated reports whether at least one identity is held.
func (s SessionState) Authenticated() bool {
	return s.User != nil || s.Admin != nil
}

// IsAdmin reports whether the admin slot is populated.
func (s SessionState) IsAdmin() bool {
	return s.Admin != nil
}

// HasUser reports whether the regular-user slot is populated.
func (s SessionState) HasUser() bool {
	return s.User != nil
}

// Clone returns a deep copy so callers cannot mutate store-owned identities.
func (s SessionState) Clone() SessionState {
	out := SessionState{Bootstrapping: s.Bootstrapping}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Admin != nil {
		a := *s.Admin
		out.Admin = &a
	}
	return out
}
