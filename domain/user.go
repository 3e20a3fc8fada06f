package domain

import "time"

// User represents an authenticated console identity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	LastLogin time.Time `json:"last_login"`
}

// Clone returns a copy safe to hand to callers outside the session store.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Can reports whether the user's role holds permission. A nil user holds nothing.
func (u *User) Can(permission Permission) bool {
	return u != nil && IsAuthorized(u.Role, permission)
}

// Credential is an entry in the demo credential table.
type Credential struct {
	User         User
	PasswordHash []byte
}
