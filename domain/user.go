package domain

import "fmt"

// User is the per-connection identity. The username must be set before the
// session may join a room.
type User struct {
	Addr     string
	Username string
}

func (u User) HasUsername() bool {
	return u.Username != ""
}

func (u User) Info() string {
	if !u.HasUsername() {
		return fmt.Sprintf("Username: <not set>, IP: %s", u.Addr)
	}
	return fmt.Sprintf("Username: %q, IP: %s", u.Username, u.Addr)
}
