package model

// User is an account allowed to log in. Password holds a bcrypt hash and is never serialized
// outside the store, see UserView.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (u User) RecordID() string { return u.ID }

func (u *User) SetRecordID(id string) { u.ID = id }

// View strips the password hash.
func (u User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserView is the public shape of a User.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
