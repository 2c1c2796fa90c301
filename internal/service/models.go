package service

// UserView is the public projection of a user; it never carries the password hash.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}
