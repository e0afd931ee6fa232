package auth

// RegisterRequest is the payload for POST /users/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
	IsAdmin   bool   `json:"isAdmin"`
}

// LoginRequest is the payload for POST /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse confirms a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
