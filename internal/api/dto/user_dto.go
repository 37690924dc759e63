package dto

// CreateUserRequest payload for registration.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// LoginRequest is the form-encoded credential pair presented at login.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
