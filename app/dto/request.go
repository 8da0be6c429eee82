package dto

// AddComputerRequest represents a request to register a computer for polling
type AddComputerRequest struct {
	Name  string `json:"name" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
	Token string `json:"token" validate:"required"`
}

// LoginRequest represents a dashboard login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
