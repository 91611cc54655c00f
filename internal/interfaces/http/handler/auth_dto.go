package handler

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for email sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// RegisterRequest represents the request body for storefront sign-up
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name" binding:"required,max=200"`
	Phone           string `json:"phone" binding:"max=50"`
}

// OAuthLoginRequest carries a token the client obtained from the provider
type OAuthLoginRequest struct {
	Provider string `json:"provider" binding:"required,oneof=google facebook"`
	Token    string `json:"token" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// UpdateProfileRequest contains the personal data a user may edit
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
}

// BootstrapRequest creates the first superadmin
type BootstrapRequest struct {
	Secret      string `json:"secret" binding:"required"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	DisplayName string `json:"display_name" binding:"required,max=200"`
}
