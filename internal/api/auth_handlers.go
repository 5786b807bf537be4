package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/auth"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account with its starter shelves and logs it in. The first registered user becomes root.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the specified session",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// DeviceInfo contains device metadata for session tracking.
type DeviceInfo struct {
	DeviceType    string `json:"device_type,omitempty" validate:"omitempty,max=50" doc:"Device type (mobile, tablet, desktop, web)"`
	Platform      string `json:"platform,omitempty" validate:"omitempty,max=50" doc:"Platform (iOS, Android, Windows, macOS, Linux, Web)"`
	ClientName    string `json:"client_name,omitempty" validate:"omitempty,max=100" doc:"Client name (CorkBoard Web, etc.)"`
	ClientVersion string `json:"client_version,omitempty" validate:"omitempty,max=50" doc:"Client version (1.0.0)"`
	DeviceName    string `json:"device_name,omitempty" validate:"omitempty,max=100" doc:"Human-readable device name"`
}

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email      string     `json:"email" validate:"required,email,max=254" doc:"User email address"`
	Password   string     `json:"password" validate:"required,min=8,max=1024" doc:"User password"`
	FirstName  string     `json:"first_name" validate:"required,min=1,max=100" doc:"User first name"`
	LastName   string     `json:"last_name" validate:"required,min=1,max=100" doc:"User last name"`
	DeviceInfo DeviceInfo `json:"device_info,omitempty" doc:"Client device info"`
}

// RegisterInput wraps the register request with headers for Huma.
type RegisterInput struct {
	Body          RegisterRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email      string     `json:"email" validate:"required,email,max=254" doc:"User email"`
	Password   string     `json:"password" validate:"required,max=1024" doc:"User password"`
	DeviceInfo DeviceInfo `json:"device_info,omitempty" doc:"Client device info"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string     `json:"refresh_token" validate:"required" doc:"Refresh token"`
	DeviceInfo   DeviceInfo `json:"device_info,omitempty" doc:"Updated device info"`
}

// RefreshInput wraps the refresh request with headers for Huma.
type RefreshInput struct {
	Body          RefreshRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LogoutRequest is the request body for logout.
type LogoutRequest struct {
	SessionID string `json:"session_id" validate:"required,max=100" doc:"Session ID to revoke"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body LogoutRequest
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email" doc:"User email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	FirstName   string    `json:"first_name" doc:"First name"`
	LastName    string    `json:"last_name" doc:"Last name"`
	IsRoot      bool      `json:"is_root" doc:"Whether user is the root account"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Last login timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Refresh token"`
	SessionID    string       `json:"session_id" doc:"Session identifier"`
	TokenType    string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn    int          `json:"expires_in" doc:"Token expiry in seconds"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	req := service.RegisterRequest{
		Email:      input.Body.Email,
		Password:   input.Body.Password,
		FirstName:  input.Body.FirstName,
		LastName:   input.Body.LastName,
		DeviceInfo: mapDeviceInfo(input.Body.DeviceInfo),
		IPAddress:  extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	req := service.LoginRequest{
		Email:      input.Body.Email,
		Password:   input.Body.Password,
		DeviceInfo: mapDeviceInfo(input.Body.DeviceInfo),
		IPAddress:  extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	req := service.RefreshRequest{
		RefreshToken: input.Body.RefreshToken,
		DeviceInfo:   mapDeviceInfo(input.Body.DeviceInfo),
		IPAddress:    extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.RefreshTokens(ctx, req)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.Body.SessionID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

// === Helpers ===

func mapDeviceInfo(d DeviceInfo) auth.DeviceInfo {
	return auth.DeviceInfo{
		DeviceType:    d.DeviceType,
		Platform:      d.Platform,
		ClientName:    d.ClientName,
		ClientVersion: d.ClientVersion,
		DeviceName:    d.DeviceName,
	}
}

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SessionID:    resp.SessionID,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		User:         mapUserResponse(resp.User),
	}
}

func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}
