package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/corkboardapp/corkboard-server/internal/auth"
	"github.com/corkboardapp/corkboard-server/internal/domain"
	domainerrors "github.com/corkboardapp/corkboard-server/internal/errors"
	"github.com/corkboardapp/corkboard-server/internal/id"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// AuthService handles user authentication (registration, login, token
// verification). Session management is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	shelfService   *ShelfService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	shelfService *ShelfService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		shelfService:   shelfService,
		logger:         logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required,min=8,max=1024"`
	FirstName  string          `json:"first_name" validate:"required"`
	LastName   string          `json:"last_name" validate:"required"`
	DeviceInfo auth.DeviceInfo `json:"device_info"`
	IPAddress  string          `json:"-"` // Extracted from request by handler
}

// LoginRequest contains user credentials and device information.
type LoginRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required"`
	DeviceInfo auth.DeviceInfo `json:"device_info"`
	IPAddress  string          `json:"-"` // Extracted from request by handler
}

// RefreshRequest contains the refresh token and updated device info.
type RefreshRequest struct {
	RefreshToken string          `json:"refresh_token" validate:"required"`
	DeviceInfo   auth.DeviceInfo `json:"device_info"` // Optional updates
	IPAddress    string          `json:"-"`           // Extracted from request by handler
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Register creates a new user account with its starter shelves and logs the
// user in. The first account on the instance becomes the root user.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if !req.DeviceInfo.IsValid() {
		return nil, domainerrors.Validation("device_info is required (device_type and platform)")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	existing, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Record: domain.Record{
			ID: userID,
		},
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsRoot:       existing == 0, // First user is root
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  req.FirstName + " " + req.LastName,
		LastLoginAt:  now,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Every new account starts with the standard set of shelves.
	if err := s.shelfService.SeedDefaults(ctx, userID); err != nil {
		return nil, fmt.Errorf("seed default shelves: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.DeviceInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered",
			"user_id", userID,
			"email", user.Email,
			"is_root", user.IsRoot,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if !req.DeviceInfo.IsValid() {
		return nil, domainerrors.Validation("device_info is required (device_type and platform)")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.DeviceInfo, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in",
			"user_id", user.ID,
			"device", req.DeviceInfo.Platform,
		)
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// RefreshTokens generates new tokens using a refresh token.
// The old refresh token is invalidated (token rotation).
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.DeviceInfo, req.IPAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid token: %w", err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, errors.New("user not found")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// formatValidationError converts validator errors to user-friendly domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return domainerrors.Validationf("%s is required", field)
			case "email":
				return domainerrors.Validationf("%s must be a valid email address", field)
			case "min":
				return domainerrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return domainerrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			default:
				return domainerrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
