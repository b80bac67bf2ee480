package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-checkin/internal/clock"
	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/dto/request"
	"event-checkin/internal/dto/response"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Authenticate(ctx context.Context, req *request.AdminAuthRequest, meta request.ClientMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.AdminAuthRequest, meta request.ClientMeta) (*response.AuthResponse, error)
	Signup(ctx context.Context, req *request.AdminAuthRequest) (*response.AdminResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
	Bootstrap(ctx context.Context) error
}

type authService struct {
	repo   *repository.Repository // admins and sessions
	tokens *TokenIssuer
	clock  clock.Clock
	admin  utils.AdminConfig
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *TokenIssuer,
	clk clock.Clock,
	admin utils.AdminConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		clock:  clk,
		admin:  admin,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Authenticate dispatches on req.Action. Signup answers with a nil token.
func (s *authService) Authenticate(ctx context.Context, req *request.AdminAuthRequest, meta request.ClientMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Admin auth validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	if req.Action == request.AuthActionSignup {
		admin, err := s.Signup(ctx, req)
		if err != nil {
			return nil, err
		}
		return &response.AuthResponse{Admin: *admin}, nil
	}
	return s.Login(ctx, req, meta)
}

func (s *authService) Login(ctx context.Context, req *request.AdminAuthRequest, meta request.ClientMeta) (*response.AuthResponse, error) {
	// 1. Validate
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// 2. Find admin
	admin, err := s.repo.Admin.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find admin", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if admin == nil {
		s.log.Warn("Admin not found for login", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		s.log.Warn("Invalid admin password", zap.String("admin_id", admin.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 4. Create session and sign it
	now := s.clock.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		AdminID:   admin.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: optional(meta.UserAgent),
		IPAddress: optional(meta.IPAddress),
	}

	signed, expiresAt, err := s.tokens.Issue(admin.ID, admin.Email, session.Token, now)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err))
		return nil, fmt.Errorf("sign token: %w", err)
	}
	session.ExpiresAt = expiresAt

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("admin_id", admin.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))

	return &response.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Admin:     response.AdminToResponse(admin),
	}, nil
}

func (s *authService) Signup(ctx context.Context, req *request.AdminAuthRequest) (*response.AdminResponse, error) {
	if !s.admin.SignupEnabled {
		s.log.Warn("Admin signup attempted while disabled", zap.String("email", req.Email))
		return nil, ErrSignupDisabled
	}

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	admin, err := s.createAdmin(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if !errors.Is(err, ErrEmailExists) {
			s.log.Error("Failed to sign up admin", zap.Error(err), zap.String("email", req.Email))
		}
		return nil, err
	}

	s.log.Info("Admin signed up", zap.String("admin_id", admin.ID.String()))

	resp := response.AdminToResponse(admin)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token, s.clock.Now())
	if err != nil {
		return ErrUnauthorized
	}

	if err := s.repo.Session.Revoke(ctx, claims.ID, s.clock.Now()); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err), zap.String("admin_id", claims.AdminID.String()))
		return ErrUnauthorized
	}

	s.log.Info("Admin logged out", zap.String("admin_id", claims.AdminID.String()))
	return nil
}

// ValidateToken checks the signature, then that the session row is live.
func (s *authService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	now := s.clock.Now()
	claims, err := s.tokens.Parse(token, now)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}

	session, err := s.repo.Session.FindValidSession(ctx, claims.ID, now)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err))
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.AdminID != claims.AdminID {
		return uuid.Nil, ErrUnauthorized
	}

	return session.AdminID, nil
}

// Bootstrap creates the configured admin account when it does not exist.
func (s *authService) Bootstrap(ctx context.Context) error {
	email := normalizeEmail(s.admin.Email)
	if email == "" || s.admin.Password == "" {
		s.log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	admin, err := s.createAdmin(ctx, email, s.admin.Password, s.admin.Name)
	if errors.Is(err, ErrEmailExists) {
		s.log.Debug("Bootstrap admin already present", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	s.log.Info("Bootstrap admin created", zap.String("admin_id", admin.ID.String()), zap.String("email", email))
	return nil
}

func (s *authService) createAdmin(ctx context.Context, email, password, name string) (*entity.Admin, error) {
	existing, err := s.repo.Admin.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if name == "" {
		name = email
	}

	now := s.clock.Now()
	admin := &entity.Admin{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	}

	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
