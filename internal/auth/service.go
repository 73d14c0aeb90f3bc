package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/united17/relief-portal/pkg/auth"
	"github.com/united17/relief-portal/pkg/auth/session"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/enums"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

const invalidCredentialsMessage = "invalid credentials"

type credentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// Service exposes the admin authentication flows.
type Service interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	repo     credentialStore
	sessions sessionManager
	cfg      config.JWTConfig
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(repo credentialStore, sessions sessionManager, cfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("credential store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, sessions: sessions, cfg: cfg, now: time.Now}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}

	ok, err := VerifyPassword(admin.PasswordHash, password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	pair, err := s.issue(ctx, admin, session.NewAccessID())
	if err != nil {
		return nil, err
	}

	// A stale last_login_at is not worth failing a successful login over.
	_ = s.repo.TouchLastLogin(ctx, admin.ID, s.now().UTC())
	return pair, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.cfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	// Re-read the admin so a deactivated account cannot refresh its way back in.
	admin, err := s.repo.FindByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	token, err := pkgauth.MintAccessToken(s.cfg, s.now(), pkgauth.AccessTokenPayload{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{
		AccessToken:  token,
		RefreshToken: newRefresh,
		ExpiresIn:    s.cfg.ExpirationMinutes * 60,
		Username:     admin.Username,
		Role:         admin.Role.String(),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, admin *models.Admin, accessID string) (*TokenPair, error) {
	token, err := pkgauth.MintAccessToken(s.cfg, s.now(), pkgauth.AccessTokenPayload{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPair{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.ExpirationMinutes * 60,
		Username:     admin.Username,
		Role:         admin.Role.String(),
	}, nil
}

type adminSeeder interface {
	CreateIfAbsent(ctx context.Context, admin *models.Admin) (bool, error)
}

// SeedAdmin describes one account the seed command provisions.
type SeedAdmin struct {
	Username string
	Role     enums.AdminRole
}

// DefaultSeedAdmins is the initial collector roster.
func DefaultSeedAdmins() []SeedAdmin {
	return []SeedAdmin{
		{Username: "Ayash", Role: enums.AdminRoleOwner},
		{Username: "Atheeq", Role: enums.AdminRoleCollector},
		{Username: "Inas", Role: enums.AdminRoleCollector},
	}
}

// SeedAdmins hashes the bootstrap password and inserts any of the given admins
// that do not already exist. Existing rows are left untouched so the command
// is safe to rerun. Returns the number of rows inserted.
func SeedAdmins(ctx context.Context, repo adminSeeder, admins []SeedAdmin, password string) (int, error) {
	if repo == nil {
		return 0, fmt.Errorf("admin repository required")
	}
	if password == "" {
		return 0, fmt.Errorf("seed password required")
	}

	inserted := 0
	for _, seed := range admins {
		if strings.TrimSpace(seed.Username) == "" {
			return inserted, fmt.Errorf("seed admin username is required")
		}
		if !seed.Role.IsValid() {
			return inserted, fmt.Errorf("invalid role %q for admin %s", seed.Role, seed.Username)
		}

		hash, err := HashPassword(password)
		if err != nil {
			return inserted, fmt.Errorf("hashing password for %s: %w", seed.Username, err)
		}

		created, err := repo.CreateIfAbsent(ctx, &models.Admin{
			Username:     seed.Username,
			PasswordHash: hash,
			Role:         seed.Role,
			IsActive:     true,
		})
		if err != nil {
			return inserted, fmt.Errorf("seeding admin %s: %w", seed.Username, err)
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}
