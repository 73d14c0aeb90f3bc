package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/united17/relief-portal/pkg/auth"
	"github.com/united17/relief-portal/pkg/config"
	"github.com/united17/relief-portal/pkg/db/models"
	"github.com/united17/relief-portal/pkg/enums"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
)

type stubCredentials struct {
	admin     *models.Admin
	lastLogin *time.Time
}

func (s *stubCredentials) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if s.admin == nil || s.admin.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubCredentials) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if s.admin == nil || s.admin.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubCredentials) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessions struct {
	generated []string
	rotateErr error
	revoked   []string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "rotated-id", "rotated-refresh", nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "united17",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 10080,
	}
}

func seededAdmin(t *testing.T, password string) *models.Admin {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.Admin{
		ID:           uuid.New(),
		Username:     "Ayash",
		PasswordHash: hash,
		Role:         enums.AdminRoleOwner,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	cfg := testJWTConfig()
	repo := &stubCredentials{admin: seededAdmin(t, "flood-relief-2025")}
	sessions := &stubSessions{}
	svc, err := NewService(repo, sessions, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	pair, err := svc.Login(context.Background(), "Ayash", "flood-relief-2025")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.Role != "owner" || pair.Username != "Ayash" {
		t.Fatalf("unexpected identity %s/%s", pair.Username, pair.Role)
	}
	if pair.ExpiresIn != 3600 {
		t.Fatalf("expires_in = %d", pair.ExpiresIn)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.AdminID != repo.admin.ID || claims.Role != enums.AdminRoleOwner {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("session not keyed by jti: %v vs %s", sessions.generated, claims.ID)
	}
	if pair.RefreshToken != "refresh-"+claims.ID {
		t.Fatalf("refresh token = %s", pair.RefreshToken)
	}
	if repo.lastLogin == nil {
		t.Fatal("last login not recorded")
	}
}

func TestLoginRejections(t *testing.T) {
	admin := seededAdmin(t, "correct-horse")
	inactive := seededAdmin(t, "correct-horse")
	inactive.IsActive = false

	cases := []struct {
		name     string
		admin    *models.Admin
		username string
		password string
		code     pkgerrors.Code
	}{
		{"wrong password", admin, "Ayash", "battery-staple", pkgerrors.CodeUnauthorized},
		{"unknown user", admin, "Mallory", "correct-horse", pkgerrors.CodeUnauthorized},
		{"empty password", admin, "Ayash", "", pkgerrors.CodeUnauthorized},
		{"disabled account", inactive, "Ayash", "correct-horse", pkgerrors.CodeForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := NewService(&stubCredentials{admin: tc.admin}, &stubSessions{}, testJWTConfig())
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	admin := seededAdmin(t, "pw")
	repo := &stubCredentials{admin: admin}
	svc, _ := NewService(repo, &stubSessions{}, cfg)

	// Expired access tokens must still be refreshable.
	expired, err := pkgauth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		JTI:      "old-jti",
	})
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), expired, "some-refresh")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.RefreshToken != "rotated-refresh" {
		t.Fatalf("refresh token = %s", pair.RefreshToken)
	}
	claims, err := pkgauth.ParseAccessToken(cfg, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID != "rotated-id" {
		t.Fatalf("new jti = %s, want rotated-id", claims.ID)
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	svc, _ := NewService(&stubCredentials{}, &stubSessions{}, testJWTConfig())

	_, err := svc.Refresh(context.Background(), "not-a-jwt", "r")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshDisabledAccount(t *testing.T) {
	cfg := testJWTConfig()
	admin := seededAdmin(t, "pw")
	admin.IsActive = false
	svc, _ := NewService(&stubCredentials{admin: admin}, &stubSessions{}, cfg)

	token, _ := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		AdminID: admin.ID, Username: admin.Username, Role: admin.Role, JTI: "j",
	})

	_, err := svc.Refresh(context.Background(), token, "r")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := &stubSessions{}
	svc, _ := NewService(&stubCredentials{}, sessions, testJWTConfig())

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti-1" {
		t.Fatalf("revoked = %v", sessions.revoked)
	}

	err := svc.Logout(context.Background(), " ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank id, got %v", err)
	}
}

type memorySeeder struct {
	rows map[string]*models.Admin
}

func (m *memorySeeder) CreateIfAbsent(ctx context.Context, admin *models.Admin) (bool, error) {
	if _, ok := m.rows[admin.Username]; ok {
		return false, nil
	}
	m.rows[admin.Username] = admin
	return true, nil
}

func TestSeedAdminsIdempotent(t *testing.T) {
	seeder := &memorySeeder{rows: map[string]*models.Admin{}}

	inserted, err := SeedAdmins(context.Background(), seeder, DefaultSeedAdmins(), "bootstrap-pw")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("inserted = %d, want 3", inserted)
	}
	if seeder.rows["Ayash"].Role != enums.AdminRoleOwner {
		t.Fatalf("Ayash role = %s", seeder.rows["Ayash"].Role)
	}

	ok, err := VerifyPassword(seeder.rows["Inas"].PasswordHash, "bootstrap-pw")
	if err != nil || !ok {
		t.Fatalf("seeded hash does not verify: ok=%v err=%v", ok, err)
	}

	inserted, err = SeedAdmins(context.Background(), seeder, DefaultSeedAdmins(), "bootstrap-pw")
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("reseed inserted = %d, want 0", inserted)
	}
}
