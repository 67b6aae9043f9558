package service

import (
	"testing"
	"time"

	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "s3cret"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Fatalf("expected default role user, got %q", user.Role)
	}
	if user.Password == "s3cret" {
		t.Fatal("password stored in plaintext")
	}

	token, err := svc.Login("ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ada@example.com" || claims.Role != model.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	if err := svc.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "a"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(&model.User{Name: "Imposter", Email: "ada@example.com", Password: "b"})
	if err != util.ErrEmailRegistered {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	if err := svc.Register(&model.User{Name: "Ada", Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login("ada@example.com", "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := svc.Login("nobody@example.com", "s3cret"); err == nil {
		t.Fatal("unknown email accepted")
	}
}
