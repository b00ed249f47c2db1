package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "unit-test-secret"

func TestRegisterAndLogin(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAuthService(factory, testJWTSecret)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.Token == "" {
		t.Error("no token issued on register")
	}
	if registered.User.Email != "dev@example.com" {
		t.Errorf("user email = %q", registered.User.Email)
	}

	// Stored hash must not be the plaintext password.
	factory.store.mu.Lock()
	for _, u := range factory.store.users {
		if u.PasswordHash == "correct horse battery" {
			t.Error("password stored in plaintext")
		}
	}
	factory.store.mu.Unlock()

	logged, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.User.Id != registered.User.Id {
		t.Error("login returned a different user")
	}

	token, err := jwt.Parse(logged.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != registered.User.Id.String() {
		t.Errorf("user_id claim = %v", claims["user_id"])
	}
	if claims["email"] != "dev@example.com" {
		t.Errorf("email claim = %v", claims["email"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("missing exp claim")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAuthService(factory, testJWTSecret)

	req := &dto.RegisterRequest{Email: "dup@example.com", Password: "password-123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if !apperror.IsKind(err, apperror.KindInvalidInput) {
		t.Errorf("duplicate Register error = %v, want invalid input", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAuthService(factory, testJWTSecret)

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "password-123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "wrong",
	})
	if !apperror.IsKind(err, apperror.KindUnauthenticated) {
		t.Errorf("wrong password error = %v, want unauthenticated", err)
	}

	// Unknown account and wrong password are indistinguishable.
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password-123",
	})
	if !apperror.IsKind(err, apperror.KindUnauthenticated) {
		t.Errorf("unknown account error = %v, want unauthenticated", err)
	}
}

func TestMe(t *testing.T) {
	factory := newFakeFactory()
	svc := NewAuthService(factory, testJWTSecret)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "password-123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	me, err := svc.Me(context.Background(), registered.User.Id)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Email != "dev@example.com" {
		t.Errorf("email = %q", me.Email)
	}
}
