package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/requestdata"
)

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestSetContextFromToken_ValidToken(t *testing.T) {
	log, _ := logger.New("development")
	svc := NewAuthService(log, "s3cret")
	userID := uuid.New()

	token := mintToken(t, "s3cret", jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		t.Fatalf("expected request data for %s, got %+v", userID, rd)
	}
}

func TestSetContextFromToken_WrongSecret(t *testing.T) {
	log, _ := logger.New("development")
	svc := NewAuthService(log, "s3cret")

	token := mintToken(t, "other", jwt.MapClaims{"sub": uuid.New().String()})
	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected rejection for wrong signing key")
	}
}

func TestSetContextFromToken_NonUUIDSubject(t *testing.T) {
	log, _ := logger.New("development")
	svc := NewAuthService(log, "s3cret")

	token := mintToken(t, "s3cret", jwt.MapClaims{"sub": "not-a-uuid"})
	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected rejection for non-uuid subject")
	}
}

func TestSetContextFromToken_ExpiredToken(t *testing.T) {
	log, _ := logger.New("development")
	svc := NewAuthService(log, "s3cret")

	token := mintToken(t, "s3cret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected rejection for expired token")
	}
}
