package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SitaaronKL/thenetwork-backend/internal/handlers"
	"github.com/SitaaronKL/thenetwork-backend/internal/logger"
	"github.com/SitaaronKL/thenetwork-backend/internal/middleware"
	"github.com/SitaaronKL/thenetwork-backend/internal/requestdata"
	"github.com/SitaaronKL/thenetwork-backend/internal/services"
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

const testSecret = "test-secret"

type stubPlanService struct {
	result  *services.GenerateResult
	err     error
	gotCity string
	gotUser uuid.UUID
}

func (s *stubPlanService) Generate(ctx context.Context, city string) (*services.GenerateResult, error) {
	s.gotCity = city
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		s.gotUser = rd.UserID
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubPlanService) ListPlans(_ context.Context) ([]*types.ReadyPlan, error) {
	return []*types.ReadyPlan{}, nil
}

func newTestRouter(t *testing.T, svc services.ReadyPlanService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	auth := services.NewAuthService(log, testSecret)
	return NewRouter(RouterConfig{
		AuthMiddleware:   middleware.NewAuthMiddleware(log, auth),
		ReadyPlanHandler: handlers.NewReadyPlanHandler(log, svc),
	})
}

func signedToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func doGenerate(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ready-plans/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpoint_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubPlanService{})

	rec := doGenerate(router, "", `{"city":"Austin"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestGenerateEndpoint_RejectsBadToken(t *testing.T) {
	router := newTestRouter(t, &stubPlanService{})
	rec := doGenerate(router, "not-a-token", `{"city":"Austin"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGenerateEndpoint_RequiresCity(t *testing.T) {
	router := newTestRouter(t, &stubPlanService{})
	rec := doGenerate(router, signedToken(t, uuid.New()), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "City is required" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestGenerateEndpoint_Success(t *testing.T) {
	svc := &stubPlanService{result: &services.GenerateResult{
		PlansGenerated: 2,
		Plans:          []*types.ReadyPlan{{City: "Austin"}, {City: "Austin"}},
	}}
	router := newTestRouter(t, svc)
	userID := uuid.New()

	rec := doGenerate(router, signedToken(t, userID), `{"city":"Austin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success        bool              `json:"success"`
		PlansGenerated int               `json:"plans_generated"`
		Plans          []json.RawMessage `json:"plans"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.PlansGenerated != 2 || len(body.Plans) != 2 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if svc.gotCity != "Austin" {
		t.Fatalf("city not forwarded, got %q", svc.gotCity)
	}
	if svc.gotUser != userID {
		t.Fatalf("authenticated user not forwarded, got %s", svc.gotUser)
	}
}

func TestGenerateEndpoint_PreconditionPayload(t *testing.T) {
	svc := &stubPlanService{err: &services.PreconditionError{
		Message:          "Insufficient local network density",
		LocalFriendCount: 2,
		MinimumRequired:  3,
	}}
	router := newTestRouter(t, svc)

	rec := doGenerate(router, signedToken(t, uuid.New()), `{"city":"Austin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error            string `json:"error"`
		LocalFriendCount int    `json:"local_friend_count"`
		MinimumRequired  int    `json:"minimum_required"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Insufficient local network density" || body.LocalFriendCount != 2 || body.MinimumRequired != 3 {
		t.Fatalf("unexpected precondition body: %s", rec.Body.String())
	}
}

func TestGenerateEndpoint_CompatibilityPayloadOmitsMinimum(t *testing.T) {
	svc := &stubPlanService{err: &services.PreconditionError{
		Message:          "No compatible connections found",
		LocalFriendCount: 4,
	}}
	router := newTestRouter(t, svc)

	rec := doGenerate(router, signedToken(t, uuid.New()), `{"city":"Austin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, present := body["minimum_required"]; present {
		t.Fatalf("minimum_required must be omitted: %s", rec.Body.String())
	}
	if body["local_friend_count"] != float64(4) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
