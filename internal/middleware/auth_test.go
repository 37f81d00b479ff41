package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/requestdata"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestRouter(captured *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	am := NewAuthMiddleware(logger.NewNop(), testSecret)
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd != nil {
			*captured = rd.UserID
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	var captured uuid.UUID
	router := newTestRouter(&captured)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, userID.String()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if captured != userID {
		t.Fatalf("user id not placed on context: %s", captured)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	var captured uuid.UUID
	router := newTestRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	var captured uuid.UUID
	router := newTestRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "other-secret", uuid.NewString()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthRejectsNonUUIDSubject(t *testing.T) {
	var captured uuid.UUID
	router := newTestRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "not-a-uuid"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
