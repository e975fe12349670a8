package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const secret = "jwt-test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "agent-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := jwt.RegisteredClaims{
		Subject:   "agent-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	noSubject := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	noExpiry := jwt.RegisteredClaims{Subject: "agent-1"}

	tests := []struct {
		description string
		header      string
		status      int
	}{
		{"valid token", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), valid), http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"other algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), valid), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), expired), http.StatusUnauthorized},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), noSubject), http.StatusUnauthorized},
		{"no expiry", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), noExpiry), http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = service.AgentIDFromContext(r.Context())
			})
			h := AuthMiddleware(&config.Config{JWTSecret: secret})(next)

			req := httptest.NewRequest(http.MethodGet, "/clients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, expected %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && seen != "agent-1" {
				t.Errorf("agent in context = %q, expected agent-1", seen)
			}
			if tt.status != http.StatusOK && seen != "" {
				t.Error("rejected request reached the handler")
			}
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		description string
		handler     http.HandlerFunc
		status      int
		level       logrus.Level
	}{
		{"implicit ok", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hi")) }, http.StatusOK, logrus.InfoLevel},
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, http.StatusNotFound, logrus.WarnLevel},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, http.StatusBadGateway, logrus.ErrorLevel},
		{"empty body", func(http.ResponseWriter, *http.Request) {}, http.StatusOK, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			log, hook := logtest.NewNullLogger()
			h := LoggingMiddleware(log)(tt.handler)
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/properties", nil))

			entry := hook.LastEntry()
			if entry == nil {
				t.Fatal("no log entry written")
			}
			if entry.Level != tt.level {
				t.Errorf("level = %s, expected %s", entry.Level, tt.level)
			}
			if entry.Data["status"] != tt.status {
				t.Errorf("status field = %v, expected %d", entry.Data["status"], tt.status)
			}
			if entry.Data["path"] != "/properties" || entry.Data["method"] != http.MethodGet {
				t.Errorf("unexpected fields %v", entry.Data)
			}
		})
	}
}
