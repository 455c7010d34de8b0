package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/httputil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}, Email: "editor@example.com"}, nil
}

func (stubVerifier) Close() error { return nil }

type stubAuthorizer struct{ allow bool }

func (a stubAuthorizer) CanEdit(context.Context, *models.Claims) error {
	if a.allow {
		return nil
	}
	return domain.ErrForbidden
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(httputil.GetUserID(r)))
}

func TestAuth(t *testing.T) {
	h := Auth(stubVerifier{}, discard)(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "u1", rec.Body.String())
			}
		})
	}
}

func TestRequireEditor(t *testing.T) {
	for _, allow := range []bool{true, false} {
		h := Auth(stubVerifier{}, discard)(RequireEditor(stubAuthorizer{allow: allow}, discard)(http.HandlerFunc(okHandler)))
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		want := http.StatusForbidden
		if allow {
			want = http.StatusOK
		}
		assert.Equal(t, want, rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestAccessLog_RecordsStatus(t *testing.T) {
	h := AccessLog(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
