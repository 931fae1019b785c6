package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProfiles struct {
	profile *model.Profile
	err     error
}

func (s stubProfiles) List(context.Context) ([]*model.Profile, error) { return nil, nil }
func (s stubProfiles) Count(context.Context) (int64, error)           { return 0, nil }

func (s stubProfiles) FindByID(context.Context, string) (*model.Profile, error) {
	return s.profile, s.err
}

var secret = []byte("test-secret")

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		profiles stubProfiles
		want     int
	}{
		{name: "admin", profiles: stubProfiles{profile: &model.Profile{IsAdmin: true}}, want: http.StatusOK},
		{name: "customer", profiles: stubProfiles{profile: &model.Profile{}}, want: http.StatusForbidden},
		{name: "unknown profile", profiles: stubProfiles{err: gorm.ErrRecordNotFound}, want: http.StatusForbidden},
		{name: "store down", profiles: stubProfiles{err: errors.New("connection reset")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}, middleware.Auth(secret), middleware.RequireAdmin(tt.profiles))

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set(echo.HeaderAuthorization, bearer(t, "profile-1"))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
