package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-ticketing/internal/config"
)

func limiterContext(userID interface{}) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/payments")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestCurrentUserID(t *testing.T) {
	cases := []struct {
		name string
		sub  interface{}
		want string
	}{
		{"string sub", "7", "7"},
		{"numeric sub decoded as float64", float64(42), "42"},
		{"uint64 sub", uint64(9), "9"},
		{"int sub", 3, "3"},
		{"int64 sub", int64(12), "12"},
		{"missing identity", nil, "anon"},
		{"empty string", "", "anon"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, currentUserID(limiterContext(tt.sub)))
		})
	}
}

func TestRateKeySeparatesUsers(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}

	// two numeric subs must land in distinct buckets
	k1 := rateKey(cfg, limiterContext(float64(41)))
	k2 := rateKey(cfg, limiterContext(float64(42)))
	assert.NotEqual(t, k1, k2)
	assert.Contains(t, k2, ":user:42:")

	// unauthenticated requests share the anon bucket
	assert.Equal(t,
		rateKey(cfg, limiterContext(nil)),
		rateKey(cfg, limiterContext("")),
	)
}
