package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/enums"
)

func TestRequireAccessToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{SecretKey: "access", RefreshSecret: "refresh", Issuer: "identity_hub_test"})
	pair, err := jwtUtil.IssuePair("identity-1", enums.RoleSeller)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", RequireAccessToken(jwtUtil), func(c *gin.Context) {
		c.String(http.StatusOK, "%s/%s", c.GetString(string(constants.IdentityIDKey)), c.GetString(string(constants.RoleKey)))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK, "identity-1/seller"},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK, "identity-1/seller"},
		{"missing", "", http.StatusUnauthorized, `{"error":"authentication required"}`},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, `{"error":"authentication required"}`},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
		{"garbage", "Bearer xyz", http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}
