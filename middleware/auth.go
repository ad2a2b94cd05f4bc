package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/vo"
)

// RequireAccessToken accepts requests carrying "Authorization: Bearer <access
// token>" and stores the identity id and role in the context.
func RequireAccessToken(jwtUtil dependencies.JWTTokenInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, tokenString, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, vo.ErrorResponse{Error: "authentication required"})
			return
		}

		claims, err := jwtUtil.ParseAccessToken(strings.TrimSpace(tokenString))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, vo.ErrorResponse{Error: constants.ErrInvalidToken.Error()})
			return
		}

		c.Set(string(constants.IdentityIDKey), claims.IdentityID)
		c.Set(string(constants.RoleKey), string(claims.Role))
		c.Next()
	}
}
