package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/metrics"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/service/token"
	"github.com/Xushengqwer/identity_hub/utils"
)

// AuthTokenController serves token verification, rotation and revocation.
type AuthTokenController struct {
	tokenService token.AuthTokenService
	metrics      *metrics.AuthMetrics
	cookieConfig config.CookieConfig
	logger       *zap.Logger
}

func NewAuthTokenController(
	tokenService token.AuthTokenService,
	authMetrics *metrics.AuthMetrics,
	cookieCfg config.CookieConfig,
	logger *zap.Logger,
) *AuthTokenController {
	return &AuthTokenController{
		tokenService: tokenService,
		metrics:      authMetrics,
		cookieConfig: cookieCfg,
		logger:       logger,
	}
}

// VerifyHandler checks an access token and returns its owner.
// @Summary Verify an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.VerifyData true "Access token"
// @Success 200 {object} vo.VerifyResponse
// @Failure 400 {object} vo.ErrorResponse
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/verify [post]
func (ctrl *AuthTokenController) VerifyHandler(c *gin.Context) {
	var data dto.VerifyData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBindError(c, err)
		return
	}
	identity, err := ctrl.tokenService.Verify(c.Request.Context(), data.Token)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, vo.VerifyResponse{Valid: true, User: vo.NewIdentityProfile(identity)})
}

// RefreshHandler rotates a refresh token. The token is read from the body,
// or from the refresh cookie when the body carries none.
// @Summary Refresh the token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshData false "Refresh token"
// @Success 200 {object} vo.TokenPair
// @Failure 400 {object} vo.ErrorResponse
// @Failure 401 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/refresh [post]
func (ctrl *AuthTokenController) RefreshHandler(c *gin.Context) {
	const operation = "AuthTokenController.RefreshHandler"

	refresh := ctrl.refreshTokenFrom(c)
	if refresh == "" {
		respondError(c, http.StatusBadRequest, "refresh token is required", "")
		return
	}

	pair, err := ctrl.tokenService.RefreshToken(c.Request.Context(), refresh)
	ctrl.metrics.ObserveLogin(metrics.MethodRefresh, outcomeFor(err))
	if err != nil {
		ctrl.logger.Warn("refresh failed", zap.String("operation", operation), zap.Error(err))
		respondServiceError(c, err, false)
		return
	}

	utils.SetRefreshCookie(c, ctrl.cookieConfig, pair.RefreshToken, refreshCookieTTL)
	c.JSON(http.StatusOK, pair)
}

// LogoutHandler revokes a refresh token and clears the refresh cookie.
// @Summary Log out
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshData false "Refresh token"
// @Success 200 {object} vo.MessageResponse
// @Failure 500 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/logout [post]
func (ctrl *AuthTokenController) LogoutHandler(c *gin.Context) {
	if refresh := ctrl.refreshTokenFrom(c); refresh != "" {
		if err := ctrl.tokenService.Logout(c.Request.Context(), refresh); err != nil {
			respondServiceError(c, err, false)
			return
		}
	}
	utils.SetRefreshCookie(c, ctrl.cookieConfig, "", 0)
	c.JSON(http.StatusOK, vo.MessageResponse{Success: true, Message: "logged out"})
}

func (ctrl *AuthTokenController) refreshTokenFrom(c *gin.Context) string {
	var data dto.RefreshData
	if c.Request.ContentLength != 0 {
		// An unreadable body falls through to the cookie.
		_ = c.ShouldBindJSON(&data)
	}
	if data.Refresh != "" {
		return data.Refresh
	}
	return utils.RefreshTokenFromCookie(c, ctrl.cookieConfig)
}

func (ctrl *AuthTokenController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/verify", ctrl.VerifyHandler)
	group.POST("/auth/refresh", ctrl.RefreshHandler)
	group.POST("/auth/logout", ctrl.LogoutHandler)
}
