package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/metrics"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/service/login/oAuth"
	"github.com/Xushengqwer/identity_hub/utils"
)

// TelegramController serves the mini-app login.
type TelegramController struct {
	telegramService oAuth.TelegramAuthService
	metrics         *metrics.AuthMetrics
	cookieConfig    config.CookieConfig
	logger          *zap.Logger
}

func NewTelegramController(
	telegramService oAuth.TelegramAuthService,
	authMetrics *metrics.AuthMetrics,
	cookieCfg config.CookieConfig,
	logger *zap.Logger,
) *TelegramController {
	return &TelegramController{
		telegramService: telegramService,
		metrics:         authMetrics,
		cookieConfig:    cookieCfg,
		logger:          logger,
	}
}

// TelegramLoginHandler verifies a signed mini-app payload and logs the user in,
// creating the identity on first contact.
// @Summary Telegram mini-app login
// @Description Verifies the payload signature and freshness, then fetches or creates the identity and issues a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.TelegramAuthData true "Signed mini-app payload"
// @Success 200 {object} vo.TelegramLoginResponse
// @Failure 400 {object} vo.ErrorResponse "Malformed payload or phone number bound to another account"
// @Failure 401 {object} vo.ErrorResponse "Invalid or stale signature"
// @Failure 500 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/telegram [post]
func (ctrl *TelegramController) TelegramLoginHandler(c *gin.Context) {
	const operation = "TelegramController.TelegramLoginHandler"

	var data dto.TelegramAuthData
	if err := c.ShouldBindJSON(&data); err != nil {
		ctrl.logger.Warn("telegram payload binding failed", zap.String("operation", operation), zap.Error(err))
		ctrl.metrics.ObserveLogin(metrics.MethodTelegram, "malformed")
		respondBindError(c, err)
		return
	}

	result, err := ctrl.telegramService.LoginOrRegister(c.Request.Context(), data, utils.ClientMetaFromGin(c))
	ctrl.metrics.ObserveLogin(metrics.MethodTelegram, outcomeFor(err))
	if err != nil {
		respondServiceError(c, err, false)
		return
	}

	utils.SetRefreshCookie(c, ctrl.cookieConfig, result.Tokens.RefreshToken, refreshCookieTTL)
	c.JSON(http.StatusOK, vo.TelegramLoginResponse{
		Success: true,
		Created: result.Created,
		User:    vo.NewIdentityProfile(result.Identity),
		Tokens:  result.Tokens,
	})
}

func (ctrl *TelegramController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/telegram", ctrl.TelegramLoginHandler)
}
