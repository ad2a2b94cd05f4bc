package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/metrics"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/vo"
	"github.com/Xushengqwer/identity_hub/service/login/auth"
	"github.com/Xushengqwer/identity_hub/utils"
)

const refreshCookieTTL = constants.RefreshTokenTTL

// AccountController serves email/password registration and login.
type AccountController struct {
	accountService        auth.AccountService
	metrics               *metrics.AuthMetrics
	cookieConfig          config.CookieConfig
	collapseAccountErrors bool
	logger                *zap.Logger
}

// NewAccountController builds the controller. With collapseAccountErrors set,
// logins to inactive or deleted accounts get the bad-credentials answer.
func NewAccountController(
	accountService auth.AccountService,
	authMetrics *metrics.AuthMetrics,
	cookieCfg config.CookieConfig,
	collapseAccountErrors bool,
	logger *zap.Logger,
) *AccountController {
	return &AccountController{
		accountService:        accountService,
		metrics:               authMetrics,
		cookieConfig:          cookieCfg,
		collapseAccountErrors: collapseAccountErrors,
		logger:                logger,
	}
}

// RegisterHandler creates an email/password identity and logs it in.
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterData true "Registration data"
// @Success 201 {object} vo.LoginResponse
// @Failure 400 {object} vo.ErrorResponse "Malformed payload, email taken or phone bound to another account"
// @Failure 500 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/register [post]
func (ctrl *AccountController) RegisterHandler(c *gin.Context) {
	const operation = "AccountController.RegisterHandler"

	var data dto.RegisterData
	if err := c.ShouldBindJSON(&data); err != nil {
		ctrl.logger.Warn("register binding failed", zap.String("operation", operation), zap.Error(err))
		respondBindError(c, err)
		return
	}

	result, err := ctrl.accountService.Register(c.Request.Context(), data)
	if err != nil {
		respondServiceError(c, err, false)
		return
	}

	utils.SetRefreshCookie(c, ctrl.cookieConfig, result.Tokens.RefreshToken, refreshCookieTTL)
	c.JSON(http.StatusCreated, vo.LoginResponse{
		Success: true,
		User:    vo.NewIdentityProfile(result.Identity),
		Tokens:  result.Tokens,
	})
}

// LoginHandler checks an email/password credential.
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginData true "Credentials"
// @Success 200 {object} vo.LoginResponse
// @Failure 400 {object} vo.ErrorResponse "Malformed payload"
// @Failure 401 {object} vo.ErrorResponse "Invalid credentials, inactive or deleted account"
// @Failure 429 {object} vo.ErrorResponse "Too many failed attempts"
// @Failure 500 {object} vo.ErrorResponse
// @Router /api/v1/identity-hub/auth/login [post]
func (ctrl *AccountController) LoginHandler(c *gin.Context) {
	const operation = "AccountController.LoginHandler"

	var data dto.LoginData
	if err := c.ShouldBindJSON(&data); err != nil {
		ctrl.logger.Warn("login binding failed", zap.String("operation", operation), zap.Error(err))
		ctrl.metrics.ObserveLogin(metrics.MethodPassword, "malformed")
		respondBindError(c, err)
		return
	}

	result, err := ctrl.accountService.Login(c.Request.Context(), data, utils.ClientMetaFromGin(c))
	ctrl.metrics.ObserveLogin(metrics.MethodPassword, outcomeFor(err))
	if err != nil {
		respondServiceError(c, err, ctrl.collapseAccountErrors)
		return
	}

	utils.SetRefreshCookie(c, ctrl.cookieConfig, result.Tokens.RefreshToken, refreshCookieTTL)
	c.JSON(http.StatusOK, vo.LoginResponse{
		Success: true,
		User:    vo.NewIdentityProfile(result.Identity),
		Tokens:  result.Tokens,
	})
}

func (ctrl *AccountController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/auth/register", ctrl.RegisterHandler)
	group.POST("/auth/login", ctrl.LoginHandler)
}
