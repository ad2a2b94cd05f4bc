package router

import (
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/controller"
	_ "github.com/Xushengqwer/identity_hub/docs"
	"github.com/Xushengqwer/identity_hub/initialization"
	"github.com/Xushengqwer/identity_hub/metrics"
	"github.com/Xushengqwer/identity_hub/middleware"
)

// APIPrefix is the base path of every business route.
const APIPrefix = "/api/v1/identity-hub"

// SetupRouter builds the gin engine: global middleware, the public auth
// routes, the token-protected profile routes, metrics and Swagger UI.
func SetupRouter(
	logger *core.ZapLogger,
	cfg *config.IdentityHubConfig,
	appDeps *initialization.AppDependencies,
	appServices *initialization.AppServices,
) *gin.Engine {
	router := gin.New()

	// tracing first so later middleware sees the span
	router.Use(otelgin.Middleware(constants.ServiceName))
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	router.Use(commonMiddleware.RequestLoggerMiddleware(logger.Logger()))
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))

	baseLogger := logger.Logger()
	v1 := router.Group(APIPrefix)

	telegramCtrl := controller.NewTelegramController(appServices.Telegram, appDeps.Metrics, cfg.CookieConfig, baseLogger)
	accountCtrl := controller.NewAccountController(appServices.Account, appDeps.Metrics, cfg.CookieConfig, cfg.LoginLimitConfig.CollapseAccountErrors, baseLogger)
	tokenCtrl := controller.NewAuthTokenController(appServices.Token, appDeps.Metrics, cfg.CookieConfig, baseLogger)
	profileCtrl := controller.NewProfileController(appServices.Profile, cfg.CookieConfig, baseLogger)

	telegramCtrl.RegisterRoutes(v1)
	accountCtrl.RegisterRoutes(v1)
	tokenCtrl.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.RequireAccessToken(appDeps.JwtToken))
	profileCtrl.RegisterRoutes(protected)

	router.GET("/metrics", metrics.Handler(appDeps.Registry))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("routes registered")
	return router
}
