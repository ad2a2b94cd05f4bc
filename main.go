package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	_ "github.com/Xushengqwer/identity_hub/docs"
	"github.com/Xushengqwer/identity_hub/initialization"
	"github.com/Xushengqwer/identity_hub/router"
)

// @title           Identity Hub API
// @version         1.0
// @description     Telegram mini-app and email/password login, session issuance and self-service profile.

// @host      localhost:8081
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	var cfg config.IdentityHubConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: load config (%s): %v", configFile, err)
	}
	applyEnvOverrides(&cfg)

	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: init ZapLogger: %v", loggerErr)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync: %v\n", err)
		}
	}()

	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(
			constants.ServiceName,
			constants.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("init TracerProvider failed", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("TracerProvider shutdown failed", zap.Error(err))
			}
		}()
		logger.Info("tracing enabled")
	}

	appDeps, err := initialization.SetupDependencies(&cfg, logger)
	if err != nil {
		logger.Fatal("dependency setup failed", zap.Error(err))
	}
	appServices := initialization.SetupServices(appDeps)

	engine := router.SetupRouter(logger, &cfg, appDeps, appServices)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	srv := &http.Server{
		Addr:    serverAddress,
		Handler: otelhttp.NewHandler(engine, "HTTPServer"),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	recSignal := <-quit
	logger.Info("shutdown signal received", zap.String("signal", recSignal.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	if sqlDB, err := appDeps.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = appDeps.RedisClient.Close()
	logger.Info("service stopped")
}

// applyEnvOverrides lets deployments inject secrets and endpoints without
// editing the config file.
func applyEnvOverrides(cfg *config.IdentityHubConfig) {
	setString := func(env string, dst *string, secret bool) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			if secret {
				log.Printf("config override from %s\n", env)
			} else {
				log.Printf("config override from %s: %s\n", env, v)
			}
		}
	}
	setBool := func(env string, dst *bool) {
		if v, err := strconv.ParseBool(os.Getenv(env)); err == nil {
			*dst = v
			log.Printf("config override from %s: %t\n", env, v)
		}
	}

	setString("ZAPCONFIG_LEVEL", &cfg.ZapConfig.Level, false)
	setString("GORMLOGCONFIG_LEVEL", &cfg.GormLogConfig.Level, false)
	setBool("TRACERCONFIG_ENABLED", &cfg.TracerConfig.Enabled)

	setString("TELEGRAMCONFIG_BOT_TOKEN", &cfg.TelegramConfig.BotToken, true)
	setString("TELEGRAMCONFIG_EMAIL_DOMAIN", &cfg.TelegramConfig.EmailDomain, false)

	setString("JWTCONFIG_SECRET_KEY", &cfg.JWTConfig.SecretKey, true)
	setString("JWTCONFIG_REFRESH_SECRET", &cfg.JWTConfig.RefreshSecret, true)

	setString("MYSQLCONFIG_DRIVER", &cfg.MySQLConfig.Driver, false)
	setString("MYSQLCONFIG_DSN", &cfg.MySQLConfig.DSN, true)
	setString("REDISCONFIG_ADDRESS", &cfg.RedisConfig.Address, false)
	setString("REDISCONFIG_PASSWORD", &cfg.RedisConfig.Password, true)

	setBool("LOGINLIMITCONFIG_COLLAPSE_ACCOUNT_ERRORS", &cfg.LoginLimitConfig.CollapseAccountErrors)

	setBool("COSCONFIG_ENABLED", &cfg.COSConfig.Enabled)
	setString("COSCONFIG_SECRET_ID", &cfg.COSConfig.SecretID, true)
	setString("COSCONFIG_SECRET_KEY", &cfg.COSConfig.SecretKey, true)
	setString("COSCONFIG_BUCKET_NAME", &cfg.COSConfig.BucketName, false)
	setString("COSCONFIG_APP_ID", &cfg.COSConfig.AppID, false)
	setString("COSCONFIG_REGION", &cfg.COSConfig.Region, false)
	setString("COSCONFIG_BASE_URL", &cfg.COSConfig.BaseURL, false)

	setBool("COOKIECONFIG_SECURE", &cfg.CookieConfig.Secure)
	setString("COOKIECONFIG_DOMAIN", &cfg.CookieConfig.Domain, false)
	setString("COOKIECONFIG_REFRESH_TOKEN_NAME", &cfg.CookieConfig.RefreshTokenName, false)
}
