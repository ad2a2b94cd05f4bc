package initialization

import (
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/metrics"
	"github.com/Xushengqwer/identity_hub/utils"
)

// AppDependencies holds the infrastructure shared by services and controllers.
// It is built once in main.
type AppDependencies struct {
	Config           *config.IdentityHubConfig
	Logger           *core.ZapLogger
	DB               *gorm.DB
	RedisClient      *redis.Client
	JwtToken         dependencies.JWTTokenInterface
	TelegramVerifier dependencies.TelegramVerifier
	COSClient        dependencies.COSClientInterface // nil when avatar storage is off
	Registry         *prometheus.Registry
	Metrics          *metrics.AuthMetrics
}

// SetupDependencies initialises the infrastructure in dependency order and
// fails on the first component that cannot start.
func SetupDependencies(cfg *config.IdentityHubConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	var deps AppDependencies
	deps.Config = cfg
	deps.Logger = logger

	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("register custom validators: %w", err)
	}
	logger.Info("custom validators registered")

	verifier, err := dependencies.NewTelegramVerifier(&cfg.TelegramConfig)
	if err != nil {
		return nil, fmt.Errorf("init telegram verifier: %w", err)
	}
	deps.TelegramVerifier = verifier
	logger.Info("telegram verifier ready")

	db, err := dependencies.InitMySQL(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init identity store: %w", err)
	}
	deps.DB = db

	redisClient, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	deps.RedisClient = redisClient

	deps.JwtToken = dependencies.NewJWTUtility(&cfg.JWTConfig)
	logger.Info("session issuer ready")

	cosClient, err := dependencies.InitCOS(&cfg.COSConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("init COS: %w", err)
	}
	deps.COSClient = cosClient

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewAuthMetrics(deps.Registry)

	logger.Info("all dependencies initialised")
	return &deps, nil
}
