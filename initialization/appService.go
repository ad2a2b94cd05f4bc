package initialization

import (
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/repository/redis"
	"github.com/Xushengqwer/identity_hub/service/login/auth"
	"github.com/Xushengqwer/identity_hub/service/login/oAuth"
	"github.com/Xushengqwer/identity_hub/service/profile"
	"github.com/Xushengqwer/identity_hub/service/token"
)

// AppServices holds every service instance.
type AppServices struct {
	Telegram oAuth.TelegramAuthService
	Account  auth.AccountService
	Token    token.AuthTokenService
	Profile  profile.ProfileService
}

// SetupServices builds repositories and services on top of deps.
func SetupServices(deps *AppDependencies) *AppServices {
	logger := deps.Logger.Logger()

	identityRepo := mysql.NewIdentityRepository()
	historyRepo := mysql.NewLoginHistoryRepository()
	attemptRepo := mysql.NewAuthAttemptRepository()

	tokenBlackRepo := redis.NewTokenBlacklistRepo(deps.RedisClient)
	loginAttemptRepo := redis.NewLoginAttemptRepo(deps.RedisClient)

	telegramService := oAuth.NewTelegramAuthService(
		deps.TelegramVerifier,
		identityRepo,
		historyRepo,
		attemptRepo,
		deps.JwtToken,
		deps.DB,
		deps.Config.TelegramConfig.EmailDomain,
		logger,
	)

	accountService := auth.NewAccountService(
		identityRepo,
		historyRepo,
		loginAttemptRepo,
		deps.JwtToken,
		deps.DB,
		deps.Config.LoginLimitConfig,
		logger,
	)

	tokenService := token.NewAuthTokenService(
		tokenBlackRepo,
		identityRepo,
		deps.JwtToken,
		deps.DB,
		logger,
	)

	profileService := profile.NewProfileService(
		identityRepo,
		historyRepo,
		deps.COSClient,
		deps.DB,
		logger,
	)

	return &AppServices{
		Telegram: telegramService,
		Account:  accountService,
		Token:    tokenService,
		Profile:  profileService,
	}
}
