package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/dto"
	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/models/enums"
	"github.com/Xushengqwer/identity_hub/repository/mysql"
	"github.com/Xushengqwer/identity_hub/repository/redis"
	"github.com/Xushengqwer/identity_hub/utils"
)

type testEnv struct {
	db           *gorm.DB
	mr           *miniredis.Miniredis
	identityRepo mysql.IdentityRepository
	historyRepo  mysql.LoginHistoryRepository
	svc          AccountService
}

func newTestEnv(t *testing.T, limit config.LoginLimitConfig) *testEnv {
	t.Helper()
	cfg := dependencies.NewGormConfig()
	cfg.Logger = logger.Discard
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, dependencies.AutoMigrate(db))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &testEnv{
		db:           db,
		mr:           mr,
		identityRepo: mysql.NewIdentityRepository(),
		historyRepo:  mysql.NewLoginHistoryRepository(),
	}
	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{SecretKey: "access", RefreshSecret: "refresh", Issuer: "identity_hub_test"})
	env.svc = NewAccountService(env.identityRepo, env.historyRepo, redis.NewLoginAttemptRepo(client), jwtUtil, db, limit, zap.NewNop())
	return env
}

var meta = utils.ClientMeta{IPAddress: "198.51.100.4", UserAgent: "curl/8"}

func registerData(email string) dto.RegisterData {
	return dto.RegisterData{Name: "Ali", Email: email, PhoneNumber: "+998901234567", Password: "s3cretPass"}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerData("Ali@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ali@example.com", reg.Identity.Email)
	assert.Equal(t, "998901234567", *reg.Identity.Phone)
	assert.Equal(t, enums.RoleClient, reg.Identity.Role)
	assert.NotEqual(t, "s3cretPass", reg.Identity.PasswordHash)
	assert.NotEmpty(t, reg.Tokens.AccessToken)

	login, err := env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
	assert.Equal(t, reg.Identity.ID, login.Identity.ID)
	assert.NotNil(t, login.Identity.LastLoginAt)

	entries, err := env.historyRepo.ListByIdentity(ctx, env.db, reg.Identity.ID, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, registerData("ALI@example.com"))
	assert.ErrorIs(t, err, constants.ErrEmailTaken)

	_, err = env.svc.Register(ctx, registerData("other@example.com"))
	assert.ErrorIs(t, err, constants.ErrPhoneConflict)
}

func TestLoginWrongPasswordIsRecorded(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "wrong"}, meta)
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)

	entries, err := env.historyRepo.ListByIdentity(ctx, env.db, reg.Identity.ID, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "198.51.100.4", *entries[0].IPAddress)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	_, err := env.svc.Login(context.Background(), dto.LoginData{Email: "nobody@example.com", Password: "x"}, meta)
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)
}

func TestLoginAccountState(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)
	identity := reg.Identity

	identity.Active = false
	require.NoError(t, env.identityRepo.UpdateIdentity(ctx, env.db, identity))
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	assert.ErrorIs(t, err, constants.ErrAccountInactive)

	identity.SoftDelete(time.Now())
	require.NoError(t, env.identityRepo.UpdateIdentity(ctx, env.db, identity))
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	assert.ErrorIs(t, err, constants.ErrAccountDeleted)
}

func TestLoginThrottle(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "wrong"}, meta)
		assert.ErrorIs(t, err, constants.ErrInvalidCredentials)
	}

	// the correct password is refused too while the window is open
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	assert.ErrorIs(t, err, constants.ErrTooManyAttempts)

	env.mr.FastForward(2 * time.Minute)
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "wrong"}, meta)
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "wrong"}, meta)
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	env.mr.Close()
	_, err = env.svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
}

// changedAfterReadRepo applies mutate to the stored row right after the
// unlocked email lookup returns, like a request committing in between.
type changedAfterReadRepo struct {
	mysql.IdentityRepository
	db     *gorm.DB
	mutate func(identity *entities.Identity)
}

func (r *changedAfterReadRepo) GetIdentityByEmail(ctx context.Context, db *gorm.DB, email string) (*entities.Identity, error) {
	identity, err := r.IdentityRepository.GetIdentityByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	stored := *identity
	r.mutate(&stored)
	if err := r.IdentityRepository.UpdateIdentity(ctx, r.db, &stored); err != nil {
		return nil, err
	}
	return identity, nil
}

func (e *testEnv) serviceWith(repo mysql.IdentityRepository) AccountService {
	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{SecretKey: "access", RefreshSecret: "refresh", Issuer: "identity_hub_test"})
	return NewAccountService(repo, e.historyRepo, nil, jwtUtil, e.db, config.LoginLimitConfig{}, zap.NewNop())
}

func TestLoginDoesNotUndoConcurrentDelete(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	svc := env.serviceWith(&changedAfterReadRepo{
		IdentityRepository: env.identityRepo,
		db:                 env.db,
		mutate:             func(identity *entities.Identity) { identity.SoftDelete(time.Now()) },
	})
	_, err = svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	assert.ErrorIs(t, err, constants.ErrAccountDeleted)

	stored, err := env.identityRepo.GetIdentityByID(ctx, env.db, reg.Identity.ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted)
	assert.False(t, stored.Active)
	assert.NotNil(t, stored.DeletedAt)
	assert.Nil(t, stored.LastLoginAt)

	entries, err := env.historyRepo.ListByIdentity(ctx, env.db, reg.Identity.ID, 20)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoginKeepsConcurrentProfileChange(t *testing.T) {
	env := newTestEnv(t, config.LoginLimitConfig{})
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerData("ali@example.com"))
	require.NoError(t, err)

	svc := env.serviceWith(&changedAfterReadRepo{
		IdentityRepository: env.identityRepo,
		db:                 env.db,
		mutate:             func(identity *entities.Identity) { identity.DisplayName = "Renamed" },
	})
	result, err := svc.Login(ctx, dto.LoginData{Email: "ali@example.com", Password: "s3cretPass"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", result.Identity.DisplayName)

	stored, err := env.identityRepo.GetIdentityByID(ctx, env.db, reg.Identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.DisplayName)
	assert.NotNil(t, stored.LastLoginAt)
}
