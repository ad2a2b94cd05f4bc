package dependencies

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/models/enums"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:     "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "identity-hub-test",
	}
}

func TestIssuePairRoundTrip(t *testing.T) {
	ju := NewJWTUtility(testJWTConfig())

	pair, err := ju.IssuePair("identity-1", enums.RoleSeller)
	require.NoError(t, err)

	access, err := ju.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", access.IdentityID)
	assert.Equal(t, enums.RoleSeller, access.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), access.ExpiresAt.Time, 5*time.Second)

	refresh, err := ju.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", refresh.IdentityID)
	assert.WithinDuration(t, time.Now().Add(10*24*time.Hour), refresh.ExpiresAt.Time, 5*time.Second)
}

func TestIssuePairYieldsFreshJTIs(t *testing.T) {
	ju := NewJWTUtility(testJWTConfig())

	a, err := ju.IssuePair("identity-1", enums.RoleClient)
	require.NoError(t, err)
	b, err := ju.IssuePair("identity-1", enums.RoleClient)
	require.NoError(t, err)

	ca, err := ju.ParseRefreshToken(a.RefreshToken)
	require.NoError(t, err)
	cb, err := ju.ParseRefreshToken(b.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.SecretKey // same key, so only the type claim tells them apart
	ju := NewJWTUtility(cfg)

	pair, err := ju.IssuePair("identity-1", enums.RoleClient)
	require.NoError(t, err)

	_, err = ju.ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
	_, err = ju.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestParseRejectsForeignIssuerAndExpiry(t *testing.T) {
	ju := NewJWTUtility(testJWTConfig())

	other := testJWTConfig()
	other.Issuer = "someone-else"
	foreign, err := NewJWTUtility(other).GenerateAccessToken("identity-1", enums.RoleClient)
	require.NoError(t, err)
	_, err = ju.ParseAccessToken(foreign)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	stale := &JWTUtility{cfg: testJWTConfig(), accessTTL: -time.Minute, refreshTTL: time.Hour}
	expired, err := stale.GenerateAccessToken("identity-1", enums.RoleClient)
	require.NoError(t, err)
	_, err = ju.ParseAccessToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
