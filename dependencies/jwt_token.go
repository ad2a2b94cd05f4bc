package dependencies

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
	"github.com/Xushengqwer/identity_hub/models/enums"
	"github.com/Xushengqwer/identity_hub/models/vo"
)

// JWTTokenInterface is the session issuer: it mints and parses the
// access/refresh pair of an identity. Minting never touches the identity store.
type JWTTokenInterface interface {
	// IssuePair mints a fresh access/refresh pair. Every call yields new JTIs,
	// so pairs issued for the same identity are independent.
	IssuePair(identityID string, role enums.Role) (vo.TokenPair, error)

	// GenerateAccessToken signs a short-lived access token carrying the role.
	GenerateAccessToken(identityID string, role enums.Role) (string, error)

	// GenerateRefreshToken signs a refresh token with the refresh secret.
	GenerateRefreshToken(identityID string) (string, error)

	// ParseAccessToken validates signature, issuer and expiry of an access token.
	ParseAccessToken(tokenString string) (*CustomClaims, error)

	// ParseRefreshToken validates signature, issuer and expiry of a refresh token.
	ParseRefreshToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims are the claims of both token kinds; TokenType keeps one from
// being accepted as the other.
type CustomClaims struct {
	IdentityID           string     `json:"identity_id"`
	Role                 enums.Role `json:"role,omitempty"`
	TokenType            string     `json:"typ"`
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JWTUtility is the HS256 implementation of JWTTokenInterface.
type JWTUtility struct {
	cfg        *config.JWTConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTUtility builds the issuer; zero TTLs in cfg fall back to the constants.
func NewJWTUtility(cfg *config.JWTConfig) JWTTokenInterface {
	ju := &JWTUtility{
		cfg:        cfg,
		accessTTL:  constants.AccessTokenTTL,
		refreshTTL: constants.RefreshTokenTTL,
	}
	if cfg.AccessTTL > 0 {
		ju.accessTTL = cfg.AccessTTL
	}
	if cfg.RefreshTTL > 0 {
		ju.refreshTTL = cfg.RefreshTTL
	}
	return ju
}

func (ju *JWTUtility) IssuePair(identityID string, role enums.Role) (vo.TokenPair, error) {
	access, err := ju.GenerateAccessToken(identityID, role)
	if err != nil {
		return vo.TokenPair{}, err
	}
	refresh, err := ju.GenerateRefreshToken(identityID)
	if err != nil {
		return vo.TokenPair{}, err
	}
	return vo.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (ju *JWTUtility) GenerateAccessToken(identityID string, role enums.Role) (string, error) {
	return ju.sign(&CustomClaims{
		IdentityID: identityID,
		Role:       role,
		TokenType:  tokenTypeAccess,
	}, ju.accessTTL, ju.cfg.SecretKey)
}

func (ju *JWTUtility) GenerateRefreshToken(identityID string) (string, error) {
	return ju.sign(&CustomClaims{
		IdentityID: identityID,
		TokenType:  tokenTypeRefresh,
	}, ju.refreshTTL, ju.cfg.RefreshSecret)
}

func (ju *JWTUtility) sign(claims *CustomClaims, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    ju.cfg.Issuer,
		Subject:   claims.IdentityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.TokenType, err)
	}
	return signedToken, nil
}

func (ju *JWTUtility) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	return ju.parseToken(tokenString, []byte(ju.cfg.SecretKey), tokenTypeAccess)
}

func (ju *JWTUtility) ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	return ju.parseToken(tokenString, []byte(ju.cfg.RefreshSecret), tokenTypeRefresh)
}

// parseToken verifies a token and checks its kind.
func (ju *JWTUtility) parseToken(tokenString string, secret []byte, wantType string) (*CustomClaims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(ju.cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	token, err := parser.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token type %q, want %q", claims.TokenType, wantType)
	}
	return claims, nil
}
