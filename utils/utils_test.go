package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/identity_hub/config"
)

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "998901234567", NormalizePhone(" +998901234567 "))
	assert.Equal(t, "998901234567", NormalizePhone("998901234567"))
	assert.Equal(t, "ali@example.com", NormalizeEmail("  Ali@Example.COM "))
	assert.Nil(t, OptionalString(""))
	assert.Equal(t, "x", *OptionalString("x"))
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("UzPhone", ValidateUzPhone))
	require.NoError(t, v.RegisterValidation("Password", ValidatePassword))
	require.NoError(t, v.RegisterValidation("Role", ValidRole))

	assert.NoError(t, v.Var("+998901234567", "UzPhone"))
	assert.NoError(t, v.Var("998901234567", "UzPhone"))
	assert.Error(t, v.Var("+79001234567", "UzPhone"))
	assert.Error(t, v.Var("99890123456", "UzPhone"))

	assert.NoError(t, v.Var("s3cretPass", "Password"))
	assert.Error(t, v.Var("short1", "Password"))
	assert.Error(t, v.Var("lettersonly", "Password"))
	assert.Error(t, v.Var("1234567890", "Password"))

	assert.NoError(t, v.Var("seller", "Role"))
	assert.NoError(t, v.Var("", "Role"))
	assert.Error(t, v.Var("admin", "Role"))
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("s3cretPass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretPass", hashed)
	assert.NoError(t, CheckPassword(hashed, "s3cretPass"))
	assert.Error(t, CheckPassword(hashed, "other"))
}

func TestRefreshCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.CookieConfig{Path: "/", HttpOnly: true, SameSite: "Strict", RefreshTokenName: "refresh_token"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetRefreshCookie(c, cfg, "tok", time.Hour)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	SetRefreshCookie(c, cfg, "tok", 0)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	SetRefreshCookie(c, config.CookieConfig{}, "tok", time.Hour)
	assert.Empty(t, w.Result().Cookies())

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", RefreshTokenFromCookie(c, cfg))
	assert.Empty(t, RefreshTokenFromCookie(c, config.CookieConfig{}))
}

func TestParseSameSiteString(t *testing.T) {
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSiteString("None"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSiteString("bogus"))
}
