package dependencies

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
)

const testBotToken = "123456:ABC-test-token"

func fixedVerifier(now time.Time) *telegramVerifier {
	return &telegramVerifier{
		secretKey: TelegramSecretKey(testBotToken),
		maxAge:    defaultTelegramMaxAuthAge,
		now:       func() time.Time { return now },
	}
}

func signWithToken(botToken string, fields map[string]string) string {
	return (&telegramVerifier{secretKey: TelegramSecretKey(botToken)}).Sign(fields)
}

func signedFields(authDate time.Time) map[string]string {
	fields := TelegramFields(123456789, "Ali", "", "ali_b", "", authDate.Unix(), "998901234567", "")
	fields[TelegramHashField] = signWithToken(testBotToken, fields)
	return fields
}

func TestTelegramDataCheckString(t *testing.T) {
	fields := map[string]string{
		"username":     "ali_b",
		"id":           "42",
		"auth_date":    "1700000000",
		"first_name":   "Ali",
		"last_name":    "",
		"phone_number": "998901234567",
		"hash":         "deadbeef",
		"unknown":      "x",
	}
	got := TelegramDataCheckString(fields)
	assert.Equal(t, "auth_date=1700000000\nfirst_name=Ali\nid=42\nusername=ali_b", got)
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestVerifyAcceptsValidPayload(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedVerifier(now)
	require.NoError(t, v.Verify(signedFields(now.Add(-time.Minute))))
}

func TestVerifyAcceptsUppercaseHash(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := signedFields(now)
	fields[TelegramHashField] = strings.ToUpper(fields[TelegramHashField])
	require.NoError(t, fixedVerifier(now).Verify(fields))
}

func TestVerifyRejectsTamperedSignedField(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	for _, key := range []string{"id", "first_name", "username", "auth_date"} {
		t.Run(key, func(t *testing.T) {
			fields := signedFields(now)
			if key == "auth_date" {
				fields[key] = strconv.FormatInt(now.Unix()-1, 10)
			} else {
				fields[key] = fields[key] + "x"
			}
			assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrSignatureInvalid)
		})
	}
}

func TestVerifyRejectsAppendedField(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := signedFields(now)
	fields["last_name"] = "Smith"
	assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrSignatureInvalid)
}

func TestVerifyIgnoresCarrierField(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := signedFields(now)
	fields["phone_number"] = "998991112233"
	require.NoError(t, fixedVerifier(now).Verify(fields))

	delete(fields, "phone_number")
	require.NoError(t, fixedVerifier(now).Verify(fields))
}

func TestVerifyRejectsStalePayload(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := signedFields(now.Add(-25 * time.Hour))
	assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrPayloadStale)
}

func TestVerifyAcceptsPayloadAtWindowEdge(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := signedFields(now.Add(-24 * time.Hour))
	require.NoError(t, fixedVerifier(now).Verify(fields))
}

func TestVerifyRejectsMissingHashOrDate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	fields := signedFields(now)
	delete(fields, TelegramHashField)
	assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrSignatureInvalid)

	fields = signedFields(now)
	fields[TelegramAuthDateField] = "yesterday"
	assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrPayloadStale)
}

func TestVerifyRejectsOtherBotToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fields := TelegramFields(1, "A", "", "", "", now.Unix(), "", "")
	fields[TelegramHashField] = signWithToken("other:token", fields)
	assert.ErrorIs(t, fixedVerifier(now).Verify(fields), constants.ErrSignatureInvalid)
}

func TestVerifierSignMatchesBotSide(t *testing.T) {
	v, err := NewTelegramVerifier(&config.TelegramConfig{BotToken: testBotToken})
	require.NoError(t, err)

	fields := TelegramFields(7, "Bob", "Lee", "bob", "https://t.me/i/bob.jpg", time.Now().Unix(), "", "")

	// what the bot computes: HMAC(HMAC("WebAppData", token), data-check string)
	keyMAC := hmac.New(sha256.New, []byte("WebAppData"))
	keyMAC.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, keyMAC.Sum(nil))
	mac.Write([]byte(TelegramDataCheckString(fields)))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), v.Sign(fields))

	fields[TelegramHashField] = v.Sign(fields)
	require.NoError(t, v.Verify(fields))
}

func TestNewTelegramVerifierRequiresToken(t *testing.T) {
	_, err := NewTelegramVerifier(&config.TelegramConfig{})
	assert.Error(t, err)
}
