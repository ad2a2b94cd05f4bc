package dependencies

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/constants"
)

const (
	// TelegramHashField carries the received signature.
	TelegramHashField = "hash"
	// TelegramAuthDateField carries the signing time in unix seconds.
	TelegramAuthDateField = "auth_date"

	telegramKeySeed           = "WebAppData"
	defaultTelegramMaxAuthAge = 24 * time.Hour
)

// TelegramSignedFields is the exact set of payload fields covered by the
// signature. Anything else in the field map never reaches the data-check string.
var TelegramSignedFields = map[string]struct{}{
	"id":                  {},
	"first_name":          {},
	"last_name":           {},
	"username":            {},
	"photo_url":           {},
	TelegramAuthDateField: {},
}

// TelegramCarrierFields travel next to the signed fields (the bot attaches the
// shared contact) but are not protected by the signature.
var TelegramCarrierFields = map[string]struct{}{
	"phone_number": {},
}

// TelegramVerifier checks mini-app login payloads against the bot token it
// was built with.
type TelegramVerifier interface {
	// Verify returns nil for an authentic, fresh payload,
	// constants.ErrSignatureInvalid for a missing or wrong hash and
	// constants.ErrPayloadStale for a missing, unparsable or expired auth_date.
	// The field map is not modified.
	Verify(fields map[string]string) error

	// Sign computes the hash the bot attaches to fields.
	Sign(fields map[string]string) string
}

type telegramVerifier struct {
	secretKey []byte
	maxAge    time.Duration
	now       func() time.Time
}

// NewTelegramVerifier derives the signing key from cfg.BotToken once.
func NewTelegramVerifier(cfg *config.TelegramConfig) (TelegramVerifier, error) {
	if cfg == nil || cfg.BotToken == "" {
		return nil, errors.New("telegram bot token is not configured")
	}
	maxAge := cfg.MaxAuthAge
	if maxAge <= 0 {
		maxAge = defaultTelegramMaxAuthAge
	}
	return &telegramVerifier{
		secretKey: TelegramSecretKey(cfg.BotToken),
		maxAge:    maxAge,
		now:       time.Now,
	}, nil
}

func (v *telegramVerifier) Sign(fields map[string]string) string {
	return signDataCheckString(v.secretKey, TelegramDataCheckString(fields))
}

func (v *telegramVerifier) Verify(fields map[string]string) error {
	// 1. received signature
	received := fields[TelegramHashField]
	if received == "" {
		return constants.ErrSignatureInvalid
	}

	// 2-4. canonical string over the signed subset
	dataCheck := TelegramDataCheckString(fields)

	// 5. freshness, independent of signature validity
	authDate, err := strconv.ParseInt(fields[TelegramAuthDateField], 10, 64)
	if err != nil {
		return constants.ErrPayloadStale
	}
	if v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
		return constants.ErrPayloadStale
	}

	// 6-8. HMAC and constant-time comparison
	calculated := signDataCheckString(v.secretKey, dataCheck)
	if !hmac.Equal([]byte(calculated), []byte(strings.ToLower(received))) {
		return constants.ErrSignatureInvalid
	}
	return nil
}

// TelegramDataCheckString renders the signed, non-empty fields as key=value
// lines sorted byte-wise by key, joined by '\n' without a trailing newline.
// The hash and carrier fields are excluded.
func TelegramDataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if _, carrier := TelegramCarrierFields[k]; carrier {
			continue
		}
		if _, signed := TelegramSignedFields[k]; !signed || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}
	return strings.Join(lines, "\n")
}

// TelegramSecretKey is HMAC-SHA256 keyed with "WebAppData" over the bot token.
func TelegramSecretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(telegramKeySeed))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func signDataCheckString(secretKey []byte, dataCheck string) string {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(dataCheck))
	return hex.EncodeToString(mac.Sum(nil))
}

// TelegramFields renders typed payload values into the string map the
// verifier works on. Integer fields use their decimal form.
func TelegramFields(id int64, firstName, lastName, username, photoURL string, authDate int64, phone, hash string) map[string]string {
	fields := map[string]string{
		"id":                  strconv.FormatInt(id, 10),
		"first_name":          firstName,
		"last_name":           lastName,
		"username":            username,
		"photo_url":           photoURL,
		TelegramAuthDateField: strconv.FormatInt(authDate, 10),
		"phone_number":        phone,
	}
	if hash != "" {
		fields[TelegramHashField] = hash
	}
	return fields
}
