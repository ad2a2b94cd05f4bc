// Command tgauth-sign prints a signed mini-app login payload, the same body
// the bot hands to the web app. It is meant for local testing of
// POST /api/v1/identity-hub/auth/telegram.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/Xushengqwer/identity_hub/config"
	"github.com/Xushengqwer/identity_hub/dependencies"
	"github.com/Xushengqwer/identity_hub/models/dto"
)

func main() {
	var (
		botToken  = flag.String("token", os.Getenv("TELEGRAMCONFIG_BOT_TOKEN"), "bot token (defaults to $TELEGRAMCONFIG_BOT_TOKEN)")
		id        = flag.Int64("id", 0, "Telegram user id")
		firstName = flag.String("first-name", "", "first name")
		lastName  = flag.String("last-name", "", "last name")
		username  = flag.String("username", "", "username")
		photoURL  = flag.String("photo-url", "", "profile photo URL")
		phone     = flag.String("phone", "", "phone number shared with the bot (not signed)")
		age       = flag.Duration("age", 0, "backdate auth_date by this much")
	)
	flag.Parse()

	if *botToken == "" || *id == 0 {
		flag.Usage()
		os.Exit(2)
	}

	payload := dto.TelegramAuthData{
		ID:          *id,
		FirstName:   *firstName,
		LastName:    *lastName,
		Username:    *username,
		PhotoURL:    *photoURL,
		PhoneNumber: *phone,
		AuthDate:    time.Now().Add(-*age).Unix(),
	}
	signer, err := dependencies.NewTelegramVerifier(&config.TelegramConfig{BotToken: *botToken})
	if err != nil {
		log.Fatalf("build signer: %v", err)
	}
	payload.Hash = signer.Sign(payload.Fields())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("encode payload: %v", err)
	}
}
