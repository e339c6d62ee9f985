package templates

import (
	"fmt"
	"time"

	"github.com/oksasatya/campuskart/config"
)

// NewVerifyEmailData fills the verification email from config and the recipient.
func NewVerifyEmailData(cfg *config.Config, name, email, verifyURL string, ttl time.Duration) EmailData {
	return EmailData{
		Name:          name,
		Email:         email,
		AppName:       cfg.AppName,
		CompanyName:   cfg.CompanyName,
		SupportURL:    cfg.SupportURL,
		VerifyURL:     verifyURL,
		ExpiresIn:     humanDuration(ttl),
		ExpiresAtText: time.Now().Add(ttl).UTC().Format("02 January 2006, 15:04 MST"),
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d < time.Hour && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
