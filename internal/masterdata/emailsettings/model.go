// Package emailsettings stores the SMTP account used to send quotations.
package emailsettings

import (
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
)

// Setting is the singleton SMTP configuration. Password is write-only.
type Setting struct {
	ID          uuid.UUID `json:"id"`
	SMTPHost    string    `json:"smtpHost"`
	SMTPPort    int       `json:"smtpPort"`
	Username    string    `json:"username"`
	Password    string    `json:"-"`
	HasPassword bool      `json:"hasPassword"`
	FromName    string    `json:"fromName"`
	FromEmail   string    `json:"fromEmail"`
	Secure      bool      `json:"secure"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const DefaultPort = 587

type SettingInput struct {
	SMTPHost  *string            `json:"smtpHost"`
	SMTPPort  *shared.FlexString `json:"smtpPort"`
	Username  *string            `json:"username"`
	Password  *string            `json:"password"`
	FromName  *string            `json:"fromName"`
	FromEmail *string            `json:"fromEmail"`
	Secure    *shared.FlexBool   `json:"secure"`
}
