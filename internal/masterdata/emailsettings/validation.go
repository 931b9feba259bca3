package emailsettings

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

func set(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// apply merges in. An empty or missing password keeps the stored one.
func (in SettingInput) apply(s *Setting) error {
	set(&s.SMTPHost, in.SMTPHost)
	set(&s.Username, in.Username)
	set(&s.FromName, in.FromName)
	set(&s.FromEmail, in.FromEmail)
	if in.Password != nil && *in.Password != "" {
		s.Password = *in.Password
	}
	if in.Secure != nil {
		s.Secure = bool(*in.Secure)
	}
	if in.SMTPPort != nil {
		raw := strings.TrimSpace(string(*in.SMTPPort))
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: smtpPort must be a number", httpx.ErrValidation)
		}
		s.SMTPPort = port
	} else if s.SMTPPort == 0 {
		s.SMTPPort = DefaultPort
	}
	return nil
}

func validate(s Setting) error {
	if s.SMTPPort < 1 || s.SMTPPort > 65535 {
		return fmt.Errorf("%w: smtpPort must be between 1 and 65535", httpx.ErrValidation)
	}
	if s.FromEmail != "" {
		if _, err := mail.ParseAddress(s.FromEmail); err != nil {
			return fmt.Errorf("%w: fromEmail must be a valid email", httpx.ErrValidation)
		}
	}
	return nil
}
