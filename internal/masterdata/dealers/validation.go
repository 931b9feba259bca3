package dealers

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

func set(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (in DealerInput) apply(d *Dealer) {
	set(&d.Name, in.Name)
	set(&d.ContactPerson, in.ContactPerson)
	set(&d.Email, in.Email)
	set(&d.Phone, in.Phone)
	set(&d.Address, in.Address)
	set(&d.Status, in.Status)
	if d.Status == "" {
		d.Status = shared.StatusActive
	}
}

func validate(d Dealer) error {
	if utf8.RuneCountInString(d.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return fmt.Errorf("%w: email must be a valid email", httpx.ErrValidation)
		}
	}
	if d.Status != shared.StatusActive && d.Status != shared.StatusInactive {
		return fmt.Errorf("%w: status must be one of [active inactive]", httpx.ErrValidation)
	}
	return nil
}
