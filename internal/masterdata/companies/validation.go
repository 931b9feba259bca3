package companies

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

func (in CompanyInput) apply(c *Company) {
	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&c.Name, in.Name},
		{&c.Address, in.Address},
		{&c.Phone, in.Phone},
		{&c.Email, in.Email},
		{&c.Website, in.Website},
		{&c.TaxNumber, in.TaxNumber},
	} {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}
}

func validate(c Company) error {
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("%w: email must be a valid email", httpx.ErrValidation)
		}
	}
	return nil
}
