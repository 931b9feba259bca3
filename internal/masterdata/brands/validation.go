package brands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

func (in BrandInput) apply(b *Brand) {
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		b.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		b.Status = strings.TrimSpace(*in.Status)
	}
	if b.Status == "" {
		b.Status = shared.StatusActive
	}
}

func validate(b Brand) error {
	if utf8.RuneCountInString(b.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	if b.Status != shared.StatusActive && b.Status != shared.StatusInactive {
		return fmt.Errorf("%w: status must be one of [active inactive]", httpx.ErrValidation)
	}
	return nil
}
