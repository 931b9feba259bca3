package others

import (
	"fmt"
	"strconv"
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

func (in OtherBrandInput) apply(b *OtherBrand) {
	set(&b.Name, in.Name)
	set(&b.Description, in.Description)
	set(&b.Status, in.Status)
	if b.Status == "" {
		b.Status = shared.StatusActive
	}
}

func validateBrand(b OtherBrand) error {
	if utf8.RuneCountInString(b.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	if b.Status != shared.StatusActive && b.Status != shared.StatusInactive {
		return fmt.Errorf("%w: status must be one of [active inactive]", httpx.ErrValidation)
	}
	return nil
}

func (in OtherProductInput) apply(p *OtherProduct) error {
	set(&p.Name, in.Name)
	set(&p.Description, in.Description)
	if in.OtherBrandID != nil {
		id, err := httpx.ParseOptionalUUID(*in.OtherBrandID)
		if err != nil {
			return err
		}
		p.OtherBrandID = id
	}
	if in.Price != nil {
		raw := strings.TrimSpace(string(*in.Price))
		if raw == "" {
			p.Price = 0
		} else {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return fmt.Errorf("%w: price must be a non-negative number", httpx.ErrValidation)
			}
			p.Price = v
		}
	}
	return nil
}

func validateProduct(p OtherProduct) error {
	if utf8.RuneCountInString(p.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	return nil
}
