package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, strips diacritics and joins words with single dashes.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "item"
	}
	return slug
}

// BrandLogoKey is fixed per brand so re-uploads overwrite.
func BrandLogoKey(brandName, ext string) string {
	return fmt.Sprintf("brands/%s/brand-logo.%s", Slugify(brandName), ext)
}

// ProductImageKey is unique per upload so a product's images accumulate.
func ProductImageKey(brandName, productName, ext string) string {
	return fmt.Sprintf("brands/%s/%s/%s.%s", Slugify(brandName), Slugify(productName), uuid.NewString(), ext)
}

func DealerLogoKey(dealerName, ext string) string {
	return fmt.Sprintf("dealerlogo/%s.%s", Slugify(dealerName), ext)
}

// TemplateImageKey places a template section image under its section with a millisecond suffix.
func TemplateImageKey(section, templateName, ext string, now time.Time) string {
	return fmt.Sprintf("quotation-templates/%s/%s-%d.%s", Slugify(section), Slugify(templateName), now.UnixMilli(), ext)
}

func OtherBrandLogoKey(name, ext string) string {
	return fmt.Sprintf("other-brands/%s/logo.%s", Slugify(name), ext)
}

func OtherProductImageKey(name, ext string) string {
	return fmt.Sprintf("other-products/%s/%s.%s", Slugify(name), uuid.NewString(), ext)
}

func CompanyLogoKey(ext string) string {
	return "company/logo." + ext
}
