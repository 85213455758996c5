package namestd

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rollcall/internal/identify"
	"rollcall/internal/services"
)

var titleCaser = cases.Title(language.English)

// Passthrough is the fallback standardizer used when no service is
// configured. It title-cases and trims but resolves nothing.
type Passthrough struct{}

// Standardize echoes the input in display casing with modest confidence.
func (Passthrough) Standardize(_ context.Context, raw, _ string) (identify.StandardizedName, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return identify.StandardizedName{}, services.Wrap(services.ErrValidation, "namestd", "standardize", "name required", nil)
	}
	return identify.StandardizedName{
		Standardized: titleCaser.String(strings.ToLower(raw)),
		Confidence:   60,
		Method:       "passthrough",
	}, nil
}
