package weekinfer

import (
	"context"

	"rollcall/internal/services"
)

// Static is the fallback resolver used when no service is configured. It
// trusts the week hinted by file names and content.
type Static struct{}

// ResolveWeek returns the hinted week or a not-found error when no hint
// exists.
func (Static) ResolveWeek(_ context.Context, req Request) (Week, error) {
	if req.HintedWeek < 1 {
		return Week{}, services.Wrap(services.ErrNotFound, "weekinfer", "resolve", "no week hint available", nil)
	}
	return Week{
		Number:     req.HintedWeek,
		Confidence: 70,
		Method:     "filename_hint",
	}, nil
}
