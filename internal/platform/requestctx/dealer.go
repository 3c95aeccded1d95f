// Package requestctx carries authenticated request identity through context.
package requestctx

import "context"

// dealerContextKey is the context key for authenticated dealer identity.
type dealerContextKey struct{}

// Dealer is the authenticated caller identity attached to a request.
type Dealer struct {
	PTIN string
	Name string
}

// WithDealer stores a dealer identity in context.
func WithDealer(ctx context.Context, dealer Dealer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, dealerContextKey{}, dealer)
}

// DealerFromContext returns the dealer identity stored in context.
func DealerFromContext(ctx context.Context) (Dealer, bool) {
	if ctx == nil {
		return Dealer{}, false
	}
	dealer, ok := ctx.Value(dealerContextKey{}).(Dealer)
	return dealer, ok
}
