package credentials

import "context"

var summaryCtxKey = &contextKey{"summary"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithSummaryContext sets the AccountSummary in the given context
func WithSummaryContext(ctx context.Context, summary *AccountSummary) context.Context {
	return context.WithValue(ctx, summaryCtxKey, summary)
}

// SummaryFromContext finds the AccountSummary from the context.
func SummaryFromContext(ctx context.Context) (*AccountSummary, bool) {
	raw, ok := ctx.Value(summaryCtxKey).(*AccountSummary)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the AuthClaims from the standard context
func ClaimsFromContext(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}
