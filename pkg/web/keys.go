package web

import "context"

type principalKey struct{}

// Principal is the authenticated caller attached to a request by BearerAuth.
type Principal struct {
	Subject string
	Role    string
}

// WithPrincipal adds the authenticated caller to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom retrieves the authenticated caller from the context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
