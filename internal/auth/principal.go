package auth

import (
	"context"

	"github.com/are3ej/heavytrade/internal/model"
)

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal carried by the context, or nil.
func PrincipalFrom(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(principalKey).(*model.Principal)
	return p
}

// ContextPrincipals resolves the acting principal from the request context,
// where the auth middleware placed it.
type ContextPrincipals struct{}

// Current implements the repository's principal source.
func (ContextPrincipals) Current(ctx context.Context) *model.Principal {
	return PrincipalFrom(ctx)
}
