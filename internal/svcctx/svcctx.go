// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/Gurmittoor/hyperlinklaw/internal/config"
	"github.com/Gurmittoor/hyperlinklaw/internal/docstore"
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/resolver"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	ConfigManager *config.Manager
	Store         *docstore.Store
	Detector      *indexdetect.Detector
	Matcher       *match.Matcher
	Batch         *match.BatchMapper
	Resolver      *resolver.Resolver
	Logger        *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// StoreFrom extracts the document store from context.
func StoreFrom(ctx context.Context) *docstore.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// DetectorFrom extracts the index detector from context.
func DetectorFrom(ctx context.Context) *indexdetect.Detector {
	if s := ServicesFrom(ctx); s != nil {
		return s.Detector
	}
	return nil
}

// MatcherFrom extracts the page matcher from context.
func MatcherFrom(ctx context.Context) *match.Matcher {
	if s := ServicesFrom(ctx); s != nil {
		return s.Matcher
	}
	return nil
}

// BatchFrom extracts the batch mapper from context.
func BatchFrom(ctx context.Context) *match.BatchMapper {
	if s := ServicesFrom(ctx); s != nil {
		return s.Batch
	}
	return nil
}

// ResolverFrom extracts the LLM tie-break resolver from context.
func ResolverFrom(ctx context.Context) *resolver.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Resolver
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
