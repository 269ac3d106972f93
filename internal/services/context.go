package services

import "context"

// Scope identifies the file and stage a pipeline operation belongs to.
type Scope struct {
	JobID string
	File  string
	Stage string
}

type scopeKey struct{}

// WithJob returns a context scoped to one input file. An empty id keeps any
// id already present.
func WithJob(ctx context.Context, id, file string) context.Context {
	scope := ScopeFrom(ctx)
	if id != "" {
		scope.JobID = id
	}
	if file != "" {
		scope.File = file
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// WithStage returns a context whose scope names stage. Blank stages are ignored.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	scope := ScopeFrom(ctx)
	scope.Stage = stage
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope attached to ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	scope, _ := ctx.Value(scopeKey{}).(Scope)
	return scope
}
