package skills

import "context"

// TurnContext carries per-turn customer identity through the context tree.
// The engine sets it once per turn; skills read it inside Execute so no skill
// singleton holds mutable per-turn state.
type TurnContext struct {
	WorkspaceID   string
	CustomerPhone string
	CustomerName  string
}

type turnKey struct{}

// WithTurn returns a child context that carries tc.
func WithTurn(ctx context.Context, tc TurnContext) context.Context {
	return context.WithValue(ctx, turnKey{}, tc)
}

// TurnCtx extracts the TurnContext from ctx.
// Returns a zero-value TurnContext if none was set.
func TurnCtx(ctx context.Context) TurnContext {
	tc, _ := ctx.Value(turnKey{}).(TurnContext)
	return tc
}
