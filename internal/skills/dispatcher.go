package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendabot/vendabot/internal/metrics"
	"github.com/vendabot/vendabot/internal/schema"
)

// Dispatcher resolves a requested skill name to its implementation and runs it
// inside the execution sandbox: any error, panic, or timeout becomes a
// SkillResult{Success:false}. Execute never panics and never returns an error.
type Dispatcher struct {
	catalog *Catalog
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewDispatcher creates a Dispatcher over the given catalog.
// timeout bounds each skill call; <= 0 disables the per-call deadline.
func NewDispatcher(catalog *Catalog, timeout time.Duration, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{catalog: catalog, timeout: timeout, metrics: m}
}

// Catalog returns the dispatcher's skill catalog.
func (d *Dispatcher) Catalog() *Catalog { return d.catalog }

// Known reports whether name is a registered skill.
func (d *Dispatcher) Known(name string) bool { return d.catalog.Get(name) != nil }

// ParseArgs parses the raw argument text a model attached to a tool call.
// The payload is untrusted; a parse failure means the call must be skipped.
func ParseArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("parse skill arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// Execute runs one skill call through the sandbox.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) schema.SkillResult {
	skill := d.catalog.Get(name)
	if skill == nil {
		// The engine filters unknown names before dispatch; this is the
		// second line of defense for direct callers.
		slog.Warn("skill not in catalog", "skill", name)
		return schema.SkillResult{Success: false, Message: fmt.Sprintf("skill %q is not available", name)}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	result := d.sandboxed(ctx, skill, args)
	elapsed := time.Since(start)

	d.metrics.ObserveSkill(name, result.Success, elapsed)
	slog.Info("skill executed",
		"skill", name,
		"success", result.Success,
		"action", string(result.Action),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return result
}

// sandboxed invokes the skill and contains every failure mode: a returned
// error, a panic, and a context deadline all come back as data. This is the
// engine's most important invariant: a partially-down downstream degrades
// the conversation instead of crashing it.
func (d *Dispatcher) sandboxed(ctx context.Context, skill schema.Skill, args map[string]any) (result schema.SkillResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("skill panicked", "skill", skill.Name(), "panic", r)
			result = schema.SkillResult{
				Success: false,
				Message: fmt.Sprintf("internal error executing %s", skill.Name()),
			}
		}
	}()

	res, err := skill.Execute(ctx, args)
	if err != nil {
		if ctx.Err() != nil {
			return schema.SkillResult{
				Success: false,
				Message: fmt.Sprintf("%s timed out", skill.Name()),
			}
		}
		return schema.SkillResult{Success: false, Message: err.Error()}
	}
	return res
}
