package skills

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vendabot/vendabot/internal/schema"
)

type fakeSkill struct {
	name    string
	execute func(ctx context.Context, args map[string]any) (schema.SkillResult, error)
}

func (f *fakeSkill) Name() string        { return f.name }
func (f *fakeSkill) Description() string { return "test skill" }
func (f *fakeSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{}}`)
}
func (f *fakeSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	return f.execute(ctx, args)
}

func TestDispatcherContainsPanic(t *testing.T) {
	catalog := NewCatalog(&fakeSkill{
		name: "boom",
		execute: func(context.Context, map[string]any) (schema.SkillResult, error) {
			panic("kaput")
		},
	})
	d := NewDispatcher(catalog, 0, nil)

	result := d.Execute(context.Background(), "boom", map[string]any{})
	if result.Success {
		t.Fatal("panicking skill must produce a failure result")
	}
	if result.Message == "" {
		t.Fatal("failure result must carry a message")
	}
}

func TestDispatcherConvertsErrorToResult(t *testing.T) {
	catalog := NewCatalog(&fakeSkill{
		name: "flaky",
		execute: func(context.Context, map[string]any) (schema.SkillResult, error) {
			return schema.SkillResult{}, errors.New("downstream unavailable")
		},
	})
	d := NewDispatcher(catalog, 0, nil)

	result := d.Execute(context.Background(), "flaky", nil)
	if result.Success {
		t.Fatal("erroring skill must produce a failure result")
	}
	if result.Message != "downstream unavailable" {
		t.Fatalf("message = %q, want downstream error text", result.Message)
	}
}

func TestDispatcherTimeout(t *testing.T) {
	catalog := NewCatalog(&fakeSkill{
		name: "slow",
		execute: func(ctx context.Context, _ map[string]any) (schema.SkillResult, error) {
			<-ctx.Done()
			return schema.SkillResult{}, ctx.Err()
		},
	})
	d := NewDispatcher(catalog, 20*time.Millisecond, nil)

	result := d.Execute(context.Background(), "slow", nil)
	if result.Success {
		t.Fatal("timed-out skill must produce a failure result")
	}
	if result.Message != "slow timed out" {
		t.Fatalf("message = %q, want timeout text", result.Message)
	}
}

func TestDispatcherUnknownSkill(t *testing.T) {
	d := NewDispatcher(NewCatalog(), 0, nil)

	if d.Known("ghost") {
		t.Fatal("empty catalog must not know any skill")
	}
	result := d.Execute(context.Background(), "ghost", nil)
	if result.Success {
		t.Fatal("unknown skill must produce a failure result")
	}
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs(`{"amount": 99.9, "description": "Plano Pro"}`)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args["description"] != "Plano Pro" {
		t.Fatalf("description = %v", args["description"])
	}

	args, err = ParseArgs("")
	if err != nil {
		t.Fatalf("empty arguments must parse: %v", err)
	}
	if len(args) != 0 {
		t.Fatalf("empty arguments must yield empty map, got %v", args)
	}

	if _, err := ParseArgs(`{"broken":`); err == nil {
		t.Fatal("malformed JSON must fail")
	}
	if _, err := ParseArgs(`[1,2,3]`); err == nil {
		t.Fatal("non-object arguments must fail")
	}
}

func TestCatalogDefinitionsOrder(t *testing.T) {
	catalog := NewCatalog(
		&fakeSkill{name: "a", execute: nil},
		&fakeSkill{name: "b", execute: nil},
	)
	defs := catalog.Definitions()
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d", len(defs))
	}
	first := defs[0]["function"].(map[string]any)
	if first["name"] != "a" {
		t.Fatalf("definitions must preserve registration order, got %v first", first["name"])
	}
}
