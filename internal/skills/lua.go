package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"

	"github.com/vendabot/vendabot/internal/schema"
)

// Custom workspace skills are Lua scripts, one directory per skill:
//
//	<skillsDir>/<name>/skill.yaml  : name, description, parameters
//	<skillsDir>/<name>/handler.lua : global handle(args_json) -> result_json
//
// handle receives the parsed arguments as a JSON string and must return a
// JSON string with {success, message, data}. A script error is contained by
// the dispatcher sandbox like any other skill failure.

type luaManifest struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
}

// LuaSkill is one scripted skill loaded from a workspace directory.
type LuaSkill struct {
	name        string
	description string
	parameters  json.RawMessage
	scriptPath  string
}

func (s *LuaSkill) Name() string                { return s.name }
func (s *LuaSkill) Description() string         { return s.description }
func (s *LuaSkill) Parameters() json.RawMessage { return s.parameters }

func (s *LuaSkill) Execute(_ context.Context, args map[string]any) (schema.SkillResult, error) {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoFile(s.scriptPath); err != nil {
		return schema.SkillResult{}, fmt.Errorf("load script: %w", err)
	}

	fn := state.GetGlobal("handle")
	if fn.Type() != lua.LTFunction {
		return schema.SkillResult{}, fmt.Errorf("script must define global function handle(args_json)")
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("marshal arguments: %w", err)
	}

	state.Push(fn)
	state.Push(lua.LString(argsJSON))
	if err := state.PCall(1, 1, nil); err != nil {
		return schema.SkillResult{}, fmt.Errorf("handle(): %w", err)
	}

	ret := state.Get(-1)
	state.Pop(1)
	if ret.Type() != lua.LTString {
		return schema.SkillResult{}, fmt.Errorf("handle() must return a JSON string, got %s", ret.Type().String())
	}

	var result schema.SkillResult
	if err := json.Unmarshal([]byte(ret.String()), &result); err != nil {
		return schema.SkillResult{}, fmt.Errorf("parse script result: %w", err)
	}
	return result, nil
}

// LoadLuaSkills scans dir for scripted skills. A missing dir yields an empty
// list; a broken skill is logged and skipped so one bad script cannot keep
// the catalog from loading.
func LoadLuaSkills(dir string) []schema.Skill {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []schema.Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skill, err := loadLuaSkill(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping custom skill", "dir", entry.Name(), "err", err)
			continue
		}
		slog.Info("custom skill loaded", "skill", skill.Name())
		out = append(out, skill)
	}
	return out
}

func loadLuaSkill(dir string) (*LuaSkill, error) {
	data, err := os.ReadFile(filepath.Join(dir, "skill.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest luaManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("manifest missing name")
	}

	scriptPath := filepath.Join(dir, "handler.lua")
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("handler.lua: %w", err)
	}

	params := json.RawMessage(`{"type":"object","properties":{}}`)
	if manifest.Parameters != nil {
		if raw, err := json.Marshal(manifest.Parameters); err == nil {
			params = raw
		}
	}

	return &LuaSkill{
		name:        manifest.Name,
		description: manifest.Description,
		parameters:  params,
		scriptPath:  scriptPath,
	}, nil
}
