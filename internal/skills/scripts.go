package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vendabot/vendabot/internal/schema"
)

// Objection answers and sales scripts are trained content in the knowledge
// store. An empty result is a valid outcome: "no trained answer, use general
// persuasion".

// ObjectionSkill retrieves the trained answer for a customer objection.
type ObjectionSkill struct {
	knowledge schema.KnowledgeSearcher
}

func NewObjectionSkill(k schema.KnowledgeSearcher) *ObjectionSkill {
	return &ObjectionSkill{knowledge: k}
}

func (s *ObjectionSkill) Name() string { return string(SkillObjection) }
func (s *ObjectionSkill) Description() string {
	return "Look up the trained response for a customer objection (too expensive, need to think, competitor is cheaper...)."
}

func (s *ObjectionSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"objection": {
				"type": "string",
				"description": "The customer's objection, in their own words"
			}
		},
		"required": ["objection"]
	}`)
}

func (s *ObjectionSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	objection, err := requireString(args, "objection")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	res, err := s.knowledge.Search(ctx, tc.WorkspaceID, objection, 3, "objection")
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("objection lookup: %w", err)
	}
	if len(res.Items) == 0 {
		return schema.SkillResult{
			Success: true,
			Message: "no trained answer for this objection; handle it with general persuasion",
		}, nil
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"responses": itemsToData(res.Items)},
		Message: fmt.Sprintf("%d trained answer(s) found", len(res.Items)),
	}, nil
}

// SalesScriptSkill retrieves a script fragment for a sales stage.
type SalesScriptSkill struct {
	knowledge schema.KnowledgeSearcher
}

func NewSalesScriptSkill(k schema.KnowledgeSearcher) *SalesScriptSkill {
	return &SalesScriptSkill{knowledge: k}
}

func (s *SalesScriptSkill) Name() string { return string(SkillSalesScript) }
func (s *SalesScriptSkill) Description() string {
	return "Get the trained sales script for a stage: greeting, qualification, pitch, closing, followup."
}

func (s *SalesScriptSkill) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"stage": {
				"type": "string",
				"enum": ["greeting", "qualification", "pitch", "closing", "followup"],
				"description": "Sales stage"
			}
		},
		"required": ["stage"]
	}`)
}

func (s *SalesScriptSkill) Execute(ctx context.Context, args map[string]any) (schema.SkillResult, error) {
	stage, err := requireString(args, "stage")
	if err != nil {
		return schema.SkillResult{}, err
	}

	tc := TurnCtx(ctx)
	res, err := s.knowledge.Search(ctx, tc.WorkspaceID, strings.ToLower(stage), 1, "script")
	if err != nil {
		return schema.SkillResult{}, fmt.Errorf("script lookup: %w", err)
	}
	if len(res.Items) == 0 {
		return schema.SkillResult{
			Success: true,
			Message: fmt.Sprintf("no trained script for stage %q", stage),
		}, nil
	}

	return schema.SkillResult{
		Success: true,
		Data:    map[string]any{"script": res.Items[0].Content, "stage": stage},
		Message: "script found for stage " + stage,
	}, nil
}
