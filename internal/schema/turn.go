package schema

// SkillExecution is one entry in the turn's audit trace: which skill ran, with
// what arguments, and what came back. Skipped calls (unknown skill, malformed
// arguments) never appear here.
type SkillExecution struct {
	Skill  string         `json:"skill"`
	Args   map[string]any `json:"args"`
	Result SkillResult    `json:"result"`
}

// TurnResult is what one conversational turn produces: the user-facing reply,
// the ordered list of skills actually dispatched, the execution trace, and an
// error string set only when the first model call itself failed.
type TurnResult struct {
	Response   string           `json:"response"`
	SkillsUsed []string         `json:"skills_used"`
	Actions    []SkillExecution `json:"actions"`
	Error      string           `json:"error,omitempty"`
}

// PendingActions returns the executions that requested a side effect from the
// caller. Failed executions never carry an action.
func (t TurnResult) PendingActions() []SkillExecution {
	var pending []SkillExecution
	for _, exec := range t.Actions {
		if exec.Result.Success && exec.Result.Action != ActionNone {
			pending = append(pending, exec)
		}
	}
	return pending
}
