// Package skills implements the skill catalog, the dispatcher that routes
// model-requested tool calls to skill implementations, and the skills
// themselves. The catalog is built once at startup and is read-only for the
// process lifetime; it is the sole source of truth for what can execute.
package skills

import (
	"encoding/json"

	"github.com/vendabot/vendabot/internal/schema"
)

// SkillName is the canonical name of a built-in skill.
type SkillName string

const (
	SkillSearchProducts    SkillName = "search_products"
	SkillProductDetails    SkillName = "get_product_details"
	SkillListProducts      SkillName = "list_all_products"
	SkillCreatePaymentLink SkillName = "create_payment_link"
	SkillPaymentStatus     SkillName = "check_payment_status"
	SkillApplyDiscount     SkillName = "apply_discount"
	SkillObjection         SkillName = "get_objection_response"
	SkillSalesScript       SkillName = "get_sales_script"
	SkillSaveLead          SkillName = "save_lead_info"
	SkillLeadHistory       SkillName = "get_lead_history"
	SkillWhatsAppMessage   SkillName = "send_whatsapp_message"
	SkillScheduleFollowup  SkillName = "schedule_followup"
	SkillCheckAvailability SkillName = "check_availability"
	SkillCreateAppointment SkillName = "create_appointment"
)

// Catalog holds the ordered set of named skills available to the model.
type Catalog struct {
	order  []string
	skills map[string]schema.Skill
}

// NewCatalog builds a catalog from the given skills, preserving order.
// A later skill with a duplicate name replaces the earlier one.
func NewCatalog(list ...schema.Skill) *Catalog {
	c := &Catalog{skills: make(map[string]schema.Skill, len(list))}
	for _, s := range list {
		c.Add(s)
	}
	return c
}

// Add registers a skill, replacing any existing skill with the same name.
func (c *Catalog) Add(s schema.Skill) {
	if _, exists := c.skills[s.Name()]; !exists {
		c.order = append(c.order, s.Name())
	}
	c.skills[s.Name()] = s
}

// Get returns the skill with the given name, or nil.
func (c *Catalog) Get(name string) schema.Skill {
	return c.skills[name]
}

// Len returns the number of registered skills.
func (c *Catalog) Len() int { return len(c.order) }

// Descriptors returns the immutable declarations of every skill, in
// registration order. Used for introspection (CLI, admin surfaces).
func (c *Catalog) Descriptors() []schema.SkillDescriptor {
	out := make([]schema.SkillDescriptor, 0, len(c.order))
	for _, name := range c.order {
		s := c.skills[name]
		out = append(out, schema.SkillDescriptor{
			Name:        s.Name(),
			Description: s.Description(),
			Parameters:  s.Parameters(),
		})
	}
	return out
}

// Definitions returns all skills in OpenAI function-calling format.
func (c *Catalog) Definitions() []map[string]any {
	out := make([]map[string]any, 0, len(c.order))
	for _, name := range c.order {
		s := c.skills[name]
		var params any
		if err := json.Unmarshal(s.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        s.Name(),
				"description": s.Description(),
				"parameters":  params,
			},
		})
	}
	return out
}
