package skills

import "github.com/vendabot/vendabot/internal/schema"

// Collaborators are the external services the built-in skills talk to.
type Collaborators struct {
	Knowledge schema.KnowledgeSearcher
	Payments  schema.PaymentGateway
	Leads     schema.LeadStore
	Followups schema.FollowupStore
	Calendar  schema.CalendarStore
}

// BuildCatalog assembles the full skill catalog: every built-in skill plus
// any Lua-scripted custom skills found under luaDir. Adding a built-in skill
// means adding its implementation and one line here.
func BuildCatalog(deps Collaborators, luaDir string) *Catalog {
	catalog := NewCatalog(
		NewProductSearchSkill(deps.Knowledge),
		NewProductDetailsSkill(deps.Knowledge),
		NewProductListSkill(deps.Knowledge),
		NewPaymentLinkSkill(deps.Payments),
		NewPaymentStatusSkill(deps.Payments),
		NewDiscountSkill(),
		NewObjectionSkill(deps.Knowledge),
		NewSalesScriptSkill(deps.Knowledge),
		NewLeadSaveSkill(deps.Leads),
		NewLeadHistorySkill(deps.Leads),
		NewWhatsAppMessageSkill(),
		NewFollowupSkill(deps.Followups),
		NewAvailabilitySkill(deps.Calendar),
		NewAppointmentSkill(deps.Calendar),
	)

	for _, custom := range LoadLuaSkills(luaDir) {
		catalog.Add(custom)
	}
	return catalog
}
