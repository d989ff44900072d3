// Package dependency wires the vendabot services using go.uber.org/dig.
package dependency

import (
	"fmt"
	"time"

	"go.uber.org/dig"

	"github.com/vendabot/vendabot/internal/agent"
	"github.com/vendabot/vendabot/internal/bus"
	"github.com/vendabot/vendabot/internal/config"
	"github.com/vendabot/vendabot/internal/engine"
	"github.com/vendabot/vendabot/internal/followup"
	"github.com/vendabot/vendabot/internal/knowledge"
	"github.com/vendabot/vendabot/internal/leads"
	"github.com/vendabot/vendabot/internal/metrics"
	"github.com/vendabot/vendabot/internal/notify"
	"github.com/vendabot/vendabot/internal/payments"
	"github.com/vendabot/vendabot/internal/providers"
	"github.com/vendabot/vendabot/internal/schema"
	"github.com/vendabot/vendabot/internal/session"
	"github.com/vendabot/vendabot/internal/skills"
	"github.com/vendabot/vendabot/internal/store"
)

// Container holds the resolved service singletons. Callers use the typed
// getters; they never import dig directly.
type Container struct {
	db        *store.DB
	msgBus    bus.Bus
	engine    *engine.Engine
	agent     *agent.Service
	followups *followup.Service
	knowledge *knowledge.Store
	ingester  *knowledge.Ingester
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func (c *Container) DB() *store.DB                 { return c.db }
func (c *Container) Bus() bus.Bus                  { return c.msgBus }
func (c *Container) Engine() *engine.Engine        { return c.engine }
func (c *Container) Agent() *agent.Service         { return c.agent }
func (c *Container) Followups() *followup.Service  { return c.followups }
func (c *Container) Knowledge() *knowledge.Store   { return c.knowledge }
func (c *Container) Ingester() *knowledge.Ingester { return c.ingester }
func (c *Container) Metrics() *metrics.Metrics     { return c.metrics }
func (c *Container) Config() *config.Config        { return c.cfg }

// Close releases held resources.
func (c *Container) Close() {
	if c.db != nil {
		_ = c.db.Close()
	}
}

// New builds and wires all services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		newProvider,
		newDB,
		newKnowledgeStore,
		newIngester,
		newPaymentGateway,
		newLeadStore,
		newFollowupStore,
		newCalendarStore,
		newAudit,
		newMetrics,
		newMessageBus,
		newSessionManager,
		newCatalog,
		newDispatcher,
		newPromptBuilder,
		newEngine,
		newNotifier,
		newAgentService,
		newFollowupService,
	}
	for _, ctor := range constructors {
		if err := d.Provide(ctor); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		db *store.DB,
		b bus.Bus,
		eng *engine.Engine,
		agentSvc *agent.Service,
		followupSvc *followup.Service,
		ks *knowledge.Store,
		ing *knowledge.Ingester,
		m *metrics.Metrics,
	) {
		result = &Container{
			db:        db,
			msgBus:    b,
			engine:    eng,
			agent:     agentSvc,
			followups: followupSvc,
			knowledge: ks,
			ingester:  ing,
			metrics:   m,
			cfg:       cfg,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("no API key configured, edit %s", config.ConfigPath())
	}
	return providers.NewOpenAIProvider(
		cfg.Provider.APIKey,
		cfg.Provider.APIBase,
		cfg.Agent.Model,
		cfg.Provider.ExtraHeaders,
	), nil
}

func newDB() (*store.DB, error) {
	return store.Open(config.DataDir())
}

func newKnowledgeStore(db *store.DB) *knowledge.Store {
	return knowledge.NewStore(db)
}

// knowledge.Store is also the engine's KnowledgeSearcher; dig needs the
// interface binding spelled out.
func newIngester(ks *knowledge.Store) (*knowledge.Ingester, schema.KnowledgeSearcher) {
	return knowledge.NewIngester(ks), ks
}

func newPaymentGateway(cfg *config.Config) schema.PaymentGateway {
	return payments.NewClient(cfg.Payments.APIBase, cfg.Payments.APIKey)
}

func newLeadStore(cfg *config.Config) (schema.LeadStore, error) {
	return leads.Open(cfg.Leads.Backend, cfg.Leads.RedisAddr, cfg.Leads.PostgresDSN)
}

func newFollowupStore(db *store.DB) schema.FollowupStore {
	return store.NewFollowups(db)
}

func newCalendarStore(db *store.DB) schema.CalendarStore {
	return store.NewCalendar(db)
}

func newAudit(db *store.DB) *store.Audit {
	return store.NewAudit(db)
}

func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

func newMessageBus() bus.Bus {
	return bus.NewMessageBus(100)
}

func newSessionManager() (*session.Manager, error) {
	return session.NewManager(config.DataDir())
}

func newCatalog(
	ks schema.KnowledgeSearcher,
	gateway schema.PaymentGateway,
	leadStore schema.LeadStore,
	followups schema.FollowupStore,
	calendar schema.CalendarStore,
	cfg *config.Config,
) *skills.Catalog {
	return skills.BuildCatalog(skills.Collaborators{
		Knowledge: ks,
		Payments:  gateway,
		Leads:     leadStore,
		Followups: followups,
		Calendar:  calendar,
	}, cfg.Agent.SkillsDir)
}

func newDispatcher(catalog *skills.Catalog, cfg *config.Config, m *metrics.Metrics) *skills.Dispatcher {
	timeout := time.Duration(cfg.Agent.SkillTimeout) * time.Second
	return skills.NewDispatcher(catalog, timeout, m)
}

func newPromptBuilder(cfg *config.Config) *engine.PromptBuilder {
	return engine.NewPromptBuilder(cfg.Agent.Persona)
}

func newEngine(
	provider schema.LLMProvider,
	ks schema.KnowledgeSearcher,
	dispatcher *skills.Dispatcher,
	prompts *engine.PromptBuilder,
	cfg *config.Config,
	m *metrics.Metrics,
) *engine.Engine {
	return engine.New(provider, ks, dispatcher, prompts, engine.Settings{
		Model:         cfg.Agent.Model,
		MaxTokens:     cfg.Agent.MaxTokens,
		Temperature:   cfg.Agent.Temperature,
		HistoryWindow: cfg.Agent.HistoryWindow,
	}, m)
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if !cfg.Slack.Enabled {
		return notify.NopNotifier{}
	}
	return notify.NewSlackNotifier(&cfg.Slack)
}

func newAgentService(
	b bus.Bus,
	eng *engine.Engine,
	sessions *session.Manager,
	audit *store.Audit,
	notifier notify.Notifier,
	cfg *config.Config,
) *agent.Service {
	return agent.NewService(b, eng, sessions, audit, notifier, cfg.Workspace, cfg.Agent.HistoryWindow)
}

func newFollowupService(followups schema.FollowupStore, b bus.Bus) *followup.Service {
	return followup.NewService(followups, b, bus.ChannelWhatsApp)
}
