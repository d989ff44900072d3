// Package config loads and persists the vendabot configuration.
package config

// Config is the root configuration object, persisted as JSON at ConfigPath().
type Config struct {
	Workspace string         `json:"workspace"`
	Agent     AgentConfig    `json:"agent"`
	Provider  ProviderConfig `json:"provider"`
	Payments  PaymentsConfig `json:"payments"`
	Leads     LeadsConfig    `json:"leads"`
	Channels  ChannelsConfig `json:"channels"`
	Slack     SlackConfig    `json:"slack"`
	Metrics   MetricsConfig  `json:"metrics"`
}

// AgentConfig controls the orchestration engine.
type AgentConfig struct {
	Model         string  `json:"model"`
	MaxTokens     int     `json:"maxTokens"`
	Temperature   float64 `json:"temperature"`
	HistoryWindow int     `json:"historyWindow"` // max prior turns sent to the model
	SkillTimeout  int     `json:"skillTimeoutSeconds"`
	Persona       string  `json:"persona"`   // system-prompt persona; "" uses the default
	SkillsDir     string  `json:"skillsDir"` // workspace dir with Lua custom skills
}

// ProviderConfig configures the OpenAI-compatible model endpoint.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// PaymentsConfig configures the payment-gateway client.
type PaymentsConfig struct {
	APIBase string `json:"apiBase"`
	APIKey  string `json:"apiKey"`
}

// LeadsConfig selects and configures the lead-store backend.
type LeadsConfig struct {
	Backend     string `json:"backend"` // "redis" | "postgres"
	RedisAddr   string `json:"redisAddr"`
	PostgresDSN string `json:"postgresDsn"`
}

// ChannelsConfig holds per-channel settings.
type ChannelsConfig struct {
	WhatsApp WhatsAppConfig `json:"whatsapp"`
	Telegram TelegramConfig `json:"telegram"`
}

// WhatsAppConfig configures the WebSocket bridge channel.
type WhatsAppConfig struct {
	Enabled     bool     `json:"enabled"`
	BridgeURL   string   `json:"bridgeUrl"`
	BridgeToken string   `json:"bridgeToken"`
	AllowFrom   []string `json:"allowFrom,omitempty"`
}

// TelegramConfig configures the Telegram bot channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom,omitempty"`
}

// SlackConfig configures team notifications (payment confirmations).
type SlackConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken"`
	Channel  string `json:"channel"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Workspace: "default",
		Agent: AgentConfig{
			Model:         "gpt-4o-mini",
			MaxTokens:     2048,
			Temperature:   0.7,
			HistoryWindow: 20,
			SkillTimeout:  30,
		},
		Provider: ProviderConfig{
			APIBase: "https://api.openai.com/v1",
		},
		Leads: LeadsConfig{
			Backend:   "redis",
			RedisAddr: "localhost:6379",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9464",
		},
	}
}
