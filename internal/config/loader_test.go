package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "default" || cfg.Agent.Model != "gpt-4o-mini" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Agent.HistoryWindow != 20 || cfg.Agent.SkillTimeout != 30 {
		t.Fatalf("agent defaults = %+v", cfg.Agent)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Workspace = "loja-teste"
	cfg.Provider.APIKey = "sk-test"
	cfg.Channels.Telegram.Enabled = true
	cfg.Channels.Telegram.Token = "123:abc"
	cfg.Leads.Backend = "postgres"
	cfg.Leads.PostgresDSN = "postgres://localhost/vendabot"

	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Workspace != "loja-teste" || loaded.Provider.APIKey != "sk-test" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if !loaded.Channels.Telegram.Enabled || loaded.Channels.Telegram.Token != "123:abc" {
		t.Fatalf("telegram = %+v", loaded.Channels.Telegram)
	}
	if loaded.Leads.Backend != "postgres" {
		t.Fatalf("leads = %+v", loaded.Leads)
	}
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "default" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"workspace":"minha-loja"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "minha-loja" {
		t.Fatalf("workspace = %q", cfg.Workspace)
	}
	if cfg.Agent.Model != "gpt-4o-mini" || cfg.Metrics.Addr != ":9464" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}
