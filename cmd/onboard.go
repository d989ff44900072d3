package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vendabot/vendabot/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and workspace data",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	fmt.Printf("✓ Data at %s\n", dataDir)

	createSkillTemplate(dataDir)

	fmt.Printf("\n%s vendabot is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your API key to %s\n", cfgPath)
	fmt.Printf("  2. Add product knowledge: vendabot ingest https://example.com/precos\n")
	fmt.Printf("  3. Chat: vendabot chat -m \"Quanto custa o Plano Pro?\"\n")
	return nil
}

// createSkillTemplate drops an example Lua skill so operators have something
// to copy when writing their own.
func createSkillTemplate(dataDir string) {
	dir := filepath.Join(dataDir, "skills", "exemplo")
	if _, err := os.Stat(dir); err == nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	manifest := `name: exemplo
description: Skill de exemplo. Copie este diretório para criar a sua.
parameters:
  type: object
  properties:
    texto:
      type: string
      description: Texto de entrada
  required: [texto]
`
	handler := `local json_ok = '{"success": true, "message": "eco: %s"}'

function handle(args_json)
  local texto = string.match(args_json, '"texto"%s*:%s*"([^"]*)"') or ""
  return string.format(json_ok, texto)
end
`
	_ = os.WriteFile(filepath.Join(dir, "skill.yaml"), []byte(manifest), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "handler.lua"), []byte(handler), 0o644)
	fmt.Println("  Created skills/exemplo")
}
