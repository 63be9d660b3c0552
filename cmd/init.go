package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/pkg/ui"
	"github.com/kamal-hamza/pixelshare/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local image storage",
	Long: `Initialize the local storage used for shared images.

This creates the storage directory at ~/.local/share/pixelshare/ with:
  - shares/     : One file per shared image (file backend)
  - shares.db   : SQLite database (sqlite backend, created on first use)
  - cache/      : Retrieved images and logs
and a commented config file at ~/.config/pixelshare/config.yaml.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := vault.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine storage location"))
		return err
	}

	if v.Exists() {
		fmt.Println(ui.FormatWarning("Storage already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing pixelshare storage..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize storage"))
		return err
	}

	if err := createDefaultConfig(v); err != nil {
		// Config is optional
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Storage initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", v.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Share an image: pixelshare share photo.png"))
	fmt.Println(ui.FormatMuted("  2. Load it back:   pixelshare retrieve <key> -o copy.png"))
	fmt.Println(ui.FormatMuted("  3. Interactive UI: pixelshare app"))

	return nil
}

func createDefaultConfig(v *vault.Vault) error {
	if _, err := os.Stat(v.ConfigPath); err == nil {
		return nil
	}

	defaultConfig := `# PixelPerfect Share Configuration
# This file is optional - all settings have sensible defaults

# Storage backend: "file" or "sqlite"
# store_backend: file

# Prefix of generated share keys
# key_prefix: pixelperfect

# Cosmetic pause before a lookup, in milliseconds (0 disables it)
# retrieve_delay_ms: 500

# Copy new share keys to the clipboard
# copy_to_clipboard: true

# Open retrieved images automatically, optionally with a specific viewer
# open_after_retrieve: false
# image_viewer: ""

# Diagnostic logging
# log_level: info
# log_file: ""

# Terminal colors: auto, dark or light
# color_theme: auto

# Quiet period before 'pixelshare watch' shares a changed file, in milliseconds
# watch_debounce_ms: 300
`

	if err := os.MkdirAll(filepath.Dir(v.ConfigPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(v.ConfigPath, []byte(defaultConfig), 0644)
}
