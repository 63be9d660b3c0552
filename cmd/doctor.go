package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your pixelshare installation",
	Long: `Diagnose issues with your pixelshare setup.

Checks for:
  - Storage directory integrity
  - Configuration file existence
  - Store backend readability
  - Clipboard and image viewer availability`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("🏥 PixelPerfect Doctor"))
	fmt.Println()

	// 1. Check Storage Structure
	checkStep("Storage Directory", func() error {
		if !appVault.Exists() {
			return fmt.Errorf("not found at %s", appVault.RootPath)
		}
		return nil
	})

	checkStep("Shares Directory", func() error {
		if _, err := os.Stat(appVault.SharesPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appVault.SharesPath)
		}
		return nil
	})

	// 2. Check Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appVault.ConfigPath)
		}
		return nil
	})

	// 3. Check Store
	checkStep("Store Backend ("+appConfig.StoreBackend+")", func() error {
		return checkStoreReachable()
	})

	// 4. Check Environment
	checkStep("Clipboard", func() error {
		if _, err := clipboard.ReadAll(); err != nil {
			return fmt.Errorf("unavailable: %w", err)
		}
		return nil
	})

	if appConfig.ImageViewer != "" {
		checkStep("Image Viewer", func() error {
			if _, err := exec.LookPath(appConfig.ImageViewer); err != nil {
				return fmt.Errorf("'%s' not found in PATH", appConfig.ImageViewer)
			}
			return nil
		})
	}

	checkStep("EDITOR Variable", func() error {
		if os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})
}

// checkStoreReachable reads a key that is never issued; a healthy store answers not-found
func checkStoreReachable() error {
	_, err := shareStore.Get(getContext(), domain.ShareKey("doctor-health-check"))
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
