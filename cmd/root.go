package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/adapters/codec"
	"github.com/kamal-hamza/pixelshare/internal/adapters/keygen"
	"github.com/kamal-hamza/pixelshare/internal/adapters/preview"
	"github.com/kamal-hamza/pixelshare/internal/adapters/repository"
	"github.com/kamal-hamza/pixelshare/internal/core/services"
	"github.com/kamal-hamza/pixelshare/pkg/config"
	"github.com/kamal-hamza/pixelshare/pkg/logging"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
	"github.com/kamal-hamza/pixelshare/pkg/vault"
)

var (
	// Global vault and config
	appVault  *vault.Vault
	appConfig *config.Config
	appLogger zerolog.Logger

	// Adapters
	shareStore   repository.ShareStore
	imageCodec   *codec.DataURLCodec
	keyGenerator *keygen.Generator
	previews     *preview.Registry

	// Flows
	shareFlow      *services.ShareFlow
	retrieveFlow   *services.RetrieveFlow
	viewController *services.ViewController

	// Global flags
	verbose bool

	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pixelshare",
	Short: "PixelPerfect Share - share images by key, stored locally",
	Long: ui.StyleTitle.Render("PixelPerfect Share") + " - Instant, high-fidelity image sharing.\n\n" +
		"Pick an image, get a share key, and let anyone holding the key load it back.\n" +
		services.FooterNotice,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(appCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write diagnostic logs to stderr")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that don't touch the store
	switch cmd.Name() {
	case "init", "version", "help", "completion":
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v

	if !appVault.Exists() {
		if err := appVault.Initialize(); err != nil {
			fmt.Println(ui.FormatError("Could not create local storage"))
			return err
		}
		fmt.Println(ui.FormatInfo("Created local storage at " + appVault.RootPath))
	}

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	if err := setupLogger(); err != nil {
		return err
	}

	store, err := repository.Open(appConfig.StoreBackend, appVault)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	shareStore = store

	imageCodec = codec.NewDataURLCodec()
	keyGenerator = keygen.New(appConfig.KeyPrefix)
	previews = preview.NewRegistry()

	shareFlow = services.NewShareFlow(shareStore, imageCodec, keyGenerator, previews, appLogger)
	retrieveFlow = services.NewRetrieveFlow(shareStore, imageCodec, appConfig.RetrieveDelay(), appLogger)
	viewController = services.NewViewController(shareFlow, retrieveFlow)

	appLogger.Debug().
		Str("backend", appConfig.StoreBackend).
		Str("vault", appVault.RootPath).
		Msg("application initialized")

	return nil
}

func setupLogger() error {
	var w io.Writer
	switch {
	case appConfig.LogFile != "":
		f, err := os.OpenFile(appConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logCloser = f
		w = f
	case verbose:
		w = logging.Console(os.Stderr)
	}

	level := appConfig.LogLevel
	if verbose {
		level = "debug"
	}
	appLogger = logging.Setup(level, w)
	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if shareStore != nil {
		if err := shareStore.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("failed to close store")
		}
		shareStore = nil
	}
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
