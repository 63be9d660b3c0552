package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/media"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Share every image dropped into a directory",
	Long: `Watch a directory and share each new or changed image automatically.

Events for the same file are debounced (watch_debounce_ms) so an image
that is still being written is shared once. A summary of the generated
keys is printed when the watcher stops.

Examples:
  pixelshare watch               # current directory
  pixelshare watch ~/Screenshots`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print the summary")
}

type watchResult struct {
	file string
	key  domain.ShareKey
	err  string
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if !watchQuiet {
		fmt.Println(ui.FormatRocket("Watching for images..."))
		fmt.Println(ui.FormatMuted("Directory: " + dir))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	// Timers fire into ready; sharing happens on this goroutine only
	debounce := appConfig.WatchDebounce()
	pending := make(map[string]*time.Timer)
	ready := make(chan string, 16)
	var results []watchResult

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				printWatchSummary(results)
				return nil
			}
			if !shouldShareEvent(event) {
				continue
			}

			path := event.Name
			if t, ok := pending[path]; ok {
				t.Stop()
			}
			pending[path] = time.AfterFunc(debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			res := shareWatchedFile(ctx, path)
			results = append(results, res)
			if watchQuiet {
				continue
			}
			if res.err != "" {
				fmt.Println(ui.FormatError(res.file + ": " + res.err))
			} else {
				fmt.Println(ui.FormatSuccess(res.file + " " + ui.IconLink + " " + ui.FormatKey(res.key.String())))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				printWatchSummary(results)
				return nil
			}
			appLogger.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			for _, t := range pending {
				t.Stop()
			}
			printWatchSummary(results)
			return nil
		}
	}
}

// shouldShareEvent keeps creates and writes of visible image files
func shouldShareEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return media.IsImagePath(event.Name)
}

func shareWatchedFile(ctx context.Context, path string) watchResult {
	res := watchResult{file: filepath.Base(path)}

	candidate, f, err := openCandidate(path, "")
	if err != nil {
		res.err = err.Error()
		return res
	}
	defer f.Close()
	defer shareFlow.Reset()

	state := shareFlow.SelectFile(candidate)
	if state.HasError() {
		res.err = state.Error
		return res
	}

	state = shareFlow.ConfirmShare(ctx)
	if state.Phase != domain.ShareShared {
		res.err = state.Error
		return res
	}

	appLogger.Info().Str("file", path).Str("key", state.Key.String()).Msg("shared watched file")
	res.key = state.Key
	return res
}

func printWatchSummary(results []watchResult) {
	fmt.Println()
	if len(results) == 0 {
		fmt.Println(ui.FormatMuted("Watcher stopped, nothing shared"))
		return
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "File", Width: 30, Align: "left"},
		{Header: "Key", Width: 42, Align: "left"},
	})
	for _, r := range results {
		value := r.key.String()
		if r.err != "" {
			value = "error: " + r.err
		}
		table.AddRow(r.file, value)
	}

	fmt.Println(ui.FormatTitle("Shared Images"))
	fmt.Println(table.Render())
}
