package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

var (
	retrieveOutput string
	retrieveOpen   bool
)

// retrieveCmd represents the retrieve command
var retrieveCmd = &cobra.Command{
	Use:     "retrieve <key>",
	Aliases: []string{"get"},
	Short:   "Load a shared image by key",
	Long: `Look up a share key and load the image stored under it.

Examples:
  pixelshare retrieve pixelperfect-1700000000000-k3j9x2a
  pixelshare retrieve <key> -o copy.png
  pixelshare retrieve <key> --open`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveOutput, "output", "o", "", "Write the image to this path")
	retrieveCmd.Flags().BoolVar(&retrieveOpen, "open", false, "Open the image after loading it")
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	fmt.Println(ui.FormatMuted("Retrieving image..."))
	state := retrieveFlow.SubmitKey(ctx, args[0])

	switch state.Phase {
	case domain.RetrieveFound:
		// handled below
	case domain.RetrieveNotFound:
		fmt.Println(ui.FormatWarning(state.Message))
		return fmt.Errorf("no image stored under %q", state.Key)
	default:
		// Blank keys leave the phase untouched and only set a message
		fmt.Println(ui.FormatError(state.Message))
		return fmt.Errorf("retrieve failed")
	}

	img := state.Image
	fmt.Println(ui.FormatSuccess("Image loaded"))
	fmt.Println(ui.RenderKeyValue("Key", ui.FormatKey(state.Key.String())))
	fmt.Println(ui.RenderKeyValue("Type", img.MimeType))
	fmt.Println(ui.RenderKeyValue("Size", ui.FormatBytes(img.Size())))

	open := retrieveOpen || appConfig.OpenAfterRetrieve
	if retrieveOutput == "" && !open {
		return nil
	}

	path, err := saveDecoded(img, state.Key, retrieveOutput)
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}
	fmt.Println(ui.RenderKeyValue("Saved", path))

	if open {
		if err := OpenFile(path, appConfig.ImageViewer); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}

	return nil
}
