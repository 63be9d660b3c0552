package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/media"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

var (
	shareContentType string
	shareNoCopy      bool
)

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share [file]",
	Short: "Share an image and print its key",
	Long: `Encode an image, store it locally and print the share key.

If no file is given, an interactive picker lists the images in the
current directory.

Examples:
  pixelshare share photo.png
  pixelshare share scan.bin --type image/jpeg
  pixelshare share                  # pick interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShare,
}

func init() {
	shareCmd.Flags().StringVarP(&shareContentType, "type", "t", "", "Override the detected content type")
	shareCmd.Flags().BoolVar(&shareNoCopy, "no-copy", false, "Do not copy the key to the clipboard")
}

func runShare(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		picked, err := pickImage()
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		path = picked
	}

	candidate, f, err := openCandidate(path, shareContentType)
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}
	defer f.Close()

	state := shareFlow.SelectFile(candidate)
	if state.HasError() {
		fmt.Println(ui.FormatError(state.Error))
		fmt.Println(ui.FormatMuted("Detected type: " + candidate.ContentType))
		return fmt.Errorf("%s is not an image", candidate.Name)
	}

	fmt.Println(ui.FormatInfo("Selected " + ui.StyleBold.Render(state.FileName) + " (" + state.MimeType + ")"))
	fmt.Println(ui.FormatMuted("Generating secure key..."))

	state = shareFlow.ConfirmShare(ctx)
	if state.Phase != domain.ShareShared {
		fmt.Println(ui.FormatError(state.Error))
		return fmt.Errorf("share failed")
	}

	fmt.Println()
	fmt.Println(ui.FormatSuccess("Image shared successfully!"))
	fmt.Println(ui.RenderKeyValue("Key", ui.FormatKey(state.Key.String())))

	if appConfig.CopyToClipboard && !shareNoCopy {
		if err := copyKey(state.Key); err != nil {
			appLogger.Debug().Err(err).Msg("clipboard unavailable")
			fmt.Println(ui.FormatWarning("Could not copy the key to the clipboard"))
		} else {
			fmt.Println(ui.FormatMuted("Key copied to clipboard"))
		}
	}

	fmt.Println()
	fmt.Println(ui.FormatMuted("Load it back with: pixelshare retrieve " + state.Key.String()))

	shareFlow.Reset()
	return nil
}

// pickImage lets the user choose an image from the working directory.
// An empty result means the picker was aborted.
func pickImage() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	images, err := media.ListImages(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to list images: %w", err)
	}
	if len(images) == 0 {
		fmt.Println(ui.FormatWarning("No images found in " + cwd))
		return "", nil
	}

	idx, err := fuzzyfinder.Find(
		images,
		func(i int) string { return filepath.Base(images[i]) },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			info, err := os.Stat(images[i])
			if err != nil {
				return ""
			}
			return fmt.Sprintf("Share Image\n\nFile: %s\nType: %s\nSize: %s",
				filepath.Base(images[i]),
				media.ContentTypeFor(images[i]),
				ui.FormatBytes(int(info.Size())))
		}),
	)
	if err != nil {
		// Aborted
		return "", nil
	}
	return images[idx], nil
}
