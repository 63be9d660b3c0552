package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove retrieved images from the cache",
	Long: `Remove images written to the cache by 'retrieve --open' and the app.

Shared images themselves are never touched; their keys keep working.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	fmt.Print(ui.StyleWarning.Render("Cleaning cache... "))

	removed, err := appVault.CleanCache()
	if err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d cached file(s) removed.", removed)))
	return nil
}
