package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/media"
)

// GetPreferredEditor returns the editor command from env or default
func GetPreferredEditor() string {
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		cmd = exec.Command(viewer, path)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// Start() detaches the viewer so pixelshare can exit while it stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// openCandidate opens path as a share candidate.
// contentType overrides the type declared by the file extension.
func openCandidate(path, contentType string) (domain.FileCandidate, *os.File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return domain.FileCandidate{}, nil, err
	}

	f, err := os.Open(absPath)
	if err != nil {
		return domain.FileCandidate{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if contentType == "" {
		contentType = media.ContentTypeFor(absPath)
	}

	return domain.FileCandidate{
		Name:        filepath.Base(absPath),
		ContentType: contentType,
		Source:      f,
	}, f, nil
}

// copyKey writes key to the clipboard; failures are reported, never fatal
func copyKey(key domain.ShareKey) error {
	return clipboard.WriteAll(key.String())
}

// saveDecoded writes a retrieved image to path, or to the cache when path is empty
func saveDecoded(img *domain.DecodedImage, key domain.ShareKey, path string) (string, error) {
	if path == "" {
		if err := os.MkdirAll(appVault.CachePath, 0755); err != nil {
			return "", fmt.Errorf("failed to create cache directory: %w", err)
		}
		path = appVault.GetCachePath(key.String() + media.ExtensionFor(img.MimeType))
	}

	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}
