package ui

import (
	"strings"
	"testing"
)

func TestFormatHelpers_IncludeIconAndText(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		icon   string
	}{
		{"success", FormatSuccess, IconSuccess},
		{"error", FormatError, IconError},
		{"info", FormatInfo, IconInfo},
		{"warning", FormatWarning, IconWarning},
		{"rocket", FormatRocket, IconRocket},
		{"key", FormatKey, IconKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("pixelperfect-1-abc")
			if !strings.Contains(out, tt.icon) || !strings.Contains(out, "pixelperfect-1-abc") {
				t.Errorf("output %q missing icon %q or text", out, tt.icon)
			}
		})
	}
}

func TestSetTheme_RebuildsStyles(t *testing.T) {
	defer SetTheme("auto")

	for _, theme := range []string{"light", "dark", "auto"} {
		SetTheme(theme)
		if out := FormatTitle("Shares"); !strings.Contains(out, "Shares") {
			t.Errorf("theme %s: title %q missing text", theme, out)
		}
		if out := FormatMuted("hint"); !strings.Contains(out, "hint") {
			t.Errorf("theme %s: muted %q missing text", theme, out)
		}
	}
}
