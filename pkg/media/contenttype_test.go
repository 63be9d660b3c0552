package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.png", "image/png"},
		{"PHOTO.JPG", "image/jpeg"},
		{"/tmp/a.jpeg", "image/jpeg"},
		{"anim.gif", "image/gif"},
		{"modern.webp", "image/webp"},
		{"page.html", "text/html"},
		{"noext", "application/octet-stream"},
		{"weird.zzzunknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ContentTypeFor(tt.path); got != tt.want {
				t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	if got := ExtensionFor("image/png"); got != ".png" {
		t.Errorf("expected .png, got %q", got)
	}
	if got := ExtensionFor("image/jpeg"); got != ".jpg" {
		t.Errorf("expected .jpg, got %q", got)
	}
	if got := ExtensionFor("application/x-made-up"); got != ".bin" {
		t.Errorf("expected .bin, got %q", got)
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.txt", ".hidden.png", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	images, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %v", images)
	}
}
