package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_UsesXDGDirectories(t *testing.T) {
	data := t.TempDir()
	conf := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", conf)

	v, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if v.RootPath != filepath.Join(data, "pixelshare") {
		t.Errorf("unexpected RootPath: %s", v.RootPath)
	}
	if v.SharesPath != filepath.Join(data, "pixelshare", "shares") {
		t.Errorf("unexpected SharesPath: %s", v.SharesPath)
	}
	if v.ConfigPath != filepath.Join(conf, "pixelshare", "config.yaml") {
		t.Errorf("unexpected ConfigPath: %s", v.ConfigPath)
	}
}

func TestVault_InitializeAndExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v := &Vault{
		RootPath:   root,
		SharesPath: filepath.Join(root, "shares"),
		CachePath:  filepath.Join(root, "cache"),
	}

	if v.Exists() {
		t.Fatal("vault should not exist before Initialize")
	}

	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !v.Exists() {
		t.Error("vault should exist after Initialize")
	}

	for _, dir := range []string{v.SharesPath, v.CachePath} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	// Idempotent
	if err := v.Initialize(); err != nil {
		t.Errorf("second Initialize failed: %v", err)
	}
}

func TestVault_Paths(t *testing.T) {
	v := &Vault{RootPath: "/test/vault", CachePath: "/test/vault/cache"}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"database", v.DatabasePath(), "/test/vault/shares.db"},
		{"cache file", v.GetCachePath("retrieved.png"), "/test/vault/cache/retrieved.png"},
		{"log", v.LogPath(), "/test/vault/cache/pixelshare.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if filepath.ToSlash(tt.got) != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestVault_CleanCache(t *testing.T) {
	root := t.TempDir()
	v := &Vault{RootPath: root, CachePath: filepath.Join(root, "cache")}

	// Missing cache is not an error
	if n, err := v.CleanCache(); err != nil || n != 0 {
		t.Fatalf("CleanCache on missing dir = %d, %v", n, err)
	}

	if err := os.MkdirAll(v.CachePath, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.png", "b.jpg", "pixelshare.log"} {
		if err := os.WriteFile(v.GetCachePath(name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := v.CleanCache()
	if err != nil {
		t.Fatalf("CleanCache failed: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d entries, want 2", n)
	}
	if _, err := os.Stat(v.LogPath()); err != nil {
		t.Errorf("log file should survive: %v", err)
	}
	if _, err := os.Stat(v.GetCachePath("a.png")); !os.IsNotExist(err) {
		t.Errorf("a.png should be removed, stat err = %v", err)
	}
}
