package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

func TestFileStore_DefaultsWhenMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "brandingSettings.json"))

	b, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBranding(), b)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brandingSettings.json")
	store := NewFileStore(path)
	want := domain.Branding{LogoURL: "/logo.png", PrimaryColor: "#111111", SecondaryColor: "#222222", FontFamily: "Inter", CustomHTML: "<p>hi</p>"}

	require.NoError(t, store.Save(context.Background(), want))

	got, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestFileStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brandingSettings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logoUrl":"/x.png"}`), 0o644))

	got, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/x.png", got.LogoURL)
	assert.Equal(t, "Roboto", got.FontFamily)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brandingSettings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}
