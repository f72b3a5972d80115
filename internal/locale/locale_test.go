package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmbeddedCatalogParses(t *testing.T) {
	c := Default()

	// Every check key referenced by envcheck must resolve
	keys := []string{
		"check.php_binary.title",
		"check.php_binary.description",
		"check.opt_entry.title",
		"check.opt_entry.description",
		"check.valet_binary.title",
		"check.valet_binary.description",
		"check.sudoers_brew.title",
		"check.sudoers_brew.description",
		"check.sudoers_valet.title",
		"check.sudoers_valet.description",
		"check.services_started.title",
		"check.services_started.description",
		"validate.success.title",
	}
	for _, key := range keys {
		assert.True(t, c.Has(key), "missing catalog key %s", key)
	}
}

func TestCatalog_Get(t *testing.T) {
	c := Default()

	assert.Equal(t, "PHP binary not found", c.Get("check.php_binary.title"))
	// Missing keys echo back
	assert.Equal(t, "no.such.key", c.Get("no.such.key"))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fr.yaml")
	content := "check.php_binary.title: \"Binaire PHP introuvable\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	// Overridden key
	assert.Equal(t, "Binaire PHP introuvable", c.Get("check.php_binary.title"))
	// Untranslated keys fall back to English
	assert.Equal(t, "Laravel Valet not found", c.Get("check.valet_binary.title"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
