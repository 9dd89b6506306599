package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	Init()

	assert.Equal(t, "Price must be greater than zero", T("en", "BasePriceRequired", nil))
	assert.Equal(t, "Harga harus lebih dari nol", T("id-ID,id;q=0.9", "BasePriceRequired", nil))
	assert.Equal(t, "A product can have at most 3 options", T("fr", "TooManyOptions", map[string]interface{}{"Max": 3}))
	assert.Equal(t, "NoSuchMessage", T("en", "NoSuchMessage", nil))
}

func TestLoadOverridesMessages(t *testing.T) {
	Init()

	path := filepath.Join(t.TempDir(), "active.en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"CityRequired": "Pick a city"}`), 0o600))
	require.NoError(t, Load(path))

	assert.Equal(t, "Pick a city", T("en", "CityRequired", nil))
}

func TestLoadBeforeInit(t *testing.T) {
	mu.Lock()
	bundle = nil
	mu.Unlock()
	t.Cleanup(Init)

	err := Load(filepath.Join(t.TempDir(), "active.en.json"))
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, "CityRequired", T("en", "CityRequired", nil))
}

func TestLoadMissingFile(t *testing.T) {
	Init()

	err := Load(filepath.Join(t.TempDir(), "active.fr.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load messages")
}
