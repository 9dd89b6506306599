package draft

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightsLimits(t *testing.T) {
	var h Highlights

	assert.ErrorIs(t, h.Set(" ", "x"), ErrHighlightKeyRequired)
	assert.ErrorIs(t, h.Set(strings.Repeat("k", 16), "x"), ErrHighlightKeyTooLong)
	assert.ErrorIs(t, h.Set("Material", strings.Repeat("v", 41)), ErrHighlightValueTooLong)

	require.NoError(t, h.Set(strings.Repeat("k", 15), strings.Repeat("v", 40)))
	require.NoError(t, h.Set("Ukuran", "Ĺąŕğę çĥàŕś ŵőŕķ"))

	for i := h.Len(); i < MaxHighlights; i++ {
		require.NoError(t, h.Set(fmt.Sprintf("key%d", i), "v"))
	}
	assert.ErrorIs(t, h.Set("one-more", "v"), ErrHighlightLimit)

	// Updating an existing key is allowed at the limit.
	require.NoError(t, h.Set("Ukuran", "XL"))
	v, ok := h.Get("Ukuran")
	assert.True(t, ok)
	assert.Equal(t, "XL", v)
}

func TestHighlightsKeepInsertionOrder(t *testing.T) {
	var h Highlights
	require.NoError(t, h.Set("Zip", "YKK"))
	require.NoError(t, h.Set("Fabric", "Denim"))
	require.NoError(t, h.Set("Care", "Cold wash"))
	require.NoError(t, h.Set("Zip", "Metal"))
	assert.True(t, h.Remove("Fabric"))
	assert.False(t, h.Remove("Fabric"))

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `{"Zip":"Metal","Care":"Cold wash"}`, string(data))

	var back Highlights
	require.NoError(t, json.Unmarshal([]byte(`{"b":"2","a":"1","c":"3"}`), &back))
	assert.Equal(t, []Highlight{{"b", "2"}, {"a", "1"}, {"c", "3"}}, back.Items())

	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	assert.Zero(t, back.Len())

	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &back))
}
