package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opt(name string, values ...string) Option {
	o := Option{Name: name}
	for _, v := range values {
		o.Values = append(o.Values, OptionValue{Value: v})
	}
	return o
}

func names(vs []Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func TestRegenerateColorBySize(t *testing.T) {
	options := []Option{opt("Color", "Red", "Blue"), opt("Size", "S", "M", "L")}
	got := Regenerate(options, Base{Price: 500, CompareAtPrice: 1000, SKU: "TSHIRT"}, nil)

	assert.Equal(t, []string{
		"Red / S", "Red / M", "Red / L",
		"Blue / S", "Blue / M", "Blue / L",
	}, names(got))

	first := got[0]
	require.NotNil(t, first.Option1)
	require.NotNil(t, first.Option2)
	assert.Equal(t, "Red", *first.Option1)
	assert.Equal(t, "S", *first.Option2)
	assert.Nil(t, first.Option3)
	assert.Equal(t, "TSHIRT-RED-S", first.SKU)
	assert.Equal(t, 500.0, first.Price)
	assert.Equal(t, 1000.0, first.CompareAtPrice)
	assert.Equal(t, 50.0, first.Discount)
	assert.Zero(t, first.Stock)
	assert.Zero(t, first.Weight)
}

func TestRegenerateWithoutValidOptions(t *testing.T) {
	options := ValidOptions([]Option{opt("  "), {Name: "Color"}})
	require.Empty(t, options)

	got := Regenerate(options, Base{Price: 250, CompareAtPrice: 300, SKU: "MUG"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, DefaultVariantName, got[0].Name)
	assert.Nil(t, got[0].Option1)
	assert.Nil(t, got[0].Option2)
	assert.Nil(t, got[0].Option3)
	assert.Equal(t, "MUG", got[0].SKU)
	assert.Equal(t, 250.0, got[0].Price)
	assert.Equal(t, 300.0, got[0].CompareAtPrice)
	assert.Zero(t, got[0].Discount)
}

func TestRegenerateSKUSuffixStripsWhitespace(t *testing.T) {
	options := []Option{opt("Color", "Sky Blue"), opt("Size", "x large")}
	got := Regenerate(options, Base{SKU: "HOODIE"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Sky Blue / x large", got[0].Name)
	assert.Equal(t, "HOODIE-SKYBLUE-XLARGE", got[0].SKU)
}

func TestRegenerateKeepsEditsForMatchingNames(t *testing.T) {
	options := []Option{opt("Color", "Red", "Blue")}
	base := Base{Price: 100, SKU: "CAP"}
	previous := Regenerate(options, base, nil)
	previous[1].SKU = "CAP-CUSTOM"
	previous[1].Stock = 7
	previous[1].Weight = 0.3
	previous[1].Price = 90

	options[0].Values = append(options[0].Values, OptionValue{Value: "Green"})
	got := Regenerate(options, base, previous)

	require.Equal(t, []string{"Red", "Blue", "Green"}, names(got))
	assert.Equal(t, "CAP-CUSTOM", got[1].SKU)
	assert.Equal(t, 7, got[1].Stock)
	assert.Equal(t, 0.3, got[1].Weight)
	assert.Equal(t, 90.0, got[1].Price)
	assert.Equal(t, "CAP-GREEN", got[2].SKU)
	assert.Equal(t, 100.0, got[2].Price)
}

func TestRegenerateAddingOptionLosesEdits(t *testing.T) {
	options := []Option{opt("Color", "Red"), opt("Size", "S")}
	base := Base{Price: 100, SKU: "TEE"}
	previous := Regenerate(options, base, nil)
	require.Equal(t, "Red / S", previous[0].Name)
	previous[0].Stock = 12

	options = append(options, opt("Material", "Cotton"))
	got := Regenerate(options, base, previous)

	require.Len(t, got, 1)
	assert.Equal(t, "Red / S / Cotton", got[0].Name)
	require.NotNil(t, got[0].Option3)
	assert.Equal(t, "Cotton", *got[0].Option3)
	assert.Zero(t, got[0].Stock)
}

func TestRegenerateIsIdempotent(t *testing.T) {
	options := []Option{opt("Color", "Red", "Blue"), opt("Size", "S", "M")}
	base := Base{Price: 800, CompareAtPrice: 1000, SKU: "DRESS"}

	first := Regenerate(options, base, nil)
	SetPrice(&first[2], "640")
	first[3].Stock = 4

	second := Regenerate(options, base, first)
	third := Regenerate(options, base, second)
	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
}

func TestRegenerateRecomputesDiscountFromCarriedPrices(t *testing.T) {
	options := []Option{opt("Size", "S")}
	previous := []Variant{{Name: "S", SKU: "X-S", Price: 75, CompareAtPrice: 100, Discount: 3}}
	got := Regenerate(options, Base{Price: 1, SKU: "X"}, previous)
	require.Len(t, got, 1)
	assert.Equal(t, 25.0, got[0].Discount)
}
