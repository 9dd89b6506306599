package variant

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Field string

const (
	FieldStock  Field = "stock"
	FieldWeight Field = "weight"
	FieldSKU    Field = "sku"
)

var ErrUnknownField = errors.New("unknown variant field")

var hundred = decimal.NewFromInt(100)

// DeriveDiscount returns the whole-percent markdown of price against
// compareAt, or 0 when there is no compare-at price.
func DeriveDiscount(price, compareAt float64) float64 {
	if compareAt <= 0 {
		return 0
	}
	return roundHalfUp((compareAt - price) / compareAt * 100)
}

// SetPrice stores the typed price and re-derives the discount.
func SetPrice(v *Variant, raw string) {
	v.Price = ParseNumber(raw)
	v.Discount = DeriveDiscount(v.Price, v.CompareAtPrice)
}

// SetDiscount keeps the typed discount as entered and moves the price to
// match it. Without a compare-at price the price is left alone and the
// discount stays 0.
func SetDiscount(v *Variant, raw string) {
	if v.CompareAtPrice <= 0 {
		v.Discount = 0
		return
	}
	discount := ParseNumber(raw)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(hundred))
	v.Price = decimal.NewFromFloat(v.CompareAtPrice).Mul(factor).Round(2).InexactFloat64()
	v.Discount = discount
}

// SetCompareAt stores the typed compare-at price and re-derives the discount.
func SetCompareAt(v *Variant, raw string) {
	v.CompareAtPrice = ParseNumber(raw)
	v.Discount = DeriveDiscount(v.Price, v.CompareAtPrice)
}

func SetField(v *Variant, field Field, raw string) error {
	switch field {
	case FieldStock:
		stock := ParseInt(raw)
		if stock < 0 {
			stock = 0
		}
		v.Stock = stock
	case FieldWeight:
		v.Weight = ParseNumber(raw)
	case FieldSKU:
		v.SKU = strings.TrimSpace(raw)
	default:
		return ErrUnknownField
	}
	return nil
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
