package variant

import (
	"strings"
	"unicode"
)

const DefaultVariantName = "Default Variant"

// Variant is one row of the generated matrix.
type Variant struct {
	Name           string  `json:"name"`
	Option1        *string `json:"option1"`
	Option2        *string `json:"option2"`
	Option3        *string `json:"option3"`
	SKU            string  `json:"sku"`
	Price          float64 `json:"price"`
	CompareAtPrice float64 `json:"compare_at_price"`
	Discount       float64 `json:"discount"`
	Stock          int     `json:"stock"`
	Weight         float64 `json:"weight"`
}

// Base carries the product-level fields new variants start from.
type Base struct {
	Price          float64
	CompareAtPrice float64
	SKU            string
}

// Regenerate rebuilds the variant list from the valid options. A variant
// keeps its sku, prices, stock and weight when a previous variant had
// exactly the same name; any renamed value therefore starts afresh.
func Regenerate(validOptions []Option, base Base, previous []Variant) []Variant {
	if len(validOptions) == 0 {
		return []Variant{{
			Name:           DefaultVariantName,
			SKU:            base.SKU,
			Price:          base.Price,
			CompareAtPrice: base.CompareAtPrice,
		}}
	}

	byName := make(map[string]Variant, len(previous))
	for _, v := range previous {
		byName[v.Name] = v
	}

	lists := make([][]string, len(validOptions))
	for i, o := range validOptions {
		lists[i] = o.Labels()
	}

	combos := CartesianProduct(lists)
	variants := make([]Variant, 0, len(combos))
	for _, combo := range combos {
		v := Variant{Name: strings.Join(combo, " / ")}
		slots := []**string{&v.Option1, &v.Option2, &v.Option3}
		for i, label := range combo {
			if i < len(slots) {
				*slots[i] = &label
			}
		}

		if prev, ok := byName[v.Name]; ok {
			v.SKU = prev.SKU
			v.Price = prev.Price
			v.CompareAtPrice = prev.CompareAtPrice
			v.Stock = prev.Stock
			v.Weight = prev.Weight
		} else {
			v.SKU = base.SKU + "-" + skuSuffix(combo)
			v.Price = base.Price
			v.CompareAtPrice = base.CompareAtPrice
		}
		v.Discount = DeriveDiscount(v.Price, v.CompareAtPrice)
		variants = append(variants, v)
	}
	return variants
}

func skuSuffix(labels []string) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = strings.ToUpper(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, label))
	}
	return strings.Join(parts, "-")
}
