package draft

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

type Basic struct {
	Title            string  `json:"title"`
	SKU              string  `json:"sku"`
	City             string  `json:"city"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	BasePrice        float64 `json:"base_price"`
	CompareAtPrice   float64 `json:"compare_at_price"`
}

// School scopes a product to a partner school. Grades must be picked
// before submission.
type School struct {
	SchoolID    string   `json:"school_id"`
	WarehouseID string   `json:"warehouse_id"`
	Grades      []string `json:"grades"`
}

// State is a vendor's in-progress product. It is only changed through
// Apply, and the variant list is rebuilt after every command that touches
// options or base pricing.
type State struct {
	ID         string            `json:"id"`
	VendorID   string            `json:"vendor_id"`
	Basic      Basic             `json:"basic"`
	BrandID    string            `json:"brand_id"`
	CategoryID string            `json:"category_id"`
	Attributes map[string]string `json:"attributes"`
	Highlights Highlights        `json:"highlights"`
	Images     []string          `json:"images"` // first is primary
	Options    []variant.Option  `json:"options"`
	Variants   []variant.Variant `json:"variants"`
	School     *School           `json:"school,omitempty"`
	Revision   int64             `json:"revision"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func New(id, vendorID string, now time.Time) *State {
	s := &State{
		ID:         id,
		VendorID:   vendorID,
		Attributes: map[string]string{},
		Images:     []string{},
		Options:    []variant.Option{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.regenerate()
	return s
}

// Apply runs the commands in order against a copy of the state and keeps
// the result only if every command succeeds.
func (s *State) Apply(cmds ...Command) error {
	next := s.clone()
	for _, cmd := range cmds {
		if err := cmd.apply(next); err != nil {
			return err
		}
	}
	if len(cmds) > 0 {
		next.Revision++
	}
	*s = *next
	return nil
}

// ValidOptions returns the options that currently generate variants.
func (s *State) ValidOptions() []variant.Option {
	return variant.ValidOptions(s.Options)
}

func (s *State) regenerate() {
	s.Variants = variant.Regenerate(s.ValidOptions(), variant.Base{
		Price:          s.Basic.BasePrice,
		CompareAtPrice: s.Basic.CompareAtPrice,
		SKU:            s.Basic.SKU,
	}, s.Variants)
}

func (s *State) optionAt(i int) (*variant.Option, error) {
	if i < 0 || i >= len(s.Options) {
		return nil, ErrOptionIndexOutOfRange
	}
	return &s.Options[i], nil
}

func (s *State) variantAt(i int) (*variant.Variant, error) {
	if i < 0 || i >= len(s.Variants) {
		return nil, ErrVariantIndexOutOfRange
	}
	return &s.Variants[i], nil
}

func (s *State) clone() *State {
	c := *s

	c.Attributes = make(map[string]string, len(s.Attributes))
	for k, v := range s.Attributes {
		c.Attributes[k] = v
	}
	c.Highlights = Highlights{items: s.Highlights.Items()}
	c.Images = append([]string{}, s.Images...)

	c.Options = make([]variant.Option, len(s.Options))
	for i, o := range s.Options {
		o.Values = append([]variant.OptionValue(nil), o.Values...)
		c.Options[i] = o
	}
	c.Variants = append([]variant.Variant(nil), s.Variants...)

	if s.School != nil {
		school := *s.School
		school.Grades = append([]string(nil), s.School.Grades...)
		c.School = &school
	}
	return &c
}
