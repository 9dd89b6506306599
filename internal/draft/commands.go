package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

// Command is one user edit to a draft.
type Command interface {
	Type() string
	apply(s *State) error
}

type AddOption struct {
	Name      string `json:"name"`
	HasImages bool   `json:"has_images"`
}

func (AddOption) Type() string { return "add_option" }

func (c AddOption) apply(s *State) error {
	if len(s.Options) >= variant.MaxOptions {
		return ErrTooManyOptions
	}
	s.Options = append(s.Options, variant.Option{Name: c.Name, HasImages: c.HasImages, Values: []variant.OptionValue{}})
	s.regenerate()
	return nil
}

type UpdateOptionName struct {
	Option int    `json:"option"`
	Name   string `json:"name"`
}

func (UpdateOptionName) Type() string { return "update_option_name" }

func (c UpdateOptionName) apply(s *State) error {
	o, err := s.optionAt(c.Option)
	if err != nil {
		return err
	}
	o.Name = c.Name
	s.regenerate()
	return nil
}

type SetOptionHasImages struct {
	Option    int  `json:"option"`
	HasImages bool `json:"has_images"`
}

func (SetOptionHasImages) Type() string { return "set_option_has_images" }

func (c SetOptionHasImages) apply(s *State) error {
	o, err := s.optionAt(c.Option)
	if err != nil {
		return err
	}
	o.HasImages = c.HasImages
	return nil
}

type AddOptionValue struct {
	Option   int     `json:"option"`
	Value    string  `json:"value"`
	ImageURL *string `json:"image_url"`
}

func (AddOptionValue) Type() string { return "add_option_value" }

func (c AddOptionValue) apply(s *State) error {
	o, err := s.optionAt(c.Option)
	if err != nil {
		return err
	}
	if err := o.AddValue(c.Value, c.ImageURL); err != nil {
		return err
	}
	s.regenerate()
	return nil
}

type RemoveOptionValue struct {
	Option int `json:"option"`
	Value  int `json:"value"`
}

func (RemoveOptionValue) Type() string { return "remove_option_value" }

func (c RemoveOptionValue) apply(s *State) error {
	o, err := s.optionAt(c.Option)
	if err != nil {
		return err
	}
	if err := o.RemoveValue(c.Value); err != nil {
		return err
	}
	s.regenerate()
	return nil
}

type ReorderOptionValue struct {
	Option int `json:"option"`
	From   int `json:"from"`
	To     int `json:"to"`
}

func (ReorderOptionValue) Type() string { return "reorder_option_value" }

func (c ReorderOptionValue) apply(s *State) error {
	o, err := s.optionAt(c.Option)
	if err != nil {
		return err
	}
	if err := o.MoveValue(c.From, c.To); err != nil {
		return err
	}
	s.regenerate()
	return nil
}

type RemoveOption struct {
	Option int `json:"option"`
}

func (RemoveOption) Type() string { return "remove_option" }

func (c RemoveOption) apply(s *State) error {
	if _, err := s.optionAt(c.Option); err != nil {
		return err
	}
	s.Options = append(s.Options[:c.Option], s.Options[c.Option+1:]...)
	s.regenerate()
	return nil
}

// SetBasicInfo updates the text fields that are present.
type SetBasicInfo struct {
	Title            *string `json:"title"`
	City             *string `json:"city"`
	ShortDescription *string `json:"short_description"`
	Description      *string `json:"description"`
}

func (SetBasicInfo) Type() string { return "set_basic_info" }

func (c SetBasicInfo) apply(s *State) error {
	if c.Title != nil {
		s.Basic.Title = *c.Title
	}
	if c.City != nil {
		s.Basic.City = *c.City
	}
	if c.ShortDescription != nil {
		s.Basic.ShortDescription = *c.ShortDescription
	}
	if c.Description != nil {
		s.Basic.Description = *c.Description
	}
	return nil
}

type SetBasePrice struct {
	Price string `json:"price"`
}

func (SetBasePrice) Type() string { return "set_base_price" }

func (c SetBasePrice) apply(s *State) error {
	s.Basic.BasePrice = variant.ParseNumber(c.Price)
	s.regenerate()
	return nil
}

type SetBaseCompareAt struct {
	CompareAt string `json:"compare_at"`
}

func (SetBaseCompareAt) Type() string { return "set_base_compare_at" }

func (c SetBaseCompareAt) apply(s *State) error {
	s.Basic.CompareAtPrice = variant.ParseNumber(c.CompareAt)
	s.regenerate()
	return nil
}

type SetBaseSKU struct {
	SKU string `json:"sku"`
}

func (SetBaseSKU) Type() string { return "set_base_sku" }

func (c SetBaseSKU) apply(s *State) error {
	s.Basic.SKU = strings.TrimSpace(c.SKU)
	s.regenerate()
	return nil
}

type SetVariantPrice struct {
	Variant int    `json:"variant"`
	Price   string `json:"price"`
}

func (SetVariantPrice) Type() string { return "set_variant_price" }

func (c SetVariantPrice) apply(s *State) error {
	v, err := s.variantAt(c.Variant)
	if err != nil {
		return err
	}
	variant.SetPrice(v, c.Price)
	return nil
}

type SetVariantDiscount struct {
	Variant  int    `json:"variant"`
	Discount string `json:"discount"`
}

func (SetVariantDiscount) Type() string { return "set_variant_discount" }

func (c SetVariantDiscount) apply(s *State) error {
	v, err := s.variantAt(c.Variant)
	if err != nil {
		return err
	}
	variant.SetDiscount(v, c.Discount)
	return nil
}

type SetVariantCompareAt struct {
	Variant   int    `json:"variant"`
	CompareAt string `json:"compare_at"`
}

func (SetVariantCompareAt) Type() string { return "set_variant_compare_at" }

func (c SetVariantCompareAt) apply(s *State) error {
	v, err := s.variantAt(c.Variant)
	if err != nil {
		return err
	}
	variant.SetCompareAt(v, c.CompareAt)
	return nil
}

type SetVariantField struct {
	Variant int    `json:"variant"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

func (SetVariantField) Type() string { return "set_variant_field" }

func (c SetVariantField) apply(s *State) error {
	v, err := s.variantAt(c.Variant)
	if err != nil {
		return err
	}
	return variant.SetField(v, variant.Field(c.Field), c.Value)
}

type SetHighlight struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (SetHighlight) Type() string { return "set_highlight" }

func (c SetHighlight) apply(s *State) error {
	return s.Highlights.Set(c.Key, c.Value)
}

type RemoveHighlight struct {
	Key string `json:"key"`
}

func (RemoveHighlight) Type() string { return "remove_highlight" }

func (c RemoveHighlight) apply(s *State) error {
	s.Highlights.Remove(c.Key)
	return nil
}

type AddImage struct {
	URL string `json:"url"`
}

func (AddImage) Type() string { return "add_image" }

func (c AddImage) apply(s *State) error {
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return ErrEmptyImageURL
	}
	s.Images = append(s.Images, url)
	return nil
}

type RemoveImage struct {
	Index int `json:"index"`
}

func (RemoveImage) Type() string { return "remove_image" }

func (c RemoveImage) apply(s *State) error {
	if c.Index < 0 || c.Index >= len(s.Images) {
		return ErrImageIndexOutOfRange
	}
	s.Images = append(s.Images[:c.Index], s.Images[c.Index+1:]...)
	return nil
}

// MoveImage reorders the image list; moving to 0 makes the image primary.
type MoveImage struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (MoveImage) Type() string { return "move_image" }

func (c MoveImage) apply(s *State) error {
	n := len(s.Images)
	if c.From < 0 || c.From >= n || c.To < 0 || c.To >= n {
		return ErrImageIndexOutOfRange
	}
	img := s.Images[c.From]
	rest := append(s.Images[:c.From:c.From], s.Images[c.From+1:]...)
	s.Images = append(rest[:c.To], append([]string{img}, rest[c.To:]...)...)
	return nil
}

type SetBrand struct {
	BrandID string `json:"brand_id"`
}

func (SetBrand) Type() string { return "set_brand" }

func (c SetBrand) apply(s *State) error {
	s.BrandID = strings.TrimSpace(c.BrandID)
	return nil
}

// SetCategory selects a category. Attributes belong to a category, so
// switching category clears them.
type SetCategory struct {
	CategoryID string `json:"category_id"`
}

func (SetCategory) Type() string { return "set_category" }

func (c SetCategory) apply(s *State) error {
	id := strings.TrimSpace(c.CategoryID)
	if id != s.CategoryID {
		s.Attributes = map[string]string{}
	}
	s.CategoryID = id
	return nil
}

// SetAttribute sets a category attribute; an empty value removes it.
type SetAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (SetAttribute) Type() string { return "set_attribute" }

func (c SetAttribute) apply(s *State) error {
	key := strings.TrimSpace(c.Key)
	if key == "" {
		return nil
	}
	value := strings.TrimSpace(c.Value)
	if value == "" {
		delete(s.Attributes, key)
		return nil
	}
	s.Attributes[key] = value
	return nil
}

// SetSchoolScope makes the product school-scoped. An empty school id
// clears the scope.
type SetSchoolScope struct {
	SchoolID    string   `json:"school_id"`
	WarehouseID string   `json:"warehouse_id"`
	Grades      []string `json:"grades"`
}

func (SetSchoolScope) Type() string { return "set_school_scope" }

func (c SetSchoolScope) apply(s *State) error {
	if strings.TrimSpace(c.SchoolID) == "" {
		s.School = nil
		return nil
	}
	grades := make([]string, 0, len(c.Grades))
	for _, g := range c.Grades {
		if g = strings.TrimSpace(g); g != "" {
			grades = append(grades, g)
		}
	}
	s.School = &School{
		SchoolID:    strings.TrimSpace(c.SchoolID),
		WarehouseID: strings.TrimSpace(c.WarehouseID),
		Grades:      grades,
	}
	return nil
}

var commandTypes = map[string]func() Command{
	"add_option":             func() Command { return &AddOption{} },
	"update_option_name":     func() Command { return &UpdateOptionName{} },
	"set_option_has_images":  func() Command { return &SetOptionHasImages{} },
	"add_option_value":       func() Command { return &AddOptionValue{} },
	"remove_option_value":    func() Command { return &RemoveOptionValue{} },
	"reorder_option_value":   func() Command { return &ReorderOptionValue{} },
	"remove_option":          func() Command { return &RemoveOption{} },
	"set_basic_info":         func() Command { return &SetBasicInfo{} },
	"set_base_price":         func() Command { return &SetBasePrice{} },
	"set_base_compare_at":    func() Command { return &SetBaseCompareAt{} },
	"set_base_sku":           func() Command { return &SetBaseSKU{} },
	"set_variant_price":      func() Command { return &SetVariantPrice{} },
	"set_variant_discount":   func() Command { return &SetVariantDiscount{} },
	"set_variant_compare_at": func() Command { return &SetVariantCompareAt{} },
	"set_variant_field":      func() Command { return &SetVariantField{} },
	"set_highlight":          func() Command { return &SetHighlight{} },
	"remove_highlight":       func() Command { return &RemoveHighlight{} },
	"add_image":              func() Command { return &AddImage{} },
	"remove_image":           func() Command { return &RemoveImage{} },
	"move_image":             func() Command { return &MoveImage{} },
	"set_brand":              func() Command { return &SetBrand{} },
	"set_category":           func() Command { return &SetCategory{} },
	"set_attribute":          func() Command { return &SetAttribute{} },
	"set_school_scope":       func() Command { return &SetSchoolScope{} },
}

// DecodeCommand builds a command from its wire type and JSON arguments.
// Argument keys the command does not define are rejected.
func DecodeCommand(typ string, args json.RawMessage) (Command, error) {
	newCmd, ok := commandTypes[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, typ)
	}
	cmd := newCmd()
	if len(args) > 0 && string(args) != "null" {
		dec := json.NewDecoder(bytes.NewReader(args))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cmd); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
	}
	return cmd, nil
}
