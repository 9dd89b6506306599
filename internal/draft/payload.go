package draft

import (
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

// Payload serializes the draft into the product-creation contract. Only
// options that generate variants are sent.
func (s *State) Payload() *dto.CreateProductInput {
	in := &dto.CreateProductInput{
		VendorID:         s.VendorID,
		Title:            strings.TrimSpace(s.Basic.Title),
		SKU:              s.Basic.SKU,
		City:             strings.TrimSpace(s.Basic.City),
		ShortDescription: s.Basic.ShortDescription,
		Description:      s.Basic.Description,
		Price:            s.Basic.BasePrice,
		CompareAtPrice:   nonZero(s.Basic.CompareAtPrice),
		BrandID:          s.BrandID,
		CategoryID:       s.CategoryID,
		Attributes:       make(map[string]string, len(s.Attributes)),
		Highlights:       make([]dto.Highlight, 0, s.Highlights.Len()),
		Images:           append([]string{}, s.Images...),
		Options:          []dto.OptionInput{},
		Variants:         make([]dto.VariantInput, 0, len(s.Variants)),
	}
	for k, v := range s.Attributes {
		in.Attributes[k] = v
	}
	for _, h := range s.Highlights.Items() {
		in.Highlights = append(in.Highlights, dto.Highlight{Key: h.Key, Value: h.Value})
	}

	for i, o := range s.ValidOptions() {
		opt := dto.OptionInput{
			Name:       strings.TrimSpace(o.Name),
			Values:     make([]dto.OptionValueInput, len(o.Values)),
			Position:   i + 1,
			IsRequired: true,
		}
		for j, v := range o.Values {
			opt.Values[j] = dto.OptionValueInput{Value: v.Value}
			if o.HasImages {
				opt.Values[j].ImageURL = v.ImageURL
			}
		}
		in.Options = append(in.Options, opt)
	}

	for _, v := range s.Variants {
		in.Variants = append(in.Variants, dto.VariantInput{
			SKU:            v.SKU,
			Price:          v.Price,
			CompareAtPrice: nonZero(v.CompareAtPrice),
			Stock:          v.Stock,
			Weight:         v.Weight,
			Option1:        v.Option1,
			Option2:        v.Option2,
			Option3:        v.Option3,
			Metadata:       map[string]interface{}{},
		})
	}

	if s.School != nil {
		in.SchoolID = s.School.SchoolID
		in.WarehouseID = s.School.WarehouseID
		in.Grades = append([]string{}, s.School.Grades...)
	}
	return in
}

func nonZero(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
