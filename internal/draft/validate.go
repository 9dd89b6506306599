package draft

import "strings"

// Validate checks the rules a draft must meet before it is submitted.
// Every violated rule is reported separately.
func (s *State) Validate() ValidationErrors {
	var errs ValidationErrors
	if s.Basic.BasePrice <= 0 {
		errs = append(errs, ValidationError{Field: "base_price", Code: "BasePriceRequired"})
	}
	required := []struct {
		field, code, value string
	}{
		{"title", "TitleRequired", s.Basic.Title},
		{"sku", "SKURequired", s.Basic.SKU},
		{"city", "CityRequired", s.Basic.City},
		{"description", "DescriptionRequired", s.Basic.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, ValidationError{Field: r.field, Code: r.code})
		}
	}
	if len(s.Images) == 0 {
		errs = append(errs, ValidationError{Field: "images", Code: "ImagesRequired"})
	}
	if s.School != nil && len(s.School.Grades) == 0 {
		errs = append(errs, ValidationError{Field: "grades", Code: "GradesRequired"})
	}
	return errs
}
