package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyDraft(t *testing.T) *State {
	t.Helper()
	s := newDraft(t)
	title, city, desc := "Linen Shirt", "Jakarta", "Breathable shirt"
	require.NoError(t, s.Apply(
		SetBasicInfo{Title: &title, City: &city, Description: &desc},
		SetBaseSKU{SKU: "SHIRT"},
		SetBasePrice{Price: "350000"},
		AddImage{URL: "https://cdn.example.com/shirt.jpg"},
	))
	return s
}

func codes(errs ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateReadyDraft(t *testing.T) {
	assert.Empty(t, readyDraft(t).Validate())
}

func TestValidateEmptyDraft(t *testing.T) {
	errs := newDraft(t).Validate()
	assert.Equal(t, []string{
		"BasePriceRequired",
		"TitleRequired",
		"SKURequired",
		"CityRequired",
		"DescriptionRequired",
		"ImagesRequired",
	}, codes(errs))
	assert.Contains(t, errs.Error(), "images: ImagesRequired")
}

func TestValidateNegativePriceAndBlankTitle(t *testing.T) {
	s := readyDraft(t)
	blank := "   "
	require.NoError(t, s.Apply(SetBasePrice{Price: "-5"}, SetBasicInfo{Title: &blank}))
	assert.Equal(t, []string{"BasePriceRequired", "TitleRequired"}, codes(s.Validate()))
}

func TestValidateSchoolGrades(t *testing.T) {
	s := readyDraft(t)
	require.NoError(t, s.Apply(SetSchoolScope{SchoolID: "sch-1"}))
	assert.Equal(t, []string{"GradesRequired"}, codes(s.Validate()))

	require.NoError(t, s.Apply(SetSchoolScope{SchoolID: "sch-1", Grades: []string{"7"}}))
	assert.Empty(t, s.Validate())
}
