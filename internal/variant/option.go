package variant

import (
	"errors"
	"strings"
)

// MaxOptions is the number of option axes a product may carry.
const MaxOptions = 3

var (
	ErrEmptyOptionValue     = errors.New("option value is empty")
	ErrDuplicateOptionValue = errors.New("option value already exists")
	ErrValueIndexOutOfRange = errors.New("option value index out of range")
)

type OptionValue struct {
	Value    string  `json:"value"`
	ImageURL *string `json:"image_url"`
}

// Option is one named axis of variation. The order of Values is the
// display order and the order combinations are generated in.
type Option struct {
	Name      string        `json:"name"`
	Values    []OptionValue `json:"values"`
	HasImages bool          `json:"has_images"`
}

// IsValid reports whether the option takes part in variant generation.
func (o Option) IsValid() bool {
	return strings.TrimSpace(o.Name) != "" && len(o.Values) > 0
}

// Labels returns the value strings in order.
func (o Option) Labels() []string {
	labels := make([]string, len(o.Values))
	for i, v := range o.Values {
		labels[i] = v.Value
	}
	return labels
}

// AddValue appends a trimmed value. Duplicates are matched on the exact
// trimmed string.
func (o *Option) AddValue(value string, imageURL *string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyOptionValue
	}
	for _, v := range o.Values {
		if v.Value == value {
			return ErrDuplicateOptionValue
		}
	}
	o.Values = append(o.Values, OptionValue{Value: value, ImageURL: imageURL})
	return nil
}

func (o *Option) RemoveValue(index int) error {
	if index < 0 || index >= len(o.Values) {
		return ErrValueIndexOutOfRange
	}
	o.Values = append(o.Values[:index], o.Values[index+1:]...)
	return nil
}

// MoveValue takes the value at from out of the list and reinserts it at to.
func (o *Option) MoveValue(from, to int) error {
	if from < 0 || from >= len(o.Values) || to < 0 || to >= len(o.Values) {
		return ErrValueIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := o.Values[from]
	values := append(o.Values[:from:from], o.Values[from+1:]...)
	values = append(values[:to], append([]OptionValue{moved}, values[to:]...)...)
	o.Values = values
	return nil
}

// ValidOptions filters out options that do not generate variants,
// keeping the original order.
func ValidOptions(options []Option) []Option {
	valid := make([]Option, 0, len(options))
	for _, o := range options {
		if o.IsValid() {
			valid = append(valid, o)
		}
	}
	return valid
}
