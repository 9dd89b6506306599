package draft

import (
	"errors"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

var (
	ErrDraftNotFound          = errors.New("draft not found")
	ErrDraftBusy              = errors.New("draft is locked by another request")
	ErrTooManyOptions         = errors.New("too many options")
	ErrOptionIndexOutOfRange  = errors.New("option index out of range")
	ErrVariantIndexOutOfRange = errors.New("variant index out of range")
	ErrImageIndexOutOfRange   = errors.New("image index out of range")
	ErrEmptyImageURL          = errors.New("image url is empty")
	ErrHighlightLimit         = errors.New("too many highlights")
	ErrHighlightKeyRequired   = errors.New("highlight key is empty")
	ErrHighlightKeyTooLong    = errors.New("highlight key too long")
	ErrHighlightValueTooLong  = errors.New("highlight value too long")
	ErrUnknownCommand         = errors.New("unknown command")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrUnknownAttribute       = errors.New("attribute not defined for category")
)

// Message maps a draft error to its localized message id and template
// data. ok is false for errors that have no user-facing message.
func Message(err error) (id string, data map[string]interface{}, ok bool) {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		return "DraftNotFound", nil, true
	case errors.Is(err, ErrDraftBusy):
		return "DraftBusy", nil, true
	case errors.Is(err, ErrTooManyOptions):
		return "TooManyOptions", map[string]interface{}{"Max": variant.MaxOptions}, true
	case errors.Is(err, variant.ErrEmptyOptionValue):
		return "EmptyOptionValue", nil, true
	case errors.Is(err, variant.ErrDuplicateOptionValue):
		return "DuplicateOptionValue", nil, true
	case errors.Is(err, ErrHighlightLimit):
		return "HighlightLimit", map[string]interface{}{"Max": MaxHighlights}, true
	case errors.Is(err, ErrHighlightKeyRequired):
		return "HighlightKeyRequired", nil, true
	case errors.Is(err, ErrHighlightKeyTooLong):
		return "HighlightKeyTooLong", map[string]interface{}{"Max": MaxHighlightKeyLen}, true
	case errors.Is(err, ErrHighlightValueTooLong):
		return "HighlightValueTooLong", map[string]interface{}{"Max": MaxHighlightValueLen}, true
	case errors.Is(err, ErrCategoryNotFound):
		return "CategoryNotFound", nil, true
	case errors.Is(err, ErrUnknownAttribute):
		var attrErr *AttributeError
		if errors.As(err, &attrErr) {
			return "UnknownAttribute", map[string]interface{}{"Key": attrErr.Key}, true
		}
		return "UnknownAttribute", map[string]interface{}{"Key": ""}, true
	}
	return "", nil, false
}

// AttributeError names the attribute key a category does not declare.
type AttributeError struct {
	Key string
}

func (e *AttributeError) Error() string { return ErrUnknownAttribute.Error() + ": " + e.Key }

func (e *AttributeError) Unwrap() error { return ErrUnknownAttribute }

// ValidationError is one submission-time rule violation. Code doubles as
// the message id.
type ValidationError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	codes := make([]string, len(v))
	for i, e := range v {
		codes[i] = e.Field + ": " + e.Code
	}
	return "draft is not ready for submission (" + strings.Join(codes, ", ") + ")"
}
