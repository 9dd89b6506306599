package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxHighlights        = 10
	MaxHighlightKeyLen   = 15
	MaxHighlightValueLen = 40
)

type Highlight struct {
	Key   string
	Value string
}

// Highlights is an insertion-ordered key/value list. It encodes as a JSON
// object whose keys keep that order.
type Highlights struct {
	items []Highlight
}

func (h *Highlights) Set(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	switch {
	case key == "":
		return ErrHighlightKeyRequired
	case utf8.RuneCountInString(key) > MaxHighlightKeyLen:
		return ErrHighlightKeyTooLong
	case utf8.RuneCountInString(value) > MaxHighlightValueLen:
		return ErrHighlightValueTooLong
	}

	for i := range h.items {
		if h.items[i].Key == key {
			h.items[i].Value = value
			return nil
		}
	}
	if len(h.items) >= MaxHighlights {
		return ErrHighlightLimit
	}
	h.items = append(h.items, Highlight{Key: key, Value: value})
	return nil
}

func (h *Highlights) Remove(key string) bool {
	key = strings.TrimSpace(key)
	for i := range h.items {
		if h.items[i].Key == key {
			h.items = append(h.items[:i], h.items[i+1:]...)
			return true
		}
	}
	return false
}

func (h Highlights) Get(key string) (string, bool) {
	for _, it := range h.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return "", false
}

func (h Highlights) Len() int { return len(h.items) }

// Items returns a copy of the entries in insertion order.
func (h Highlights) Items() []Highlight {
	out := make([]Highlight, len(h.items))
	copy(out, h.items)
	return out
}

func (h Highlights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range h.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(it.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(it.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *Highlights) UnmarshalJSON(data []byte) error {
	h.items = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("highlights: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		h.items = append(h.items, Highlight{Key: key, Value: value})
	}
	_, err = dec.Token()
	return err
}
