package category

import (
	"encoding/json"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// AttributeKeys decodes the attribute keys a category declares. A missing
// or malformed list declares none.
func AttributeKeys(c *model.Category) []string {
	if c == nil || len(c.AttributeKeys) == 0 {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(c.AttributeKeys, &keys); err != nil {
		return nil
	}
	return keys
}
