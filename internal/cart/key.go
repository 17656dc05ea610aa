package cart

import (
	"encoding/json"
	"fmt"

	"github.com/example/storefront/internal/catalog"
)

// Key derives the identity of a cart line: the same product configured the
// same way always yields the same key, regardless of the order the options
// were picked in. encoding/json emits map keys sorted, which makes the
// serialized options canonical.
func Key(productID int64, opts catalog.SelectedOptions) string {
	if len(opts) == 0 {
		return fmt.Sprintf("%d:{}", productID)
	}
	// A map[string]string cannot fail to marshal.
	data, _ := json.Marshal(opts)
	return fmt.Sprintf("%d:%s", productID, data)
}
