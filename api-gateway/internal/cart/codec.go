package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type document struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// View is the cart as returned to clients.
type View struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func (s State) View() View {
	return View{Items: s.Items(), Total: s.Total(), ItemCount: s.ItemCount()}
}

func Marshal(s State) ([]byte, error) {
	return json.Marshal(document{Items: s.Items(), Total: s.Total()})
}

// Unmarshal restores a cart. The stored total is ignored and recomputed from the items.
func Unmarshal(data []byte) (State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Empty(), fmt.Errorf("decode cart: %w", err)
	}
	return New(doc.Items...), nil
}
