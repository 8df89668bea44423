package cart

import (
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is a menu item snapshot held in a cart, price included.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is an immutable cart. Every operation returns a new State and leaves the receiver untouched.
type State struct {
	items []Item
}

func Empty() State {
	return State{}
}

// New builds a cart from stored items. Entries without an id or with quantity below 1 are dropped
// and repeated ids are merged into the first occurrence.
func New(items ...Item) State {
	out := make([]Item, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return State{items: out}
}

func (s State) Items() []Item {
	return append([]Item{}, s.items...)
}

func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (s State) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s State) IsEmpty() bool {
	return len(s.items) == 0
}

// Quantity returns the quantity held for id, 0 when absent.
func (s State) Quantity(id string) int {
	if i := s.find(id); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// AddItem adds one unit of item. The quantity carried by the argument is ignored.
func (s State) AddItem(item Item) State {
	items := s.Items()
	if i := s.find(item.ID); i >= 0 {
		items[i].Quantity++
		return State{items: items}
	}
	item.Quantity = 1
	return State{items: append(items, item)}
}

func (s State) RemoveItem(id string) State {
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	return State{items: items}
}

// UpdateQuantity sets the quantity of id. A quantity of zero or less removes the entry;
// an id not in the cart leaves it unchanged.
func (s State) UpdateQuantity(id string, quantity int) State {
	if quantity <= 0 {
		return s.RemoveItem(id)
	}
	i := s.find(id)
	if i < 0 {
		return s
	}
	items := s.Items()
	items[i].Quantity = quantity
	return State{items: items}
}

func (s State) Clear() State {
	return Empty()
}

func (s State) find(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Action is one cart transition.
type Action interface {
	apply(State) State
}

type AddItem struct{ Item Item }

type RemoveItem struct{ ID string }

type UpdateQuantity struct {
	ID       string
	Quantity int
}

type ClearCart struct{}

func (a AddItem) apply(s State) State        { return s.AddItem(a.Item) }
func (a RemoveItem) apply(s State) State     { return s.RemoveItem(a.ID) }
func (a UpdateQuantity) apply(s State) State { return s.UpdateQuantity(a.ID, a.Quantity) }
func (ClearCart) apply(State) State          { return Empty() }

func Reduce(state State, action Action) State {
	if action == nil {
		return state
	}
	return action.apply(state)
}
