package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OrderStatus represents the states an order moves through on the dashboard
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPlaced    OrderStatus = "Placed"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusDelivered OrderStatus = "Delivered"
)

// OrderID is an order identifier as the backend sends it: sometimes a JSON
// number, sometimes a string. Synthetic client-side ids carry a "legacy-",
// "local-" or "cart-" prefix so they never collide with backend ids.
type OrderID string

func (id *OrderID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = OrderID(n.String())
	return nil
}

func (id OrderID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Numeric(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// Numeric returns the id as an integer when the backend assigned one.
// Synthetic ids and absent ids report false; status updates are only sent
// upstream for numeric ids.
func (id OrderID) Numeric() (int64, bool) {
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Synthetic reports whether the id was generated client-side.
func (id OrderID) Synthetic() bool {
	s := string(id)
	return strings.HasPrefix(s, "legacy-") || strings.HasPrefix(s, "local-")
}

// FlexInt decodes a JSON number or a numeric string. Some backend payloads
// quote menuItemId, so the coercion happens at decode time.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// tolerate floats like 2.0
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int64(fl)
	}
	*f = FlexInt(n)
	return nil
}

// RawOrder is an order record exactly as the backend returns it. Two shapes
// exist: a combined order carrying items[], and a legacy flat order with a
// single item's fields inlined at the top level.
type RawOrder struct {
	ID         OrderID        `json:"id"`
	OrderDate  string         `json:"orderDate"`
	Status     string         `json:"status"`
	MenuItemID *FlexInt       `json:"menuItemId"`
	Quantity   *int           `json:"quantity"`
	Price      *float64       `json:"price"`
	Items      []RawOrderItem `json:"items"`
}

type RawOrderItem struct {
	ID         OrderID  `json:"id"`
	MenuItemID *FlexInt `json:"menuItemId"`
	Quantity   int      `json:"quantity"`
	Price      *float64 `json:"price"`
	Status     string   `json:"status"`
}

// Order is the canonical shape every view renders: Items is always non-nil
// and no flat top-level item fields survive normalization.
type Order struct {
	ID        OrderID     `json:"id"`
	OrderDate string      `json:"orderDate,omitempty"`
	Status    string      `json:"status,omitempty"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	ID         OrderID   `json:"id,omitempty"`
	MenuItemID int64     `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	Price      *float64  `json:"price"`
	Status     string    `json:"status,omitempty"`
	MenuItem   *MenuItem `json:"menuItem,omitempty"`
}

// Total sums price*quantity over the order's items, skipping unpriced ones.
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		if it.Price != nil {
			sum += *it.Price * float64(it.Quantity)
		}
	}
	return sum
}

// CartEntry lives only in dashboard memory; it is destroyed on submission
// whether or not the submission succeeded.
type CartEntry struct {
	ID         string    `json:"id"`
	MenuItemID int64     `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
	Price      *float64  `json:"price"`
	MenuItem   *MenuItem `json:"menuItem,omitempty"`
}
