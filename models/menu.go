package models

// MenuItem as served by GET /api/menu. Price and unit are optional on the
// wire; fallback entries use negative ids so they never shadow backend ids.
type MenuItem struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Category string   `json:"category,omitempty"`
}

// InventoryItem as served by GET /api/inventory/items.
type InventoryItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	CurrentStock *float64 `json:"currentStock,omitempty"`
	MinStock     *float64 `json:"minStock,omitempty"`
}

func price(v float64) *float64 { return &v }

// DefaultMenu is unioned into the backend menu so these dishes stay
// orderable even when the backend list lacks them. Matching is by
// case-insensitive trimmed name and the backend entry always wins.
var DefaultMenu = []MenuItem{
	{ID: -1, Name: "Vegetable Salad (Light & Fresh)", Price: price(169)},
	{ID: -2, Name: "Healthy Mushroom Salad", Price: price(169)},
	{ID: -3, Name: "Healthy Paneer Salad", Price: price(199)},
	{ID: -4, Name: "Paneer Rice Meal", Price: price(225)},
	{ID: -5, Name: "Paneer Rice Meal (High Protein)", Price: price(245)},
	{ID: -6, Name: "Chicken Rice Meal (Regular)", Price: price(239)},
	{ID: -7, Name: "Chicken Rice Meal (High Protein)", Price: price(259)},
	{ID: -8, Name: "Chicken Tikka Meal", Price: price(250)},
	{ID: -9, Name: "Healthy Chicken Salad", Price: price(250)},
	{ID: -10, Name: "Healthy Boiled Egg Salad", Price: price(150)},
}
