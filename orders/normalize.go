package orders

import (
	"strings"

	"github.com/google/uuid"

	"restaurant-dashboard/models"
)

// MergeMenu unions the fixed default dishes into the backend menu. Matching
// is by trimmed case-insensitive name and the backend entry takes
// precedence, so the merged list never holds two entries whose names are
// equal case-insensitively.
func MergeMenu(backendMenu []models.MenuItem) []models.MenuItem {
	merged := make([]models.MenuItem, 0, len(backendMenu)+len(models.DefaultMenu))
	seen := make(map[string]bool, len(backendMenu))
	for _, m := range backendMenu {
		key := nameKey(m.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, m)
	}
	for _, d := range models.DefaultMenu {
		if !seen[nameKey(d.Name)] {
			seen[nameKey(d.Name)] = true
			merged = append(merged, d)
		}
	}
	return merged
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindMenuItem looks an item up by numeric id.
func FindMenuItem(menu []models.MenuItem, id int64) *models.MenuItem {
	for i := range menu {
		if menu[i].ID == id {
			return &menu[i]
		}
	}
	return nil
}

// Normalize reshapes one backend order record into the canonical form: an
// id (synthesized when absent), no flat top-level item fields, and a
// non-nil items slice whose entries carry a menuItem reference where the
// menu knows the id. Running it on an already-canonical order is a no-op.
func Normalize(raw models.RawOrder, menu []models.MenuItem) models.Order {
	// combined shape: items[] already present
	if len(raw.Items) > 0 {
		items := make([]models.OrderItem, 0, len(raw.Items))
		for _, it := range raw.Items {
			item := models.OrderItem{
				ID:       it.ID,
				Quantity: it.Quantity,
				Price:    it.Price,
				Status:   it.Status,
			}
			if it.MenuItemID != nil {
				item.MenuItemID = int64(*it.MenuItemID)
				item.MenuItem = FindMenuItem(menu, item.MenuItemID)
			}
			items = append(items, item)
		}
		return models.Order{
			ID:        orFallbackID(raw.ID),
			OrderDate: raw.OrderDate,
			Status:    raw.Status,
			Items:     items,
		}
	}

	// legacy flat shape: single item inlined at the top level
	if raw.MenuItemID != nil {
		id := orFallbackID(raw.ID)
		quantity := 1
		if raw.Quantity != nil {
			quantity = *raw.Quantity
		}
		single := models.OrderItem{
			ID:         id,
			MenuItemID: int64(*raw.MenuItemID),
			Quantity:   quantity,
			Price:      raw.Price,
			Status:     raw.Status,
			MenuItem:   FindMenuItem(menu, int64(*raw.MenuItemID)),
		}
		return models.Order{
			ID:        id,
			OrderDate: raw.OrderDate,
			Status:    raw.Status,
			Items:     []models.OrderItem{single},
		}
	}

	// nothing to normalize beyond guaranteeing the items array
	return models.Order{
		ID:        raw.ID,
		OrderDate: raw.OrderDate,
		Status:    raw.Status,
		Items:     []models.OrderItem{},
	}
}

// NormalizeAll maps Normalize over a fetched order list.
func NormalizeAll(raw []models.RawOrder, menu []models.MenuItem) []models.Order {
	out := make([]models.Order, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r, menu))
	}
	return out
}

// orFallbackID keeps backend ids and mints a marked synthetic one when the
// backend omitted the id, so rows stay stably keyed within a session.
func orFallbackID(id models.OrderID) models.OrderID {
	if id != "" {
		return id
	}
	return models.OrderID("legacy-" + uuid.NewString()[:8])
}

// LocalID mints an id for a client-only pending order row.
func LocalID() models.OrderID {
	return models.OrderID("local-" + uuid.NewString()[:8])
}

// CartID mints an id for an in-memory cart entry.
func CartID() string {
	return "cart-" + uuid.NewString()[:8]
}
