package statemachine

import "restaurant-dashboard/models"

// Transition describes one step of the dashboard order lifecycle. The
// lifecycle is informational: the admin dropdown may jump to any known
// status and the backend is the final authority.
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

var lifecycle = []Transition{
	{From: models.StatusPending, To: models.StatusPreparing},
	{From: models.StatusPlaced, To: models.StatusPreparing},
	{From: models.StatusPreparing, To: models.StatusReady},
	{From: models.StatusReady, To: models.StatusDelivered},
}

// StatusOptions are the statuses offered in the admin status dropdown, in
// display order.
var StatusOptions = []models.OrderStatus{
	models.StatusPending,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivered,
}

// IsKnown reports whether status is one the dashboard understands. "Placed"
// is assigned to freshly submitted orders but is not a selectable option.
func IsKnown(status models.OrderStatus) bool {
	if status == models.StatusPlaced {
		return true
	}
	for _, s := range StatusOptions {
		if s == status {
			return true
		}
	}
	return false
}

// NextStatuses returns the expected next states from a given state, for
// display alongside the dropdown.
func NextStatuses(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range lifecycle {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// Lifecycle returns the full transition list for the info endpoint.
func Lifecycle() []Transition {
	return lifecycle
}
