package models

// WasteLog as exchanged with GET/POST /api/waste. The backend keys the log
// on a nested menu item reference rather than a flat id.
type WasteLog struct {
	ID        *int64   `json:"id,omitempty"`
	MenuItem  MenuItem `json:"menuItem"`
	Quantity  float64  `json:"quantity"`
	Reason    string   `json:"reason,omitempty"`
	WasteDate string   `json:"wasteDate,omitempty"`
	CostLoss  *float64 `json:"costLoss,omitempty"`
}
