package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/backend"
	"restaurant-dashboard/models"
	"restaurant-dashboard/orders"
	"restaurant-dashboard/statemachine"
)

// Admin serves the stock, waste and order-management views.
type Admin struct {
	Client *backend.Client

	mu        sync.Mutex
	orderList []models.Order
}

func NewAdmin(client *backend.Client) *Admin {
	return &Admin{Client: client}
}

// Inventory lists the stock items.
func (h *Admin) Inventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.Client.Get(c.Request.Context(), "/api/inventory/items", &items); err != nil {
		backendFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

type adjustStockRequest struct {
	Quantity float64 `form:"quantity" binding:"required"`
	Type     string  `form:"type" binding:"required,oneof=IN OUT"`
	Remarks  string  `form:"remarks"`
}

// AdjustStock forwards a stock adjustment. The backend takes everything as
// query parameters with no body.
func (h *Admin) AdjustStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item id"})
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		validationFailed(c, err)
		return
	}

	query := url.Values{}
	query.Set("quantity", strconv.FormatFloat(req.Quantity, 'f', -1, 64))
	query.Set("type", req.Type)
	query.Set("remarks", req.Remarks)

	path := fmt.Sprintf("/api/inventory/items/%d/adjust", id)
	if err := h.Client.PostRaw(c.Request.Context(), path, query, nil); err != nil {
		backendFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "item_id": id})
}

// Waste lists the waste logs together with the menu and the summed cost.
func (h *Admin) Waste(c *gin.Context) {
	ctx := c.Request.Context()
	var menu []models.MenuItem
	if err := h.Client.Get(ctx, "/api/menu", &menu); err != nil {
		backendFailed(c, err)
		return
	}
	var logs []models.WasteLog
	if err := h.Client.Get(ctx, "/api/waste", &logs); err != nil {
		backendFailed(c, err)
		return
	}
	var totalCost float64
	for _, l := range logs {
		if l.CostLoss != nil {
			totalCost += *l.CostLoss
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"menu":       menu,
		"logs":       logs,
		"total_cost": totalCost,
	})
}

type wasteRequest struct {
	MenuItem struct {
		ID int64 `json:"id" binding:"required"`
	} `json:"menuItem" binding:"required"`
	Quantity  float64  `json:"quantity" binding:"required"`
	Reason    string   `json:"reason"`
	WasteDate string   `json:"wasteDate"`
	CostLoss  *float64 `json:"costLoss"`
}

// RecordWaste logs one wasted item and returns the saved record.
func (h *Admin) RecordWaste(c *gin.Context) {
	var req wasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}
	entry := models.WasteLog{
		MenuItem:  models.MenuItem{ID: req.MenuItem.ID},
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		WasteDate: req.WasteDate,
		CostLoss:  req.CostLoss,
	}
	var saved models.WasteLog
	if err := h.Client.Post(c.Request.Context(), "/api/waste", entry, &saved); err != nil {
		backendFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Waste recorded", "log": saved})
}

// Orders lists every order, normalized against the backend menu. The
// result is cached so a status change can be applied optimistically.
func (h *Admin) Orders(c *gin.Context) {
	ctx := c.Request.Context()
	var menu []models.MenuItem
	if err := h.Client.Get(ctx, "/api/menu", &menu); err != nil {
		backendFailed(c, err)
		return
	}
	var raw []models.RawOrder
	if err := h.Client.Get(ctx, ordersBasePath, &raw); err != nil {
		// a missing orders endpoint shows an empty list, not an error page
		log.Printf("admin: orders fetch failed, showing empty list: %v", err)
		raw = nil
	}
	list := orders.NormalizeAll(raw, menu)

	h.mu.Lock()
	h.orderList = list
	h.mu.Unlock()

	summary := map[string]int{}
	for _, o := range list {
		summary[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"count":          len(list),
		"orders":         list,
		"order_summary":  summary,
		"status_options": statemachine.StatusOptions,
	})
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus applies a status change optimistically: the cached row is
// updated at once and the backend call is fire-and-forget, issued only for
// numeric ids. A backend failure is logged, never rolled back.
func (h *Admin) UpdateStatus(c *gin.Context) {
	orderID := models.OrderID(c.Param("id"))
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}
	if !statemachine.IsKnown(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Unknown order status",
			"status_options": statemachine.StatusOptions,
		})
		return
	}

	h.mu.Lock()
	for i := range h.orderList {
		if h.orderList[i].ID == orderID {
			h.orderList[i].Status = string(req.Status)
			for j := range h.orderList[i].Items {
				h.orderList[i].Items[j].Status = string(req.Status)
			}
		}
	}
	h.mu.Unlock()

	if n, ok := orderID.Numeric(); ok {
		go func() {
			path := fmt.Sprintf("%s/%d/status", ordersBasePath, n)
			body := gin.H{"status": req.Status}
			if err := h.Client.Post(context.Background(), path, body, nil); err != nil {
				log.Printf("admin: status sync for order %d failed: %v", n, err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": orderID,
		"status":   req.Status,
	})
}
