package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-dashboard/backend"
	"restaurant-dashboard/models"
	"restaurant-dashboard/orders"
	"restaurant-dashboard/session"
)

const ordersBasePath = "/api/v1/orders"

// Customer serves the customer dashboard: merged menu, cart, order
// placement and order tracking. The cart and any synthetic pending rows
// live only in memory and die with the process.
type Customer struct {
	Client *backend.Client
	Store  *session.Store

	mu              sync.Mutex
	menu            []models.MenuItem
	cart            []models.CartEntry
	orderList       []models.Order
	localRows       []models.Order
	ordersAvailable *bool

	poller *orders.Poller
}

func NewCustomer(client *backend.Client, store *session.Store) *Customer {
	h := &Customer{Client: client, Store: store}
	h.poller = orders.NewPoller(orders.DefaultPollInterval, h.refresh)
	return h
}

// StartPolling begins the background order refresh, bound to ctx.
func (h *Customer) StartPolling(ctx context.Context) { h.poller.Start(ctx) }
func (h *Customer) StopPolling()                     { h.poller.Stop() }

// refresh reloads menu and orders from the backend. A 404 from the orders
// endpoint marks ordering unavailable instead of failing; a failed menu
// fetch leaves the default dishes on offer.
func (h *Customer) refresh(ctx context.Context) error {
	// purge the legacy local-order cache so stale rows never resurface
	h.Store.Delete(session.LegacyOrdersKey)

	var backendMenu []models.MenuItem
	if err := h.Client.Get(ctx, "/api/menu", &backendMenu); err != nil {
		log.Printf("customer: menu fetch failed: %v", err)
		backendMenu = nil
	}
	merged := orders.MergeMenu(backendMenu)

	var raw []models.RawOrder
	err := h.Client.Get(ctx, ordersBasePath, &raw)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.menu = merged
	switch {
	case err == nil:
		h.orderList = orders.NormalizeAll(raw, merged)
		h.ordersAvailable = boolPtr(true)
	case backend.IsNotFound(err):
		h.orderList = nil
		h.ordersAvailable = boolPtr(false)
	default:
		return err
	}
	return nil
}

// Menu returns the merged menu (backend plus default dishes).
func (h *Customer) Menu(c *gin.Context) {
	if err := h.refresh(c.Request.Context()); err != nil {
		backendFailed(c, err)
		return
	}
	h.mu.Lock()
	menu := h.menu
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"count": len(menu), "menu": menu})
}

// Orders returns the customer's normalized orders, with any synthetic
// pending rows appended.
func (h *Customer) Orders(c *gin.Context) {
	if err := h.refresh(c.Request.Context()); err != nil {
		backendFailed(c, err)
		return
	}
	h.mu.Lock()
	list := append(append([]models.Order{}, h.orderList...), h.localRows...)
	available := h.ordersAvailable
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"count":            len(list),
		"orders":           list,
		"orders_available": available,
	})
}

type addToCartRequest struct {
	MenuItemID int64    `json:"menuItemId" binding:"required"`
	Quantity   int      `json:"quantity" binding:"required,min=1"`
	Price      *float64 `json:"price"`
}

// AddToCart queues one selection; multiple entries can pile up before a
// single place-order call.
func (h *Customer) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	h.mu.Lock()
	entry := models.CartEntry{
		ID:         orders.CartID(),
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Price:      req.Price,
		MenuItem:   orders.FindMenuItem(h.menu, req.MenuItemID),
	}
	h.cart = append(h.cart, entry)
	size := len(h.cart)
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"message": "Added to cart", "entry": entry, "cart_size": size})
}

// Cart lists the queued entries and their running total.
func (h *Customer) Cart(c *gin.Context) {
	h.mu.Lock()
	cart := append([]models.CartEntry{}, h.cart...)
	h.mu.Unlock()

	var total float64
	for _, e := range cart {
		if e.Price != nil {
			total += *e.Price * float64(e.Quantity)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(cart), "cart": cart, "total": total})
}

// RemoveFromCart drops one entry by its cart id.
func (h *Customer) RemoveFromCart(c *gin.Context) {
	id := c.Param("id")
	h.mu.Lock()
	removed := false
	for i, e := range h.cart {
		if e.ID == id {
			h.cart = append(h.cart[:i], h.cart[i+1:]...)
			removed = true
			break
		}
	}
	h.mu.Unlock()
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
}

// PlaceOrders submits a snapshot of the cart. A combined multi-item POST is
// attempted first; if the backend rejects it, each item is posted
// individually and a failed item becomes a synthetic Pending row instead of
// aborting its siblings. The snapshotted entries leave the cart whether or
// not they succeeded; entries added during submission stay.
func (h *Customer) PlaceOrders(c *gin.Context) {
	h.mu.Lock()
	cart := append([]models.CartEntry{}, h.cart...)
	available := h.ordersAvailable
	h.mu.Unlock()

	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	if available != nil && !*available {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ordering is currently unavailable on the backend"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC().Format(time.RFC3339)
	username := h.Store.GetCustomerUsername()

	placed, pending := h.submitCart(ctx, cart, username, now)

	submitted := make(map[string]bool, len(cart))
	for _, e := range cart {
		submitted[e.ID] = true
	}

	h.mu.Lock()
	// drop only the snapshotted entries; anything added mid-submission stays
	var remaining []models.CartEntry
	for _, e := range h.cart {
		if !submitted[e.ID] {
			remaining = append(remaining, e)
		}
	}
	h.cart = remaining
	h.localRows = append(h.localRows, pending...)
	h.mu.Unlock()

	status := http.StatusCreated
	if len(placed) == 0 && len(pending) > 0 {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{
		"message": placementMessage(len(placed), len(pending)),
		"placed":  placed,
		"pending": pending,
	})
}

func (h *Customer) submitCart(ctx context.Context, cart []models.CartEntry, username, now string) (placed, pending []models.Order) {
	// combined attempt: one order record carrying every cart line
	items := make([]gin.H, 0, len(cart))
	for _, e := range cart {
		items = append(items, gin.H{"menuItemId": e.MenuItemID, "quantity": e.Quantity, "price": e.Price})
	}
	combined := gin.H{"items": items}
	if username != "" {
		combined["customerUsername"] = username
		combined["username"] = username
	}

	var combinedRes json.RawMessage
	if err := h.Client.Post(ctx, ordersBasePath, combined, &combinedRes); err == nil {
		if rows := ordersFromResponse(combinedRes, now); rows != nil {
			return rows, nil
		}
		return nil, nil
	} else {
		log.Printf("customer: combined order POST failed, falling back to per-item: %v", err)
	}

	// per-item fallback: each failure is contained to its own row
	for _, e := range cart {
		body := gin.H{"menuItemId": e.MenuItemID, "quantity": e.Quantity}
		if username != "" {
			body["customerUsername"] = username
			body["username"] = username
		}
		if e.Price != nil {
			body["price"] = e.Price
		}
		var saved models.RawOrder
		if err := h.Client.Post(ctx, ordersBasePath, body, &saved); err != nil {
			log.Printf("customer: item order POST failed (menuItemId=%d): %v", e.MenuItemID, err)
			pending = append(pending, localPendingRow(e, now))
			continue
		}
		placed = append(placed, models.Order{
			ID:        saved.ID,
			OrderDate: now,
			Status:    string(models.StatusPlaced),
			Items: []models.OrderItem{{
				ID:         saved.ID,
				MenuItemID: e.MenuItemID,
				Quantity:   e.Quantity,
				Price:      e.Price,
				Status:     string(models.StatusPlaced),
				MenuItem:   e.MenuItem,
			}},
		})
	}
	return placed, pending
}

// ordersFromResponse reshapes whatever a successful combined POST returned
// (a single order, an order list, or an empty body) into Placed rows.
func ordersFromResponse(raw json.RawMessage, now string) []models.Order {
	if len(raw) == 0 {
		return nil
	}
	var many []models.RawOrder
	if err := json.Unmarshal(raw, &many); err == nil {
		out := make([]models.Order, 0, len(many))
		for _, r := range many {
			o := orders.Normalize(r, nil)
			o.Status = string(models.StatusPlaced)
			if o.OrderDate == "" {
				o.OrderDate = now
			}
			out = append(out, o)
		}
		return out
	}
	var one models.RawOrder
	if err := json.Unmarshal(raw, &one); err == nil && (one.ID != "" || len(one.Items) > 0 || one.MenuItemID != nil) {
		o := orders.Normalize(one, nil)
		o.Status = string(models.StatusPlaced)
		if o.OrderDate == "" {
			o.OrderDate = now
		}
		return []models.Order{o}
	}
	return nil
}

func localPendingRow(e models.CartEntry, now string) models.Order {
	id := orders.LocalID()
	return models.Order{
		ID:        id,
		OrderDate: now,
		Status:    string(models.StatusPending),
		Items: []models.OrderItem{{
			ID:         id,
			MenuItemID: e.MenuItemID,
			Quantity:   e.Quantity,
			Price:      e.Price,
			Status:     string(models.StatusPending),
			MenuItem:   e.MenuItem,
		}},
	}
}

func placementMessage(placed, pending int) string {
	switch {
	case pending == 0:
		return "Order placed successfully"
	case placed == 0:
		return "Order could not be placed; items kept as pending"
	default:
		return "Order partially placed; failed items kept as pending"
	}
}

func boolPtr(b bool) *bool { return &b }
