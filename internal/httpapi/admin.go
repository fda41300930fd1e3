package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/catalog"
	"github.com/foodz/foodz-api/internal/logging"
	"github.com/foodz/foodz-api/internal/orders"
)

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req catalog.NewMenuItem
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.catalog.GetBrand(ctx, req.BrandID); err != nil {
		h.fail(w, r, err)
		return
	}

	item := req.Item()
	if err := h.catalog.CreateMenuItem(ctx, &item); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListAllMenuItems includes unavailable items. ?brand_id narrows to one
// brand.
func (h *Handler) ListAllMenuItems(w http.ResponseWriter, r *http.Request) {
	var filter catalog.MenuFilter
	if raw := r.URL.Query().Get("brand_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid brand_id")
			return
		}
		filter.BrandID = &id
	}
	items, err := h.catalog.ListMenuItems(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var patch catalog.MenuItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.catalog.GetMenuItem(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch.Apply(item)
	if err := h.catalog.UpdateMenuItem(ctx, item); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) ToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.catalog.GetMenuItem(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item.Available = !item.Available
	if err := h.catalog.UpdateMenuItem(ctx, item); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteMenuItem marks the item unavailable. Items already on an order
// cannot be deleted.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	refs, err := h.catalog.CountOrderReferences(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if refs > 0 {
		writeDetail(w, http.StatusBadRequest, "Cannot delete menu item referenced by orders")
		return
	}

	item, err := h.catalog.GetMenuItem(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	item.Available = false
	if err := h.catalog.UpdateMenuItem(ctx, item); err != nil {
		h.fail(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, "deleted (soft)")
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type statusUpdate struct {
	Status orders.Status `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req statusUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	logging.FromContext(r.Context(), h.logger).Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("status", string(req.Status)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"detail": "status updated", "status": req.Status})
}

func (h *Handler) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
