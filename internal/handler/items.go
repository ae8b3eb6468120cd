package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/middleware"
	"github.com/Eckho-Systems/Inventory-System/internal/permissions"
	"github.com/Eckho-Systems/Inventory-System/internal/service"
)

// ItemsHandler serves the item routes. Reads and metadata edits go to
// ItemService; everything touching a quantity goes to StockService.
type ItemsHandler struct {
	items service.ItemService
	stock service.StockService
}

func NewItemsHandler(items service.ItemService, stock service.StockService) *ItemsHandler {
	return &ItemsHandler{items: items, stock: stock}
}

// Create POST /v1/items
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.CreateItemWithInitialStock(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/items?category=&search=
func (h *ItemsHandler) List(c *gin.Context) {
	var q dto.ItemFilterQuery
	if !bindQueryAndValidate(c, &q) {
		return
	}
	resp, err := h.items.List(c.Request.Context(), q)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock GET /v1/items/low-stock
func (h *ItemsHandler) LowStock(c *gin.Context) {
	resp, err := h.items.LowStock(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Categories GET /v1/items/categories
func (h *ItemsHandler) Categories(c *gin.Context) {
	names, err := h.items.CategoriesInUse(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// Get GET /v1/items/:id
func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/items/:id
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust POST /v1/items/:id/adjust
func (h *ItemsHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := middleware.ActorFrom(c)
	needed := permissions.AddStock
	if req.QuantityChange < 0 {
		needed = permissions.RemoveStock
	}
	if !permissions.Has(actor.Role, needed) {
		c.JSON(http.StatusForbidden, apperror.New("insufficient permissions"))
		return
	}
	resp, err := h.stock.AdjustStock(c.Request.Context(), actor, id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/items/:id
func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.stock.DeleteItemWithAudit(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Deactivate POST /v1/items/:id/deactivate
func (h *ItemsHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.items.Deactivate(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
