package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/middleware"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
	"github.com/Eckho-Systems/Inventory-System/internal/service"
)

type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// ledgerFilter converts the bound query into the repository filter.
func ledgerFilter(c *gin.Context) (repository.LedgerFilter, bool) {
	var q dto.LedgerFilterQuery
	if !bindQueryAndValidate(c, &q) {
		return repository.LedgerFilter{}, false
	}

	f := repository.LedgerFilter{
		Type:   model.TransactionType(q.Type),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Start != "" {
		t, err := time.Parse(time.RFC3339, q.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, apperror.New("start must be RFC 3339"))
			return f, false
		}
		f.Start = &t
	}
	if q.End != "" {
		t, err := time.Parse(time.RFC3339, q.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, apperror.New("end must be RFC 3339"))
			return f, false
		}
		f.End = &t
	}
	if q.UserID != "" {
		id, _ := uuid.Parse(q.UserID) // format enforced by the uuid tag
		f.UserID = &id
	}
	if q.ItemID != "" {
		id, _ := uuid.Parse(q.ItemID)
		f.ItemID = &id
	}
	return f, true
}

// List GET /v1/ledger
func (h *LedgerHandler) List(c *gin.Context) {
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats GET /v1/ledger/stats
func (h *LedgerHandler) Stats(c *gin.Context) {
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Stats(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export GET /v1/ledger/export
func (h *LedgerHandler) Export(c *gin.Context) {
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	data, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	filename := "ledger-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ItemLedger GET /v1/items/:id/ledger
func (h *LedgerHandler) ItemLedger(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	filter.ItemID = &id
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UserLedger GET /v1/users/:id/ledger
func (h *LedgerHandler) UserLedger(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	filter, ok := ledgerFilter(c)
	if !ok {
		return
	}
	filter.UserID = &id
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PurgeItemHistory DELETE /v1/items/:id/ledger?keep_marker=true
func (h *LedgerHandler) PurgeItemHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	keep := c.DefaultQuery("keep_marker", "true") != "false"
	n, err := h.svc.PurgeItemHistory(c.Request.Context(), middleware.ActorFrom(c), id, keep)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PurgeResponse{Deleted: n})
}
