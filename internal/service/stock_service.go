package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/events"
	"github.com/Eckho-Systems/Inventory-System/internal/metrics"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// StockService owns every quantity mutation. Each mutation pairs an item
// write with exactly one ledger append inside the unit of work, so the ledger
// stays a faithful reconstruction of every stock level.
type StockService interface {
	// CreateItemWithInitialStock creates an item, and when quantity > 0,
	// appends a bootstrap ledger entry. The ledger append is best-effort: a
	// failure after the item commit is logged and counted, never rolled back.
	CreateItemWithInitialStock(ctx context.Context, actor Actor, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	// AdjustStock applies a signed quantity change atomically with its ledger
	// entry. Negative changes exceeding the available quantity are rejected.
	AdjustStock(ctx context.Context, actor Actor, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
	// DeleteItemWithAudit removes the item row and appends an item_delete
	// marker in one atomic unit.
	DeleteItemWithAudit(ctx context.Context, actor Actor, itemID uuid.UUID) error
}

type stockService struct {
	stores repository.Stores
	bus    *events.Bus
}

func NewStockService(stores repository.Stores, bus *events.Bus) StockService {
	return &stockService{stores: stores, bus: bus}
}

func (s *stockService) CreateItemWithInitialStock(ctx context.Context, actor Actor, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if _, err := s.stores.Categories.FindByName(ctx, req.Category); err != nil {
		return nil, err
	}

	threshold := 10
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	now := time.Now().UTC()
	item := &model.Item{
		Name:              req.Name,
		Category:          req.Category,
		Quantity:          req.Quantity,
		Description:       req.Description,
		LowStockThreshold: threshold,
		DateAdded:         now,
		CreatedBy:         actor.ID,
		Active:            true,
	}
	if req.Quantity > 0 {
		item.LastStockAdded = &now
	}
	if err := s.stores.Items.Create(ctx, item); err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		notes := model.NoteInitialStock
		entry := newLedgerEntry(item, actor, req.Quantity, model.TransactionAdd, &notes)
		if err := s.stores.Ledger.Create(ctx, entry); err != nil {
			// The item exists; losing the bootstrap entry costs an audit
			// record, not stock. Surface it loudly and move on.
			metrics.LedgerWriteFailures.Inc()
			log.Error().Err(err).Str("item", item.Name).
				Msg("initial-stock ledger append failed after item commit")
		} else {
			metrics.LedgerAppends.WithLabelValues(string(model.TransactionAdd)).Inc()
		}
	}

	s.bus.Publish(events.Event{
		Type: events.EventItemCreated, ItemID: item.ID, ItemName: item.Name,
		QuantityChange: req.Quantity, Quantity: item.Quantity,
		ActorID: actor.ID, ActorName: actor.Name, ActorRole: actor.Role,
	})
	s.publishLowStockIfNeeded(item, actor)

	resp := dto.NewItemResponse(item)
	return &resp, nil
}

func (s *stockService) AdjustStock(ctx context.Context, actor Actor, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if req.QuantityChange == 0 {
		return nil, apperror.Validation("quantityChange must be non-zero")
	}

	item, err := s.stores.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	newQuantity := item.Quantity + req.QuantityChange
	if newQuantity < 0 {
		return nil, apperror.InsufficientStock(item.Name, item.Quantity, -req.QuantityChange)
	}

	txType := model.TransactionAdd
	if req.QuantityChange < 0 {
		txType = model.TransactionRemove
	}
	entry := newLedgerEntry(item, actor, req.QuantityChange, txType, req.Notes)

	err = s.stores.UnitOfWork.Do(ctx, func(tx repository.TxStores) error {
		if err := tx.Items.UpdateQuantity(ctx, itemID, newQuantity, req.QuantityChange); err != nil {
			return err
		}
		return tx.Ledger.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockAdjustments.WithLabelValues(string(txType)).Inc()
	metrics.LedgerAppends.WithLabelValues(string(txType)).Inc()

	// Re-read so the response carries the stamped timestamps.
	item, err = s.stores.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type: events.EventStockAdjusted, ItemID: item.ID, ItemName: item.Name,
		QuantityChange: req.QuantityChange, Quantity: item.Quantity,
		ActorID: actor.ID, ActorName: actor.Name, ActorRole: actor.Role,
	})
	s.publishLowStockIfNeeded(item, actor)

	return &dto.AdjustStockResponse{
		Item:        dto.NewItemResponse(item),
		Transaction: dto.NewTransactionResponse(entry),
	}, nil
}

func (s *stockService) DeleteItemWithAudit(ctx context.Context, actor Actor, itemID uuid.UUID) error {
	item, err := s.stores.Items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	notes := model.NoteItemDeleted
	// Zero quantity change: the marker records that the item left the system,
	// not a stock movement.
	marker := newLedgerEntry(item, actor, 0, model.TransactionItemDelete, &notes)

	err = s.stores.UnitOfWork.Do(ctx, func(tx repository.TxStores) error {
		if err := tx.Ledger.Create(ctx, marker); err != nil {
			return err
		}
		return tx.Items.Delete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	metrics.ItemsDeleted.Inc()
	metrics.LedgerAppends.WithLabelValues(string(model.TransactionItemDelete)).Inc()
	log.Info().Str("item", item.Name).Str("deleted_by", actor.Username).Msg("item deleted")

	s.bus.Publish(events.Event{
		Type: events.EventItemDeleted, ItemID: item.ID, ItemName: item.Name,
		Quantity: 0,
		ActorID:  actor.ID, ActorName: actor.Name, ActorRole: actor.Role,
	})
	return nil
}

func (s *stockService) publishLowStockIfNeeded(item *model.Item, actor Actor) {
	if !item.LowStock() {
		return
	}
	s.bus.Publish(events.Event{
		Type: events.EventLowStock, ItemID: item.ID, ItemName: item.Name,
		Quantity: item.Quantity,
		ActorID:  actor.ID, ActorName: actor.Name, ActorRole: actor.Role,
	})
}

// newLedgerEntry snapshots the item and actor into an entry. The id and
// timestamp are assigned here so the caller can return the entry without
// re-reading it.
func newLedgerEntry(item *model.Item, actor Actor, change int, txType model.TransactionType, notes *string) *model.Transaction {
	return &model.Transaction{
		ID:             uuid.New(),
		ItemID:         item.ID,
		ItemName:       item.Name,
		QuantityChange: change,
		UserID:         actor.ID,
		UserName:       actor.Name,
		UserRole:       actor.Role,
		Timestamp:      time.Now().UTC(),
		Type:           txType,
		Notes:          notes,
	}
}
