package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/events"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// LedgerService is the read model over the transaction ledger, plus the
// explicit history purge.
type LedgerService interface {
	List(ctx context.Context, filter repository.LedgerFilter) (*dto.LedgerListResponse, error)
	// Stats aggregates the filtered ledger for the reports screen.
	Stats(ctx context.Context, filter repository.LedgerFilter) (*dto.StatsResponse, error)
	// ExportCSV renders the filtered ledger (pagination ignored) as CSV.
	ExportCSV(ctx context.Context, filter repository.LedgerFilter) ([]byte, error)
	// PurgeItemHistory deletes an item's entries. With keepDeletionMarker set,
	// item_delete markers survive so the fact of deletion remains auditable.
	PurgeItemHistory(ctx context.Context, actor Actor, itemID uuid.UUID, keepDeletionMarker bool) (int64, error)
}

type ledgerService struct {
	ledger repository.TransactionRepository
	bus    *events.Bus
}

func NewLedgerService(ledger repository.TransactionRepository, bus *events.Bus) LedgerService {
	return &ledgerService{ledger: ledger, bus: bus}
}

func (s *ledgerService) List(ctx context.Context, filter repository.LedgerFilter) (*dto.LedgerListResponse, error) {
	entries, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerListResponse{
		Data:   dto.NewTransactionListResponse(entries),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Stats scans the full filtered range once. Both aggregates use the same
// timestamp-descending scan, so ties on the most-active counts resolve to the
// earliest-encountered (most recent) name on every backend.
func (s *ledgerService) Stats(ctx context.Context, filter repository.LedgerFilter) (*dto.StatsResponse, error) {
	entries, err := s.ledger.List(ctx, filter.WithoutPagination())
	if err != nil {
		return nil, err
	}

	stats := &dto.StatsResponse{TotalTransactions: len(entries)}
	userCounts := make(map[string]int)
	itemCounts := make(map[string]int)
	var topUser, topItem string
	for _, t := range entries {
		if t.QuantityChange > 0 {
			stats.StockAdded += t.QuantityChange
		} else {
			stats.StockRemoved += -t.QuantityChange
		}
		userCounts[t.UserName]++
		if topUser == "" || userCounts[t.UserName] > userCounts[topUser] {
			topUser = t.UserName
		}
		itemCounts[t.ItemName]++
		if topItem == "" || itemCounts[t.ItemName] > itemCounts[topItem] {
			topItem = t.ItemName
		}
	}
	stats.MostActiveUser = topUser
	stats.MostTrackedItem = topItem
	return stats, nil
}

func (s *ledgerService) ExportCSV(ctx context.Context, filter repository.LedgerFilter) ([]byte, error) {
	entries, err := s.ledger.List(ctx, filter.WithoutPagination())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"id", "timestamp", "type", "item", "quantity_change", "user", "role", "notes"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range entries {
		notes := ""
		if t.Notes != nil {
			notes = *t.Notes
		}
		rec := []string{
			t.ID.String(),
			t.Timestamp.UTC().Format(time.RFC3339),
			string(t.Type),
			t.ItemName,
			strconv.Itoa(t.QuantityChange),
			t.UserName,
			string(t.UserRole),
			notes,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ledgerService) PurgeItemHistory(ctx context.Context, actor Actor, itemID uuid.UUID, keepDeletionMarker bool) (int64, error) {
	var keep model.TransactionType
	if keepDeletionMarker {
		keep = model.TransactionItemDelete
	}
	n, err := s.ledger.PurgeByItem(ctx, itemID, keep)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Str("item_id", itemID.String()).
			Str("purged_by", actor.Username).Msg("item history purged")
		s.bus.Publish(events.Event{
			Type:          events.EventLedgerPurged,
			ItemID:        itemID,
			EntriesPurged: n,
			ActorID:       actor.ID,
			ActorName:     actor.Name,
			ActorRole:     actor.Role,
		})
	}
	return n, nil
}
