package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventorytracker/internal/model"
)

// recordHistory appends one audit entry for a completed mutation. Auditing
// is best-effort: an insert failure is logged but never fails the mutation
// it describes. Callers invoke it exactly once per successful mutation and
// never on a rejected or no-op request.
func (s Server) recordHistory(ctx context.Context, action model.Action, details string, data model.ProductData) {
	he := model.HistoryEntry{
		Action:    action,
		Details:   details,
		Product:   data,
		Timestamp: primitive.NewDateTimeFromTime(s.now()),
	}
	if err := s.DB.HistoryInsert(ctx, he); err != nil {
		s.Logger.Errorf("recordHistory: Error inserting HistoryEntry, action: %s, err: %v", action, err)
	}
}

func (s Server) invalidateProductList(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.ProductListInvalidate(ctx); err != nil {
		s.Logger.Errorf("invalidateProductList: Error invalidating product list cache, err: %v", err)
	}
}
