package server

import (
	"net/http"
	"time"

	"inventorytracker/internal/model"
)

const historyLimit = 50

func (s Server) historyGetAll() http.HandlerFunc {
	type historyItem struct {
		ID          string            `json:"id"`
		Action      model.Action      `json:"action"`
		Details     string            `json:"details"`
		ProductData model.ProductData `json:"productData"`
		Timestamp   string            `json:"timestamp"`
	}
	type response []historyItem
	return func(w http.ResponseWriter, r *http.Request) {
		hes, err := s.DB.HistoryFindLatest(r.Context(), historyLimit)
		if err != nil {
			s.Logger.Errorf("historyGetAll: Error finding latest HistoryEntries, err: %v", err)
			s.writeJsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := response{}
		for _, he := range hes {
			resp = append(resp, historyItem{
				ID:          he.ID.Hex(),
				Action:      he.Action,
				Details:     he.Details,
				ProductData: he.Product,
				Timestamp:   he.Timestamp.Time().UTC().Format(time.RFC3339Nano),
			})
		}
		s.writeJsonResponse(w, resp, http.StatusOK)
	}
}
