package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inventorytracker/internal/diff"
	"inventorytracker/internal/misc"
	"inventorytracker/internal/model"
)

func (s Server) productAdd() http.HandlerFunc {
	type request struct {
		Name      string   `json:"name"`
		Price     *float64 `json:"price"`
		Stock     *int     `json:"stock"`
		Brand     string   `json:"brand"`
		Processor string   `json:"processor"`
		RAM       string   `json:"ram"`
		Storage   string   `json:"storage"`
		GPU       string   `json:"gpu"`
		OS        string   `json:"os"`
		Condition string   `json:"condition"`
		Warranty  string   `json:"warranty"`
	}
	type response struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("productAdd: Error decoding JSON, err: %v", err)
			s.writeJsonError(w, "Missing product details", http.StatusBadRequest)
			return
		}
		// Price and stock are pointers so a legitimate zero passes while
		// an absent field gets rejected.
		if req.Name == "" || req.Price == nil || req.Stock == nil {
			s.Logger.Debugf("productAdd: Missing required fields, name: %q", req.Name)
			s.writeJsonError(w, "Missing product details", http.StatusBadRequest)
			return
		}

		p := model.Product{
			Name:      req.Name,
			Price:     *req.Price,
			Stock:     *req.Stock,
			Brand:     req.Brand,
			Processor: req.Processor,
			RAM:       req.RAM,
			Storage:   req.Storage,
			GPU:       req.GPU,
			OS:        req.OS,
			Condition: req.Condition,
			Warranty:  req.Warranty,
		}
		productID, err := s.DB.ProductInsert(r.Context(), p)
		if err != nil {
			s.Logger.Errorf("productAdd: Error inserting Product, err: %v", err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		p.ID, err = primitive.ObjectIDFromHex(productID)
		if err != nil {
			s.Logger.Errorf("productAdd: Error creating ObjectID from hex: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.recordHistory(r.Context(), model.ActionProductAdded,
			"Added new product: "+misc.StringLimit(p.Name, 80), model.SnapshotData(p))
		s.invalidateProductList(r.Context())
		s.writeJsonResponse(w, response{Message: "Product added", ID: productID}, http.StatusCreated)
	}
}

func (s Server) productGetAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Cache != nil {
			if bs, err := s.Cache.ProductListGet(r.Context()); err != nil {
				s.Logger.Errorf("productGetAll: Error reading product list from cache, err: %v", err)
			} else if bs != nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				if _, err = w.Write(bs); err != nil {
					s.Logger.Errorf("productGetAll: Error writing cached response, err: %v", err)
				}
				return
			}
		}

		ps, err := s.DB.ProductsFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("productGetAll: Error finding all Products, err: %v", err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if ps == nil {
			ps = []model.Product{}
		}

		if s.Cache != nil {
			if bs, err := json.Marshal(ps); err == nil {
				if err = s.Cache.ProductListSet(r.Context(), bs); err != nil {
					s.Logger.Errorf("productGetAll: Error caching product list, err: %v", err)
				}
			}
		}
		s.writeJsonResponse(w, ps, http.StatusOK)
	}
}

func (s Server) productUpdate() http.HandlerFunc {
	type response struct {
		Message       string         `json:"message"`
		UpdatedFields map[string]any `json:"updatedFields,omitempty"`
		Product       *model.Product `json:"product,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		productID := mux.Vars(r)["productID"]
		incoming := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			s.Logger.Debugf("productUpdate: Error decoding JSON, err: %v", err)
			s.writeJsonError(w, "Missing product details", http.StatusBadRequest)
			return
		}

		p, err := s.DB.ProductFindOne(r.Context(), productID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("productUpdate: Product not found with ID: %s, err: %v", productID, err)
				s.writeJsonError(w, "Product not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productUpdate: Error finding Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		existing := p.CoreFields()
		updated := diff.Changed(existing, incoming, model.CoreFieldNames)
		if len(updated) == 0 {
			s.Logger.Debugf("productUpdate: No changes for Product with ID: %s", productID)
			s.writeJsonResponse(w, response{Message: "No changes detected", Product: &p}, http.StatusOK)
			return
		}

		if err = s.DB.ProductUpdate(r.Context(), productID, updated); err != nil {
			s.Logger.Errorf("productUpdate: Error updating Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		existingChanged := map[string]any{}
		for field := range updated {
			existingChanged[field] = existing[field]
		}
		s.recordHistory(r.Context(), model.ActionProductUpdated,
			"Updated product: "+misc.StringLimit(p.Name, 80),
			model.UpdateData(productID, existingChanged, updated))
		s.invalidateProductList(r.Context())
		s.writeJsonResponse(w, response{Message: "Product updated", UpdatedFields: updated}, http.StatusOK)
	}
}

func (s Server) productInfoUpdate() http.HandlerFunc {
	type response struct {
		Message       string         `json:"message"`
		UpdatedFields map[string]any `json:"updatedFields,omitempty"`
		Product       *model.Product `json:"product,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		productID := mux.Vars(r)["productID"]
		// Decoded as a plain map: unknown incoming fields are dropped by
		// the allow-list instead of rejected.
		incoming := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			s.Logger.Debugf("productInfoUpdate: Error decoding JSON, err: %v", err)
			s.writeJsonError(w, "Missing product details", http.StatusBadRequest)
			return
		}

		p, err := s.DB.ProductFindOne(r.Context(), productID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("productInfoUpdate: Product not found with ID: %s, err: %v", productID, err)
				s.writeJsonError(w, "Product not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productInfoUpdate: Error finding Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		updated := diff.Changed(p.InfoFields(), incoming, model.InfoFieldNames)
		if len(updated) == 0 {
			s.Logger.Debugf("productInfoUpdate: No changes for Product with ID: %s", productID)
			s.writeJsonResponse(w, response{Message: "No changes detected", Product: &p}, http.StatusOK)
			return
		}

		if err = s.DB.ProductUpdate(r.Context(), productID, updated); err != nil {
			s.Logger.Errorf("productInfoUpdate: Error updating Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.recordHistory(r.Context(), model.ActionProductInfoUpdated,
			"Updated product info: "+misc.StringLimit(p.Name, 80),
			model.InfoUpdateData(productID, p.Name, updated))
		s.invalidateProductList(r.Context())
		s.writeJsonResponse(w, response{Message: "Product info updated", UpdatedFields: updated}, http.StatusOK)
	}
}

func (s Server) productRemove() http.HandlerFunc {
	type response struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		productID := mux.Vars(r)["productID"]
		p, err := s.DB.ProductFindOne(r.Context(), productID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("productRemove: Product not found with ID: %s, err: %v", productID, err)
				s.writeJsonError(w, "Product not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productRemove: Error finding Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err = s.DB.ProductDelete(r.Context(), productID); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				// Raced with a concurrent delete.
				s.Logger.Debugf("productRemove: Product already deleted, ID: %s", productID)
				s.writeJsonError(w, "Product not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productRemove: Error deleting Product with ID: %s, err: %v", productID, err)
			s.writeJsonError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.recordHistory(r.Context(), model.ActionProductDeleted,
			"Deleted product: "+misc.StringLimit(p.Name, 80), model.SnapshotData(p))
		s.invalidateProductList(r.Context())
		s.writeJsonResponse(w, response{Message: "Product deleted"}, http.StatusOK)
	}
}
