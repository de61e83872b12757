package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	logpkg "inventorytracker/internal/logger"
	"inventorytracker/internal/model"
)

type fakeStore struct {
	products       map[string]model.Product
	order          []string
	history        []model.HistoryEntry
	productWrites  int
	historyReadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]model.Product{}}
}

func (fs *fakeStore) ProductInsert(_ context.Context, p model.Product) (string, error) {
	p.ID = primitive.NewObjectID()
	id := p.ID.Hex()
	fs.products[id] = p
	fs.order = append(fs.order, id)
	fs.productWrites++
	return id, nil
}

func (fs *fakeStore) ProductFindOne(_ context.Context, productID string) (model.Product, error) {
	p, ok := fs.products[productID]
	if !ok {
		return model.Product{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (fs *fakeStore) ProductsFindAll(_ context.Context) ([]model.Product, error) {
	ps := make([]model.Product, 0, len(fs.order))
	for _, id := range fs.order {
		ps = append(ps, fs.products[id])
	}
	return ps, nil
}

func (fs *fakeStore) ProductUpdate(_ context.Context, productID string, fields map[string]any) error {
	p, ok := fs.products[productID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for field, v := range fields {
		switch field {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(float64)
		case "stock":
			p.Stock = int(v.(float64))
		case "brand":
			p.Brand = v.(string)
		case "processor":
			p.Processor = v.(string)
		case "ram":
			p.RAM = v.(string)
		case "storage":
			p.Storage = v.(string)
		case "gpu":
			p.GPU = v.(string)
		case "os":
			p.OS = v.(string)
		case "condition":
			p.Condition = v.(string)
		case "warranty":
			p.Warranty = v.(string)
		}
	}
	fs.products[productID] = p
	fs.productWrites++
	return nil
}

func (fs *fakeStore) ProductDelete(_ context.Context, productID string) error {
	if _, ok := fs.products[productID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(fs.products, productID)
	for i, id := range fs.order {
		if id == productID {
			fs.order = append(fs.order[:i], fs.order[i+1:]...)
			break
		}
	}
	fs.productWrites++
	return nil
}

func (fs *fakeStore) HistoryInsert(_ context.Context, he model.HistoryEntry) error {
	he.ID = primitive.NewObjectID()
	fs.history = append(fs.history, he)
	return nil
}

func (fs *fakeStore) HistoryFindLatest(_ context.Context, limit int64) ([]model.HistoryEntry, error) {
	if fs.historyReadErr != nil {
		return nil, fs.historyReadErr
	}
	hes := make([]model.HistoryEntry, len(fs.history))
	copy(hes, fs.history)
	sort.Slice(hes, func(i, j int) bool { return hes[i].Timestamp > hes[j].Timestamp })
	if int64(len(hes)) > limit {
		hes = hes[:limit]
	}
	return hes, nil
}

type stepClock struct {
	t time.Time
}

// now advances one second per call so every audit entry gets a distinct,
// strictly increasing timestamp.
func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestServer(fs *fakeStore) Server {
	clk := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return Server{
		DB:     fs,
		Logger: logpkg.NewLogger(logpkg.LevelOff, io.Discard),
		Now:    clk.now,
	}
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func addProduct(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doRequest(h, http.MethodPost, "/api/add/items",
		`{"name":"Laptop X","price":999,"stock":5,"brand":"Acme","os":"Linux"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestProductAddAndView(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()

	id := addProduct(t, h)

	p := fs.products[id]
	assert.Equal(t, "Laptop X", p.Name)
	assert.Equal(t, 999.0, p.Price)
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "Acme", p.Brand)
	assert.Equal(t, "Linux", p.OS)

	require.Len(t, fs.history, 1)
	he := fs.history[0]
	assert.Equal(t, model.ActionProductAdded, he.Action)
	assert.Equal(t, "Added new product: Laptop X", he.Details)
	require.NotNil(t, he.Product.Snapshot)
	assert.Equal(t, "Laptop X", he.Product.Snapshot.Name)

	rec := doRequest(h, http.MethodGet, "/api/view/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0]["id"])
	assert.Equal(t, "Acme", items[0]["brand"])
}

func TestProductAddMissingDetails(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()

	for _, body := range []string{
		`{"name":"Laptop X","price":999}`,
		`{"name":"","price":999,"stock":5}`,
		`{"price":999,"stock":5}`,
		`not json`,
	} {
		rec := doRequest(h, http.MethodPost, "/api/add/items", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Missing product details", resp["error"])
	}
	assert.Empty(t, fs.products)
	assert.Empty(t, fs.history)
	assert.Zero(t, fs.productWrites)
}

func TestProductUpdateNoChanges(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()
	id := addProduct(t, h)

	rec := doRequest(h, http.MethodPut, "/api/update/items/"+id,
		`{"name":"Laptop X","price":999,"stock":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Product *model.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No changes detected", resp.Message)
	require.NotNil(t, resp.Product)
	assert.Equal(t, "Laptop X", resp.Product.Name)

	assert.Len(t, fs.history, 1, "a no-op update must not append history")
	assert.Equal(t, 1, fs.productWrites, "a no-op update must not write to the store")
}

func TestProductUpdate(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()
	id := addProduct(t, h)

	rec := doRequest(h, http.MethodPut, "/api/update/items/"+id,
		`{"name":"Laptop X","price":899,"stock":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message       string         `json:"message"`
		UpdatedFields map[string]any `json:"updatedFields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product updated", resp.Message)
	assert.Equal(t, map[string]any{"price": 899.0, "stock": 3.0}, resp.UpdatedFields)

	p := fs.products[id]
	assert.Equal(t, "Laptop X", p.Name)
	assert.Equal(t, 899.0, p.Price)
	assert.Equal(t, 3, p.Stock)

	require.Len(t, fs.history, 2)
	he := fs.history[1]
	assert.Equal(t, model.ActionProductUpdated, he.Action)
	assert.Equal(t, id, he.Product.ProductID)
	assert.Equal(t, map[string]any{"price": 999.0, "stock": 5}, he.Product.Existing)
	assert.Equal(t, map[string]any{"price": 899.0, "stock": 3.0}, he.Product.Updated)
	assert.Greater(t, he.Timestamp, fs.history[0].Timestamp)
}

func TestProductUpdateNotFound(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()

	rec := doRequest(h, http.MethodPut, "/api/update/items/doesnotexist", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product not found", resp["error"])
	assert.Empty(t, fs.history)
}

func TestProductInfoUpdate(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()
	id := addProduct(t, h)

	// price is outside the extended allow-list, bogus is unknown: both
	// must be silently ignored.
	rec := doRequest(h, http.MethodPut, "/api/update/info/items/"+id,
		`{"brand":"Contoso","gpu":"RTX 4060","price":1,"bogus":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message       string         `json:"message"`
		UpdatedFields map[string]any `json:"updatedFields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product info updated", resp.Message)
	assert.Equal(t, map[string]any{"brand": "Contoso", "gpu": "RTX 4060"}, resp.UpdatedFields)

	p := fs.products[id]
	assert.Equal(t, "Contoso", p.Brand)
	assert.Equal(t, "RTX 4060", p.GPU)
	assert.Equal(t, 999.0, p.Price)

	require.Len(t, fs.history, 2)
	he := fs.history[1]
	assert.Equal(t, model.ActionProductInfoUpdated, he.Action)
	assert.Equal(t, id, he.Product.ProductID)
	assert.Equal(t, "Laptop X", he.Product.Name)
	assert.Equal(t, map[string]any{"brand": "Contoso", "gpu": "RTX 4060"}, he.Product.Updated)
}

func TestProductInfoUpdateNoChanges(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()
	id := addProduct(t, h)

	rec := doRequest(h, http.MethodPut, "/api/update/info/items/"+id,
		`{"brand":"Acme","os":"Linux"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No changes detected", resp.Message)
	assert.Len(t, fs.history, 1)
	assert.Equal(t, 1, fs.productWrites)
}

func TestProductRemove(t *testing.T) {
	fs := newFakeStore()
	h := newTestServer(fs).Router()
	id := addProduct(t, h)

	rec := doRequest(h, http.MethodDelete, "/api/delete/items/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Product deleted", resp["message"])
	assert.Empty(t, fs.products)

	require.Len(t, fs.history, 2)
	he := fs.history[1]
	assert.Equal(t, model.ActionProductDeleted, he.Action)
	require.NotNil(t, he.Product.Snapshot)
	assert.Equal(t, "Laptop X", he.Product.Snapshot.Name)

	// Deleted Product's history must survive the delete, and a second
	// delete is a not-found with no extra history.
	rec = doRequest(h, http.MethodDelete, "/api/delete/items/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, fs.history, 2)
}

func TestHistoryCapAndOrder(t *testing.T) {
	fs := newFakeStore()
	srv := newTestServer(fs)
	h := srv.Router()

	for i := 0; i < 60; i++ {
		srv.recordHistory(context.Background(), model.ActionProductAdded, "entry", model.ProductData{})
	}
	require.Len(t, fs.history, 60)

	rec := doRequest(h, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		ID        string `json:"id"`
		Action    string `json:"action"`
		Details   string `json:"details"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 50)

	prev := time.Time{}
	for i, item := range items {
		ts, err := time.Parse(time.RFC3339Nano, item.Timestamp)
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, ts.Before(prev), "timestamps must be strictly descending")
		}
		prev = ts
	}
	newest, err := time.Parse(time.RFC3339Nano, items[0].Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC), newest)
}

func TestHistoryStoreError(t *testing.T) {
	fs := newFakeStore()
	fs.historyReadErr = errors.New("connection reset")
	h := newTestServer(fs).Router()

	rec := doRequest(h, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "connection reset")
}
