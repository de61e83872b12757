package server

import (
	"context"
	"time"

	"inventorytracker/internal/cache"
	"inventorytracker/internal/model"
)

type Server struct {
	DB        store
	Cache     *cache.Cache
	Logger    logger
	StaticDir string
	// Now overrides the clock used for audit timestamps. Nil means
	// time.Now.
	Now func() time.Time
}

type store interface {
	ProductInsert(ctx context.Context, p model.Product) (string, error)
	ProductFindOne(ctx context.Context, productID string) (model.Product, error)
	ProductsFindAll(ctx context.Context) ([]model.Product, error)
	ProductUpdate(ctx context.Context, productID string, fields map[string]any) error
	ProductDelete(ctx context.Context, productID string) error
	HistoryInsert(ctx context.Context, he model.HistoryEntry) error
	HistoryFindLatest(ctx context.Context, limit int64) ([]model.HistoryEntry, error)
}

type logger interface {
	Trace(v ...any)
	Debug(v ...any)
	Info(v ...any)
	Error(v ...any)
	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

func (s Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
