// Package mutation performs writes against the catalog API and reconciles the
// store by re-fetching the full product list after each one.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/state"
)

// ErrBusy is returned when a write is requested while another is in flight.
var ErrBusy = errors.New("another change is still being saved")

// ReconcileError reports a write the API accepted whose follow-up list fetch
// failed. The change is applied remotely; the local view is stale.
type ReconcileError struct {
	Op  string
	Err error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("%s succeeded but reload failed: %v", e.Op, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Coordinator serializes writes and keeps the store in step with the API.
type Coordinator struct {
	service catalog.Service
	store   *state.Store
	logger  *zap.Logger
	busy    atomic.Bool
}

// New builds a Coordinator. A nil logger discards log output.
func New(service catalog.Service, store *state.Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{service: service, store: store, logger: logger.Named("mutation")}
}

// Busy reports whether a write is in flight.
func (c *Coordinator) Busy() bool { return c.busy.Load() }

// Load fetches the product list into the store. On failure the error is
// recorded on the store and returned; previously loaded products are kept.
func (c *Coordinator) Load(ctx context.Context) error {
	return c.fetch(ctx, "load")
}

// Refresh is Load triggered by the user.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.fetch(ctx, "refresh")
}

// Fetch reads a single product for the detail view. The store is not
// touched: the list only changes through a full load.
func (c *Coordinator) Fetch(ctx context.Context, id int64) (*catalog.Product, error) {
	start := time.Now()
	p, err := c.service.Get(ctx, id)
	if err != nil {
		c.logFailure("get", id, start, err)
		return nil, err
	}
	c.logger.Debug("product fetched", zap.Int64("id", id), zap.Duration("duration", time.Since(start)))
	return p, nil
}

// Create validates and submits a new product.
func (c *Coordinator) Create(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	in = Normalize(in)
	if err := Validate(in); err != nil {
		c.logger.Debug("create rejected", zap.Error(err))
		return nil, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	start := time.Now()
	created, err := c.service.Create(ctx, in)
	if err != nil {
		c.logFailure("create", 0, start, err)
		return nil, err
	}
	var newID int64
	if created != nil {
		newID = created.ID
	}
	c.logger.Info("product created",
		zap.Int64("id", newID),
		zap.Duration("duration", time.Since(start)),
	)
	return created, c.reconcile(ctx, "create")
}

// Update validates and submits changes to an existing product.
func (c *Coordinator) Update(ctx context.Context, id int64, in catalog.ProductInput) (*catalog.Product, error) {
	in = Normalize(in)
	if err := Validate(in); err != nil {
		c.logger.Debug("update rejected", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if _, err := c.store.Lookup(id); err != nil {
		return nil, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	start := time.Now()
	updated, err := c.service.Update(ctx, id, in)
	if err != nil {
		c.logFailure("update", id, start, err)
		return nil, err
	}
	c.logger.Info("product updated",
		zap.Int64("id", id),
		zap.Duration("duration", time.Since(start)),
	)
	return updated, c.reconcile(ctx, "update")
}

// Delete removes an existing product.
func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	if _, err := c.store.Lookup(id); err != nil {
		return err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	start := time.Now()
	if err := c.service.Delete(ctx, id); err != nil {
		c.logFailure("delete", id, start, err)
		return err
	}
	c.logger.Info("product deleted",
		zap.Int64("id", id),
		zap.Duration("duration", time.Since(start)),
	)
	return c.reconcile(ctx, "delete")
}

func (c *Coordinator) reconcile(ctx context.Context, op string) error {
	if err := c.fetch(ctx, "reconcile after "+op); err != nil {
		return &ReconcileError{Op: op, Err: err}
	}
	return nil
}

func (c *Coordinator) fetch(ctx context.Context, op string) error {
	start := time.Now()
	products, err := c.service.List(ctx)
	if err != nil {
		c.store.SetLoadError(err)
		c.logFailure(op, 0, start, err)
		return err
	}
	c.store.SetProducts(products)
	c.logger.Info("products loaded",
		zap.String("op", op),
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (c *Coordinator) logFailure(op string, id int64, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", catalog.Classify(err).String()),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	}
	if id != 0 {
		fields = append(fields, zap.Int64("id", id))
	}
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Status))
	}
	c.logger.Warn("catalog request failed", fields...)
}
