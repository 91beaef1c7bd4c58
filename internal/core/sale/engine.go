package sale

import (
	"context"
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultInfoCacheSize is the number of sale infos kept in memory.
const DefaultInfoCacheSize = 1024

// Engine runs every sale operation. It holds no per-sale state: all of it
// lives in the store, so an engine can be replaced without losing sales.
type Engine struct {
	store   *view.Store
	clock   Clock
	reserve LiquidityReserve
	log     *zap.Logger
	metrics *metrics
	infos   *lru.Cache[types.SaleID, Info]
}

// Config holds the optional engine parameters.
type Config struct {
	InfoCacheSize int
	Registerer    prometheus.Registerer
}

func NewEngine(store *view.Store, clock Clock, reserve LiquidityReserve, log *zap.Logger, cfg Config) (*Engine, error) {
	size := cfg.InfoCacheSize
	if size <= 0 {
		size = DefaultInfoCacheSize
	}
	infos, err := lru.New[types.SaleID, Info](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create info cache: %w", err)
	}
	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register sale metrics: %w", err)
	}
	return &Engine{
		store:   store,
		clock:   clock,
		reserve: reserve,
		log:     log.Named("sale"),
		metrics: m,
		infos:   infos,
	}, nil
}

// Store returns the store the engine commits to.
func (e *Engine) Store() *view.Store {
	return e.store
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock {
	return e.clock
}

// info returns the cached info or reads it through r. Infos read inside an
// uncommitted view are not cached.
func (e *Engine) info(ctx context.Context, r view.Reader, id types.SaleID) (Info, error) {
	if info, ok := e.infos.Get(id); ok {
		return info, nil
	}
	return LoadInfo(ctx, r, id)
}

func (e *Engine) load(ctx context.Context, r view.Reader, id types.SaleID) (Info, Status, error) {
	info, err := e.info(ctx, r, id)
	if err != nil {
		return Info{}, Status{}, err
	}
	status, err := LoadStatus(ctx, r, id)
	if err != nil {
		return Info{}, Status{}, err
	}
	return info, status, nil
}

// update runs fn in one atomic unit and caches the sale info on success.
func (e *Engine) update(ctx context.Context, id types.SaleID, fn func(v *view.View, info Info, status *Status) error) error {
	var info Info
	err := e.store.Update(ctx, func(v *view.View) error {
		var (
			status Status
			err    error
		)
		info, status, err = e.load(ctx, v, id)
		if err != nil {
			return err
		}
		if err := fn(v, info, &status); err != nil {
			return err
		}
		return v.Put(ctx, keylet.Status(id), status)
	})
	if err == nil {
		e.infos.Add(id, info)
	}
	return err
}

// Info returns the immutable sale description.
func (e *Engine) Info(ctx context.Context, id types.SaleID) (Info, error) {
	if info, ok := e.infos.Get(id); ok {
		return info, nil
	}
	var info Info
	err := e.store.View(ctx, func(r view.Reader) error {
		var err error
		info, err = LoadInfo(ctx, r, id)
		return err
	})
	if err != nil {
		return Info{}, err
	}
	e.infos.Add(id, info)
	return info, nil
}

// Status returns the sale counters.
func (e *Engine) Status(ctx context.Context, id types.SaleID) (Status, error) {
	var status Status
	err := e.store.View(ctx, func(r view.Reader) error {
		var err error
		status, err = LoadStatus(ctx, r, id)
		return err
	})
	return status, err
}

// State evaluates the sale's state at the engine clock's current time.
func (e *Engine) State(ctx context.Context, id types.SaleID) (State, error) {
	summary, err := e.Summary(ctx, id)
	if err != nil {
		return 0, err
	}
	return summary.State, nil
}

// Summary is a consistent read of a sale's info, status and state.
type Summary struct {
	Info   Info
	Status Status
	State  State
}

// Summary reads info and status from one snapshot and evaluates the state.
func (e *Engine) Summary(ctx context.Context, id types.SaleID) (Summary, error) {
	var s Summary
	err := e.store.View(ctx, func(r view.Reader) error {
		info, status, err := e.load(ctx, r, id)
		if err != nil {
			return err
		}
		s = Summary{Info: info, Status: status, State: Evaluate(e.clock.Now(), info, status)}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	e.infos.Add(id, s.Info)
	return s, nil
}

// Buyer returns a buyer's record. Unknown buyers read as zero.
func (e *Engine) Buyer(ctx context.Context, id types.SaleID, buyer types.Principal) (Buyer, error) {
	var rec Buyer
	err := e.store.View(ctx, func(r view.Reader) error {
		if _, err := e.info(ctx, r, id); err != nil {
			return err
		}
		var err error
		rec, _, err = LoadBuyer(ctx, r, id, buyer)
		return err
	})
	return rec, err
}

// Settlement returns the finalization outcome. The boolean is false until
// the sale has been finalized.
func (e *Engine) Settlement(ctx context.Context, id types.SaleID) (Settlement, bool, error) {
	var (
		s     Settlement
		found bool
	)
	err := e.store.View(ctx, func(r view.Reader) error {
		if _, err := e.info(ctx, r, id); err != nil {
			return err
		}
		var err error
		s, found, err = LoadSettlement(ctx, r, id)
		return err
	})
	return s, found, err
}

func amountField(key string, a amount.Amount) zap.Field {
	return zap.Stringer(key, a)
}
