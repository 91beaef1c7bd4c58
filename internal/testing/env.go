package testing

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/liquidity"
	"github.com/LeJamon/goIAZO/internal/core/registry"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	"github.com/LeJamon/goIAZO/internal/storage/database/leveldb"
	"go.uber.org/zap"
)

// OfferAsset is the asset code Params offers by default.
const OfferAsset types.Asset = "TKN"

// Env manages a complete in-memory sale stack for tests.
type Env struct {
	t     *testing.T
	ctx   context.Context
	clock *ManualClock

	Store    *view.Store
	Settings *settings.Service
	Engine   *sale.Engine
	Registry *registry.Registry

	// Reserve is nil when the env was built WithReserve.
	Reserve *liquidity.Reserve

	Admin *Account
	Fees  *Account
}

type envConfig struct {
	reserve  sale.LiquidityReserve
	index    registry.Index
	settings func(*settings.Settings)
}

// Option customizes NewEnv.
type Option func(*envConfig)

// WithReserve replaces the liquidity reserve, typically with a mock.
func WithReserve(r sale.LiquidityReserve) Option {
	return func(c *envConfig) { c.reserve = r }
}

// WithIndex gives the registry a relational index.
func WithIndex(idx registry.Index) Option {
	return func(c *envConfig) { c.index = idx }
}

// WithSettings edits the bootstrap settings before they are stored.
func WithSettings(fn func(*settings.Settings)) Option {
	return func(c *envConfig) { c.settings = fn }
}

// NewEnv creates a test environment with default settings and the native
// asset issued at DefaultDecimals.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	manager := leveldb.NewMemManager()
	t.Cleanup(func() { _ = manager.Close() })
	db, err := manager.OpenDB("iazo")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	log := zap.NewNop()
	e := &Env{
		t:     t,
		ctx:   context.Background(),
		clock: NewManualClock(),
		Store: view.NewStore(db),
		Admin: AdminAccount(),
		Fees:  FeeAccount(),
	}

	initial := settings.Defaults(e.Admin.ID, e.Fees.ID)
	if cfg.settings != nil {
		cfg.settings(&initial)
	}
	e.Settings = settings.NewService(e.Store, log)
	if err := e.Settings.Bootstrap(e.ctx, initial); err != nil {
		t.Fatalf("Failed to bootstrap settings: %v", err)
	}

	reserve := cfg.reserve
	if reserve == nil {
		e.Reserve = liquidity.NewReserve(liquidity.DefaultAccount, e.Store, e.clock, log)
		reserve = e.Reserve
	}

	e.Engine, err = sale.NewEngine(e.Store, e.clock, reserve, log, sale.Config{})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	e.Registry, err = registry.New(e.Engine, log, registry.Config{Index: cfg.index})
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	e.Issue(types.NativeAsset, DefaultDecimals, e.Admin, amount.Zero())
	return e
}

// Context returns the context every env call runs with.
func (e *Env) Context() context.Context {
	return e.ctx
}

// Issue registers an asset and credits supply to holder.
func (e *Env) Issue(a types.Asset, decimals uint8, holder *Account, supply amount.Amount) {
	e.t.Helper()
	err := e.Store.Update(e.ctx, func(v *view.View) error {
		return asset.Issue(e.ctx, v, a, decimals, holder.ID, holder.ID, supply)
	})
	if err != nil {
		e.t.Fatalf("Failed to issue %s: %v", a, err)
	}
}

// Fund mints amt of an issued asset to each account.
func (e *Env) Fund(a types.Asset, amt amount.Amount, accounts ...*Account) {
	e.t.Helper()
	err := e.Store.Update(e.ctx, func(v *view.View) error {
		for _, acc := range accounts {
			if err := asset.Mint(e.ctx, v, a, acc.ID, amt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		e.t.Fatalf("Failed to fund %s: %v", a, err)
	}
}

// Balance returns what a principal holds of an asset.
func (e *Env) Balance(holder types.Principal, a types.Asset) amount.Amount {
	e.t.Helper()
	var out amount.Amount
	err := e.Store.View(e.ctx, func(r view.Reader) error {
		var err error
		out, err = asset.Balance(e.ctx, r, holder, a)
		return err
	})
	if err != nil {
		e.t.Fatalf("Failed to read balance: %v", err)
	}
	return out
}

// CreationFee returns the current native creation fee.
func (e *Env) CreationFee() amount.Amount {
	e.t.Helper()
	s, err := e.Settings.Get(e.ctx)
	if err != nil {
		e.t.Fatalf("Failed to read settings: %v", err)
	}
	return s.NativeCreationFee
}

// CreateSale funds the creator with the creation fee and creates a sale.
// The creator must already hold the offered asset.
func (e *Env) CreateSale(creator *Account, p registry.CreateParams) sale.Info {
	e.t.Helper()
	fee := e.CreationFee()
	e.Fund(types.NativeAsset, fee, creator)
	info, err := e.Registry.Create(e.ctx, creator.ID, fee, p)
	if err != nil {
		e.t.Fatalf("Failed to create sale: %v", err)
	}
	return info
}

// Now returns the current test time.
func (e *Env) Now() time.Time {
	return e.clock.Now()
}

// Clock exposes the env's manual clock.
func (e *Env) Clock() *ManualClock {
	return e.clock
}

// AdvanceTime moves the clock forward.
func (e *Env) AdvanceTime(d time.Duration) {
	e.clock.Advance(d)
}

// SetTime sets the clock.
func (e *Env) SetTime(t time.Time) {
	e.clock.Set(t)
}

// Open moves the clock to the start of a sale.
func (e *Env) Open(info sale.Info) {
	e.clock.Set(info.StartTime)
}

// Close moves the clock to the end of a sale's active window.
func (e *Env) Close(info sale.Info) {
	e.clock.Set(info.EndTime())
}
