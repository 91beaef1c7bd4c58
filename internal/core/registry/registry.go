// Package registry creates sales, collects the creation fee, escrows the
// offered asset and keeps the list of every sale ever created.
package registry

import (
	"context"
	"fmt"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	"github.com/LeJamon/goIAZO/internal/storage/relationaldb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Index is the secondary sale index used for seller queries. The key-value
// store stays authoritative; the index can always be rebuilt with Reindex.
type Index interface {
	Put(ctx context.Context, row relationaldb.SaleRow) error
	BySeller(ctx context.Context, seller string) ([]relationaldb.SaleRow, error)
	Reset(ctx context.Context) error
}

type registryState struct {
	Count uint64 `codec:"count"`
}

type position struct {
	Sale types.SaleID `codec:"sale"`
}

// Registry is the factory and directory of sales.
type Registry struct {
	engine  *sale.Engine
	store   *view.Store
	index   Index
	log     *zap.Logger
	metrics *metrics

	summaryConcurrency int
}

// Config holds the optional registry parameters.
type Config struct {
	// Index may be nil, in which case BySeller reports ErrIndexUnavailable.
	Index              Index
	SummaryConcurrency int
	Registerer         prometheus.Registerer
}

func New(engine *sale.Engine, log *zap.Logger, cfg Config) (*Registry, error) {
	m, err := newMetrics(cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register registry metrics: %w", err)
	}
	concurrency := cfg.SummaryConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Registry{
		engine:             engine,
		store:              engine.Store(),
		index:              cfg.Index,
		log:                log.Named("registry"),
		metrics:            m,
		summaryConcurrency: concurrency,
	}, nil
}

// Engine returns the sale engine the registry creates sales for.
func (r *Registry) Engine() *sale.Engine {
	return r.engine
}

// TokensRequired reports how much of the offered asset a sale with these
// parameters would escrow, using the current token fee.
func (r *Registry) TokensRequired(ctx context.Context, offerAsset types.Asset, offered, price, listingPrice amount.Amount, liquidityPercent uint16) (amount.Amount, error) {
	var out amount.Amount
	err := r.store.View(ctx, func(rd view.Reader) error {
		st, err := settings.Load(ctx, rd)
		if err != nil {
			return err
		}
		info, err := asset.Lookup(ctx, rd, offerAsset)
		if err != nil {
			return err
		}
		out, err = sale.TokensRequired(offered, price, listingPrice, liquidityPercent, st.TokenFee, info.Decimals)
		return err
	})
	return out, err
}

// Create validates p against the current settings snapshot, charges the
// native creation fee to creator, escrows the required offered asset from
// creator and registers the sale. feePaid is what the creator is willing to
// pay; exactly the creation fee is charged.
func (r *Registry) Create(ctx context.Context, creator types.Principal, feePaid amount.Amount, p CreateParams) (sale.Info, error) {
	var info sale.Info
	err := r.store.Update(ctx, func(v *view.View) error {
		var err error
		info, err = r.create(ctx, v, creator, feePaid, p)
		return err
	})
	if err != nil {
		r.metrics.createFailed.Inc()
		r.log.Debug("create rejected", zap.Stringer("creator", creator), zap.Stringer("seller", p.Seller), zap.Error(err))
		return sale.Info{}, fmt.Errorf("create sale: %w", err)
	}

	r.metrics.created.Inc()
	r.log.Info("sale created",
		zap.Stringer("sale", info.ID),
		zap.Uint64("index", info.Index),
		zap.Stringer("creator", creator),
		zap.Stringer("seller", info.Seller),
		zap.Stringer("hard_cap", info.HardCap),
		zap.Stringer("tokens_required", info.TokensRequired),
		zap.Time("start", info.StartTime),
		zap.Time("end", info.EndTime()))

	if r.index != nil {
		if err := r.index.Put(ctx, rowOf(info)); err != nil {
			r.metrics.indexFailures.Inc()
			r.log.Warn("failed to index sale, run reindex to repair", zap.Stringer("sale", info.ID), zap.Error(err))
		}
	}
	return info, nil
}

func (r *Registry) create(ctx context.Context, v *view.View, creator types.Principal, feePaid amount.Amount, p CreateParams) (sale.Info, error) {
	now := r.engine.Clock().Now()

	st, err := settings.Load(ctx, v)
	if err != nil {
		return sale.Info{}, err
	}
	snap := st.Snapshot()

	if feePaid.LessThan(snap.NativeCreationFee) {
		return sale.Info{}, fmt.Errorf("%w: paid %s, need %s", ErrInsufficientFee, feePaid, snap.NativeCreationFee)
	}
	if err := p.validate(now, snap); err != nil {
		return sale.Info{}, err
	}

	offerInfo, err := asset.Lookup(ctx, v, p.OfferAsset)
	if err != nil {
		return sale.Info{}, err
	}
	if _, err := asset.Lookup(ctx, v, p.BaseAsset); err != nil {
		return sale.Info{}, err
	}
	decimals := offerInfo.Decimals

	listingPrice := p.ListingPrice
	if listingPrice.IsZero() {
		listingPrice = p.TokenPrice
	}
	hardCap, err := sale.HardCap(p.Amount, p.TokenPrice, decimals)
	if err != nil {
		return sale.Info{}, outOfBounds("amount", "hardcap: %v", err)
	}
	if hardCap.IsZero() {
		return sale.Info{}, outOfBounds("token price", "hardcap rounds to zero")
	}
	if p.SoftCap.IsZero() || hardCap.LessThan(p.SoftCap) {
		return sale.Info{}, outOfBounds("soft cap", "%s outside (0, %s]", p.SoftCap, hardCap)
	}
	required, err := sale.TokensRequired(p.Amount, p.TokenPrice, listingPrice, p.LiquidityPercent, snap.TokenFee, decimals)
	if err != nil {
		return sale.Info{}, outOfBounds("amount", "tokens required: %v", err)
	}

	var state registryState
	if _, err := v.Read(ctx, keylet.RegistryState(), &state); err != nil {
		return sale.Info{}, err
	}
	id := keylet.SaleID(creator, state.Count)

	info := sale.Info{
		ID:               id,
		Index:            state.Count,
		Creator:          creator,
		Seller:           p.Seller,
		Account:          id.Account(),
		OfferAsset:       p.OfferAsset,
		OfferDecimals:    decimals,
		BaseAsset:        p.BaseAsset,
		TokenPrice:       p.TokenPrice,
		Amount:           p.Amount,
		HardCap:          hardCap,
		SoftCap:          p.SoftCap,
		MaxSpendPerBuyer: p.MaxSpendPerBuyer,
		LiquidityPercent: p.LiquidityPercent,
		ListingPrice:     listingPrice,
		TokensRequired:   required,
		StartTime:        p.StartTime,
		ActiveDuration:   p.ActiveDuration,
		LockPeriod:       p.LockPeriod,
		BurnRemains:      p.BurnRemains,
		CreatedAt:        now,
		Settings:         snap,
	}

	if err := asset.Transfer(ctx, v, types.NativeAsset, creator, st.FeeAddress, snap.NativeCreationFee); err != nil {
		return sale.Info{}, fmt.Errorf("creation fee: %w", err)
	}
	if err := asset.Transfer(ctx, v, p.OfferAsset, creator, info.Account, required); err != nil {
		return sale.Info{}, fmt.Errorf("escrow: %w", err)
	}
	if err := sale.Create(ctx, v, info); err != nil {
		return sale.Info{}, err
	}
	if err := v.Put(ctx, keylet.RegistryAt(state.Count), position{Sale: id}); err != nil {
		return sale.Info{}, err
	}
	state.Count++
	if err := v.Put(ctx, keylet.RegistryState(), state); err != nil {
		return sale.Info{}, err
	}
	return info, nil
}

func rowOf(info sale.Info) relationaldb.SaleRow {
	return relationaldb.SaleRow{
		ID:         info.ID.String(),
		Position:   info.Index,
		Creator:    info.Creator.String(),
		Seller:     info.Seller.String(),
		OfferAsset: info.OfferAsset.String(),
		BaseAsset:  info.BaseAsset.String(),
		StartTime:  info.StartTime.Unix(),
		EndTime:    info.EndTime().Unix(),
	}
}

// Count returns the number of sales ever created.
func (r *Registry) Count(ctx context.Context) (uint64, error) {
	var state registryState
	err := r.store.View(ctx, func(rd view.Reader) error {
		_, err := rd.Read(ctx, keylet.RegistryState(), &state)
		return err
	})
	return state.Count, err
}

// At returns the id of the sale created at position i.
func (r *Registry) At(ctx context.Context, i uint64) (types.SaleID, error) {
	var pos position
	err := r.store.View(ctx, func(rd view.Reader) error {
		found, err := rd.Read(ctx, keylet.RegistryAt(i), &pos)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
		}
		return nil
	})
	return pos.Sale, err
}

// Get returns a consistent summary of one sale.
func (r *Registry) Get(ctx context.Context, id types.SaleID) (sale.Summary, error) {
	return r.engine.Summary(ctx, id)
}

// BySeller lists the sales of a seller from the relational index.
func (r *Registry) BySeller(ctx context.Context, seller types.Principal) ([]types.SaleID, error) {
	if r.index == nil {
		return nil, ErrIndexUnavailable
	}
	rows, err := r.index.BySeller(ctx, seller.String())
	if err != nil {
		return nil, err
	}
	ids := make([]types.SaleID, 0, len(rows))
	for _, row := range rows {
		id, err := types.ParseSaleID(row.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Reindex rebuilds the relational index from the key-value store and
// returns the number of sales indexed.
func (r *Registry) Reindex(ctx context.Context) (int, error) {
	if r.index == nil {
		return 0, ErrIndexUnavailable
	}
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.index.Reset(ctx); err != nil {
		return 0, err
	}
	for i := uint64(0); i < count; i++ {
		id, err := r.At(ctx, i)
		if err != nil {
			return int(i), err
		}
		info, err := r.engine.Info(ctx, id)
		if err != nil {
			return int(i), err
		}
		if err := r.index.Put(ctx, rowOf(info)); err != nil {
			return int(i), err
		}
	}
	r.log.Info("sale index rebuilt", zap.Uint64("sales", count))
	return int(count), nil
}
