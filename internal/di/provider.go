package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/LeJamon/goIAZO/internal/config"
	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/asset"
	"github.com/LeJamon/goIAZO/internal/core/liquidity"
	"github.com/LeJamon/goIAZO/internal/core/registry"
	"github.com/LeJamon/goIAZO/internal/core/sale"
	"github.com/LeJamon/goIAZO/internal/core/settings"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	ilog "github.com/LeJamon/goIAZO/internal/log"
	"github.com/LeJamon/goIAZO/internal/storage/backend"
	"github.com/LeJamon/goIAZO/internal/storage/database"
	"github.com/LeJamon/goIAZO/internal/storage/relationaldb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// NativeDecimals is the precision the native asset is issued with when the
// database does not know it yet.
const NativeDecimals uint8 = 18

const defaultIndexOpenTimeout = 30 * time.Second

// storage pairs the opened database with the manager that owns it.
type storage struct {
	manager database.Manager
	db      database.DB
}

func (s *storage) Close() error {
	return s.manager.Close()
}

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	clock     sale.Clock
}

// NewProvider creates a new service provider.
func NewProvider(container *Container, cfg *config.Config) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
		clock:     sale.SystemClock{},
	}
}

// WithClock replaces the wall clock the engine and reserve read.
func (p *Provider) WithClock(clock sale.Clock) *Provider {
	p.clock = clock
	return p
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() error {
	if p.config == nil {
		return fmt.Errorf("provider has no configuration")
	}
	p.container.Register(ServiceConfig, p.config)

	p.registerAmbientBuilders()
	p.registerStorageBuilders()
	p.registerCoreBuilders()
	return nil
}

func (p *Provider) registerAmbientBuilders() {
	p.container.RegisterBuilder(ServiceLogger, func(c *Container) (interface{}, error) {
		return ilog.New(p.config.Log)
	})

	// The registry always exists; it is only served when metrics are enabled.
	p.container.RegisterBuilder(ServiceMetrics, func(c *Container) (interface{}, error) {
		return prometheus.NewRegistry(), nil
	})
}

func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceDatabase, func(c *Container) (interface{}, error) {
		dbCfg := p.config.Database
		if dbCfg.Backend != config.BackendMemory {
			if err := os.MkdirAll(dbCfg.Path, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		manager, db, err := backend.Open(dbCfg)
		if err != nil {
			return nil, err
		}
		return &storage{manager: manager, db: db}, nil
	})

	p.container.RegisterBuilder(ServiceStore, func(c *Container) (interface{}, error) {
		s, err := Resolve[*storage](c, ServiceDatabase)
		if err != nil {
			return nil, err
		}
		return view.NewStore(s.db), nil
	})

	if !p.config.Index.Enabled() {
		return
	}
	p.container.RegisterBuilder(ServiceSaleIndex, func(c *Container) (interface{}, error) {
		timeout := p.config.Index.Timeout
		if timeout <= 0 {
			timeout = defaultIndexOpenTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return relationaldb.OpenSaleIndex(ctx, p.config.Index.Relational())
	})
}

func (p *Provider) registerCoreBuilders() {
	p.container.RegisterBuilder(ServiceSettings, func(c *Container) (interface{}, error) {
		store, log, err := p.storeAndLog(c)
		if err != nil {
			return nil, err
		}
		initial, err := p.config.Governance.Settings()
		if err != nil {
			return nil, err
		}
		svc := settings.NewService(store, log)
		ctx := context.Background()
		if err := svc.Bootstrap(ctx, initial); err != nil {
			return nil, err
		}
		if err := ensureNativeAsset(ctx, store, initial.Admin); err != nil {
			return nil, err
		}
		return svc, nil
	})

	p.container.RegisterBuilder(ServiceReserve, func(c *Container) (interface{}, error) {
		store, log, err := p.storeAndLog(c)
		if err != nil {
			return nil, err
		}
		account, err := p.config.Governance.Reserve()
		if err != nil {
			return nil, err
		}
		return liquidity.NewReserve(account, store, p.clock, log), nil
	})

	p.container.RegisterBuilder(ServiceSaleEngine, func(c *Container) (interface{}, error) {
		store, log, err := p.storeAndLog(c)
		if err != nil {
			return nil, err
		}
		// Settings must be bootstrapped before the first sale operation.
		if _, err := c.Get(ServiceSettings); err != nil {
			return nil, err
		}
		reserve, err := Resolve[*liquidity.Reserve](c, ServiceReserve)
		if err != nil {
			return nil, err
		}
		reg, err := Resolve[*prometheus.Registry](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}
		return sale.NewEngine(store, p.clock, reserve, log, sale.Config{
			InfoCacheSize: p.config.Cache.SaleInfoSize,
			Registerer:    reg,
		})
	})

	p.container.RegisterBuilder(ServiceRegistry, func(c *Container) (interface{}, error) {
		engine, err := Resolve[*sale.Engine](c, ServiceSaleEngine)
		if err != nil {
			return nil, err
		}
		log, err := Resolve[*zap.Logger](c, ServiceLogger)
		if err != nil {
			return nil, err
		}
		reg, err := Resolve[*prometheus.Registry](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}
		cfg := registry.Config{
			SummaryConcurrency: p.config.Cache.SummaryConcurrency,
			Registerer:         reg,
		}
		if c.Has(ServiceSaleIndex) {
			idx, err := Resolve[*relationaldb.SaleIndex](c, ServiceSaleIndex)
			if err != nil {
				return nil, err
			}
			cfg.Index = idx
		}
		return registry.New(engine, log, cfg)
	})
}

func (p *Provider) storeAndLog(c *Container) (*view.Store, *zap.Logger, error) {
	store, err := Resolve[*view.Store](c, ServiceStore)
	if err != nil {
		return nil, nil, err
	}
	log, err := Resolve[*zap.Logger](c, ServiceLogger)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}

// ensureNativeAsset issues the native asset with zero supply on a fresh
// database. Creation fees are charged in it.
func ensureNativeAsset(ctx context.Context, store *view.Store, issuer types.Principal) error {
	return store.Update(ctx, func(v *view.View) error {
		_, err := asset.Lookup(ctx, v, types.NativeAsset)
		if err == nil {
			return nil
		}
		if !errors.Is(err, asset.ErrUnknownAsset) {
			return err
		}
		return asset.Issue(ctx, v, types.NativeAsset, NativeDecimals, issuer, issuer, amount.Zero())
	})
}
