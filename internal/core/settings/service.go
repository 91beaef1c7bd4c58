package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/core/amount"
	"github.com/LeJamon/goIAZO/internal/core/ledger/keylet"
	"github.com/LeJamon/goIAZO/internal/core/types"
	"github.com/LeJamon/goIAZO/internal/core/view"
	"go.uber.org/zap"
)

// Service exposes the admin-gated setters.
type Service struct {
	store *view.Store
	log   *zap.Logger
}

func NewService(store *view.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log.Named("settings")}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	var out Settings
	err := s.store.View(ctx, func(r view.Reader) error {
		var err error
		out, err = Load(ctx, r)
		return err
	})
	return out, err
}

// Bootstrap writes initial settings unless some are already stored.
func (s *Service) Bootstrap(ctx context.Context, initial Settings) error {
	return s.store.Update(ctx, func(v *view.View) error {
		wrote, err := Bootstrap(ctx, v, initial)
		if err != nil {
			return err
		}
		if wrote {
			s.log.Info("settings bootstrapped",
				zap.Stringer("admin", initial.Admin),
				zap.Stringer("fee_address", initial.FeeAddress))
		}
		return nil
	})
}

func (s *Service) update(ctx context.Context, caller types.Principal, what string, fn func(*Settings)) error {
	err := s.store.Update(ctx, func(v *view.View) error {
		current, err := Load(ctx, v)
		if err != nil {
			return err
		}
		if caller != current.Admin {
			return ErrNotAdmin
		}
		fn(&current)
		if err := current.Validate(); err != nil {
			return err
		}
		return v.Put(ctx, keylet.Settings(), current)
	})
	if err != nil {
		s.log.Debug("settings update rejected", zap.String("setting", what), zap.Stringer("caller", caller), zap.Error(err))
		return fmt.Errorf("set %s: %w", what, err)
	}
	s.log.Info("settings updated", zap.String("setting", what), zap.Stringer("caller", caller))
	return nil
}

// SetFees updates the base fee, token fee and native creation fee.
func (s *Service) SetFees(ctx context.Context, caller types.Principal, baseFee, tokenFee uint16, creationFee amount.Amount) error {
	return s.update(ctx, caller, "fees", func(st *Settings) {
		st.BaseFee = baseFee
		st.TokenFee = tokenFee
		st.NativeCreationFee = creationFee
	})
}

// SetMaxFees updates the fee ceilings.
func (s *Service) SetMaxFees(ctx context.Context, caller types.Principal, maxBaseFee, maxTokenFee uint16) error {
	return s.update(ctx, caller, "max fees", func(st *Settings) {
		st.MaxBaseFee = maxBaseFee
		st.MaxTokenFee = maxTokenFee
	})
}

// SetSaleLength updates the active duration bounds.
func (s *Service) SetSaleLength(ctx context.Context, caller types.Principal, min, max time.Duration) error {
	return s.update(ctx, caller, "sale length", func(st *Settings) {
		st.MinSaleLength = min
		st.MaxSaleLength = max
	})
}

func (s *Service) SetMinLockPeriod(ctx context.Context, caller types.Principal, period time.Duration) error {
	return s.update(ctx, caller, "min lock period", func(st *Settings) {
		st.MinLockPeriod = period
	})
}

func (s *Service) SetMinStartDelay(ctx context.Context, caller types.Principal, delay time.Duration) error {
	return s.update(ctx, caller, "min start delay", func(st *Settings) {
		st.MinStartDelay = delay
	})
}

// SetLiquidityPercentBounds updates the allowed liquidity reservation range.
func (s *Service) SetLiquidityPercentBounds(ctx context.Context, caller types.Principal, min, max uint16) error {
	return s.update(ctx, caller, "liquidity percent", func(st *Settings) {
		st.MinLiquidityPercent = min
		st.MaxLiquidityPercent = max
	})
}

// SetAdmin hands governance to a new principal.
func (s *Service) SetAdmin(ctx context.Context, caller, admin types.Principal) error {
	return s.update(ctx, caller, "admin", func(st *Settings) {
		st.Admin = admin
	})
}

// SetFeeAddress changes where fees are paid. Sales pick it up at their next
// fee transfer.
func (s *Service) SetFeeAddress(ctx context.Context, caller, feeAddress types.Principal) error {
	return s.update(ctx, caller, "fee address", func(st *Settings) {
		st.FeeAddress = feeAddress
	})
}
