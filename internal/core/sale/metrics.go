package sale

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	deposit         prometheus.Counter
	depositRejected prometheus.Counter
	withdrawOffered prometheus.Counter
	withdrawBase    prometheus.Counter
	finalize        prometheus.Counter
	forceFail       prometheus.Counter
	sellerRefund    prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		deposit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "deposit",
			Help:      "number of accepted deposits",
		}),
		depositRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "deposit_rejected",
			Help:      "number of deposits rejected by state or caps",
		}),
		withdrawOffered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "withdraw_offered",
			Help:      "number of offered asset withdrawals from successful sales",
		}),
		withdrawBase: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "withdraw_base",
			Help:      "number of base asset refunds from failed sales",
		}),
		finalize: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "finalize",
			Help:      "number of sales settled",
		}),
		forceFail: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "force_fail",
			Help:      "number of sales force failed by the admin",
		}),
		sellerRefund: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sale",
			Name:      "seller_refund",
			Help:      "number of offered asset refunds to sellers of failed sales",
		}),
	}
	if r == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.deposit,
		m.depositRejected,
		m.withdrawOffered,
		m.withdrawBase,
		m.finalize,
		m.forceFail,
		m.sellerRefund,
	} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
