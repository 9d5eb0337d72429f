package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time, labeled by the message path and the result code.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ vault.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors
// with given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Name:      "transactions_total",
			Help:      "Number of processed transactions by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vault",
			Name:      "transaction_duration_seconds",
			Help:      "Processing time of a transaction by phase and message path.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrHuman, "cannot register metrics: %s", err)
		}
	}
	return m, nil
}

// Check counts the check phase of a transaction.
func (m *Metrics) Check(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", vault.GetPath(tx), start, err)
	return res, err
}

// Deliver counts the deliver phase of a transaction.
func (m *Metrics) Deliver(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", vault.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
