package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ragfair"

// Collector считает сгенерированные лоты, пропущенные наборы и синхронизации торговцев.
type Collector struct {
	generated  *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	traderSync *prometheus.CounterVec
}

// NewCollector registers the counters and, when count is not nil, the
// ragfair_offers_active gauge backed by it.
func NewCollector(reg prometheus.Registerer, count func() int) (*Collector, error) {
	c := &Collector{
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_generated_total",
			Help:      "Offers created by dynamic generation and trader sync.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bundles_skipped_total",
			Help:      "Candidate bundles rejected before generation.",
		}, []string{"reason"}),
		traderSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trader_sync_total",
			Help:      "Trader assort synchronisations by result.",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{c.generated, c.skipped, c.traderSync}

	if count != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "offers_active",
			Help:      "Offers currently listed.",
		}, func() float64 {
			return float64(count())
		}))
	}

	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) OfferGenerated(kind string) {
	c.generated.WithLabelValues(kind).Inc()
}

func (c *Collector) BundleSkipped(reason string) {
	c.skipped.WithLabelValues(reason).Inc()
}

func (c *Collector) TraderSynced(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}

	c.traderSync.WithLabelValues(result).Inc()
}
