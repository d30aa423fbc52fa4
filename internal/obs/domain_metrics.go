package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts checkout quote computations by outcome.
	QuoteTotal *prometheus.CounterVec
	// QuoteDuration records quote computation latency in milliseconds.
	QuoteDuration prometheus.Histogram
	// VoucherSelectedTotal counts which voucher kinds end up applied in quotes.
	VoucherSelectedTotal *prometheus.CounterVec
	// CatalogCacheTotal counts voucher catalog cache lookups by outcome.
	CatalogCacheTotal *prometheus.CounterVec
	// CatalogRefreshTotal counts catalog cache refresh task outcomes.
	CatalogRefreshTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_quote_total",
			Help:      "Count of checkout quote computations by outcome.",
		}, []string{"result"})
		QuoteDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_quote_duration_ms",
			Help:      "Latency of checkout quote computations in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		})
		VoucherSelectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_selected_total",
			Help:      "Count of vouchers applied to quotes, by discount kind.",
		}, []string{"kind"})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_catalog_cache_total",
			Help:      "Voucher catalog cache lookups by outcome.",
		}, []string{"outcome"})
		CatalogRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_catalog_refresh_total",
			Help:      "Catalog cache refresh task outcomes.",
		}, []string{"result"})

		registerDomainCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		registerDomainCollector(reg, QuoteDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteDuration = v
			}
		})
		registerDomainCollector(reg, VoucherSelectedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				VoucherSelectedTotal = v
			}
		})
		registerDomainCollector(reg, CatalogCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogCacheTotal = v
			}
		})
		registerDomainCollector(reg, CatalogRefreshTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogRefreshTotal = v
			}
		})
	})
}

func registerDomainCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
