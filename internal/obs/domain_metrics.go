package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingAdjustmentsTotal counts bulk price requests by terminal outcome.
	PricingAdjustmentsTotal *prometheus.CounterVec
	// PricingProductsRepriced counts products whose price was committed by a bulk adjustment.
	PricingProductsRepriced prometheus.Counter
	// PricingCommitLatency records bulk commit latency in milliseconds.
	PricingCommitLatency prometheus.Histogram
	// InquiriesTotal counts captured customer inquiries by source.
	InquiriesTotal *prometheus.CounterVec
	// CatalogCacheTotal counts catalog cache lookups by result.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingAdjustmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_adjustments_total",
			Help:      "Count of bulk price adjustment requests by outcome.",
		}, []string{"outcome"})
		PricingProductsRepriced = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_products_repriced_total",
			Help:      "Number of product prices written by committed bulk adjustments.",
		})
		PricingCommitLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_commit_duration_ms",
			Help:      "Latency of bulk price commits in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		})
		InquiriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiries_total",
			Help:      "Count of captured customer inquiries by source.",
		}, []string{"source"})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by result.",
		}, []string{"result"})

		PricingAdjustmentsTotal = register(reg, PricingAdjustmentsTotal)
		PricingProductsRepriced = register(reg, PricingProductsRepriced)
		PricingCommitLatency = register(reg, PricingCommitLatency)
		InquiriesTotal = register(reg, InquiriesTotal)
		CatalogCacheTotal = register(reg, CatalogCacheTotal)
	})
}

// ObservePricingOutcome increments the adjustment counter when metrics are registered.
func ObservePricingOutcome(outcome string) {
	if PricingAdjustmentsTotal != nil {
		PricingAdjustmentsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveInquiry increments the inquiry counter when metrics are registered.
func ObserveInquiry(source string) {
	if InquiriesTotal != nil {
		InquiriesTotal.WithLabelValues(source).Inc()
	}
}

// ObserveCatalogCache records a cache hit or miss when metrics are registered.
func ObserveCatalogCache(hit bool) {
	if CatalogCacheTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	CatalogCacheTotal.WithLabelValues(result).Inc()
}
