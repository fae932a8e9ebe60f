package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shopgen"

// Catalog line outcomes.
const (
	LineLoaded     = "loaded"
	LineMalformed  = "malformed"
	LineIncomplete = "incomplete"
	LineBlank      = "blank"
)

// GenerationMetrics counts the records produced by the generators.
type GenerationMetrics struct {
	customers *prometheus.CounterVec
	baskets   *prometheus.CounterVec
	lineItems prometheus.Counter
	lines     *prometheus.CounterVec
}

// NewGenerationMetrics registers the generation counters on reg. A nil
// registerer yields a collector whose methods are no-ops.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		return &GenerationMetrics{}
	}
	customers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_generated_total",
		Help:      "Customers generated, by tier.",
	}, []string{"tier"})
	baskets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "baskets_generated_total",
		Help:      "Baskets generated, by status.",
	}, []string{"status"})
	lineItems := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "line_items_generated_total",
		Help:      "Basket line items or enriched listings generated.",
	})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "input_lines_total",
		Help:      "JSONL input lines read, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(customers, baskets, lineItems, lines)
	return &GenerationMetrics{
		customers: customers,
		baskets:   baskets,
		lineItems: lineItems,
		lines:     lines,
	}
}

func (g *GenerationMetrics) IncCustomer(tier string) {
	if g == nil || g.customers == nil {
		return
	}
	g.customers.WithLabelValues(normalizeLabel(tier)).Inc()
}

func (g *GenerationMetrics) IncBasket(status string) {
	if g == nil || g.baskets == nil {
		return
	}
	g.baskets.WithLabelValues(normalizeLabel(status)).Inc()
}

func (g *GenerationMetrics) AddLineItems(n int) {
	if g == nil || g.lineItems == nil || n <= 0 {
		return
	}
	g.lineItems.Add(float64(n))
}

func (g *GenerationMetrics) IncInputLine(outcome string) {
	if g == nil || g.lines == nil {
		return
	}
	g.lines.WithLabelValues(normalizeLabel(outcome)).Inc()
}
