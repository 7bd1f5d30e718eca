package metrics

import "github.com/prometheus/client_golang/prometheus"

// BillingMetrics tracks bill creation outcomes.
type BillingMetrics struct {
	billsCreated *prometheus.CounterVec
	billAmount   prometheus.Histogram
	billFailures *prometheus.CounterVec
}

func NewBillingMetrics() *BillingMetrics {
	m := &BillingMetrics{
		billsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinebill",
			Subsystem: "billing",
			Name:      "bills_created_total",
			Help:      "Bills committed, by payment method.",
		}, []string{"payment_method"}),
		billAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dinebill",
			Subsystem: "billing",
			Name:      "bill_total_amount",
			Help:      "Distribution of committed bill totals in currency units.",
			Buckets:   prometheus.ExponentialBuckets(10, 2.5, 10),
		}),
		billFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinebill",
			Subsystem: "billing",
			Name:      "bill_failures_total",
			Help:      "Bill creation failures, by error kind.",
		}, []string{"kind"}),
	}
	prometheus.MustRegister(m.billsCreated, m.billAmount, m.billFailures)
	return m
}

func (m *BillingMetrics) RecordBill(paymentMethod string, total float64) {
	if m == nil {
		return
	}
	m.billsCreated.WithLabelValues(paymentMethod).Inc()
	m.billAmount.Observe(total)
}

func (m *BillingMetrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.billFailures.WithLabelValues(kind).Inc()
}
