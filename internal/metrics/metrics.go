package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PhoneProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phoneeng_phone_processed_total",
			Help: "Phone numbers processed by outcome and resolved dial code",
		},
		[]string{"outcome", "country"}, // valid|empty_input|unsupported_country|invalid_national_number , +218|...
	)

	ContactActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phoneeng_contact_actions_total",
			Help: "Contact actions lifecycle counter by stage and intent",
		},
		[]string{"stage", "intent"}, // queued|delivered|failed , call|whatsapp|copy
	)

	registerOnce sync.Once
)

// MustRegister registers the collectors once per process; serve and the
// worker may both call it.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			PhoneProcessedTotal,
			ContactActionsTotal,
		)
	})
}

// ObservePhone records one processing outcome.
func ObservePhone(outcome, dialCode string) {
	if outcome == "" {
		outcome = "valid"
	}
	if dialCode == "" {
		dialCode = "none"
	}
	PhoneProcessedTotal.WithLabelValues(outcome, dialCode).Inc()
}
