package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automod_detections_total",
			Help: "Messages matched by a detector, by detection kind",
		},
		[]string{"kind"},
	)

	punishmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automod_punishments_total",
			Help: "Punishments executed, by action",
		},
		[]string{"action"},
	)

	messagesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "automod_messages_processed_total",
			Help: "Messages run through the detection coordinator",
		},
	)
)

// Register installs the automod collectors on the default registry.
// Call once at startup.
func Register() {
	prometheus.MustRegister(detectionsTotal, punishmentsTotal, messagesProcessed)
}

// Handler serves the default registry, mounted on the health listener.
func Handler() http.Handler {
	return promhttp.Handler()
}

func MessageProcessed() {
	messagesProcessed.Inc()
}

func DetectionMatched(kind string) {
	detectionsTotal.WithLabelValues(kind).Inc()
}

func PunishmentApplied(action string) {
	punishmentsTotal.WithLabelValues(action).Inc()
}
