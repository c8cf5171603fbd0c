package touch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusLabel = "status"

	frameAccepted = "accepted"
	frameStale    = "stale"
)

var (
	touchFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "touch_frames_total",
		Help: "The total number of touch frames pushed to buffers.",
	}, []string{statusLabel})
)

func instrumentFrame(status string) {
	touchFramesTotal.
		With(prometheus.Labels{statusLabel: status}).
		Inc()
}
