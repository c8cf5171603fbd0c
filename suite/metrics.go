package suite

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	fromLabel    = "from"
	toLabel      = "to"
	screenLabel  = "screen"
	gestureLabel = "gesture"
)

var (
	navigatorCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "navigator_count",
		Help: "The number of active navigators.",
	})

	screenSwitchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screen_switch_total",
		Help: "The total number of screen switches.",
	}, []string{fromLabel, toLabel})

	gestureTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gesture_total",
		Help: "The total number of classified gestures.",
	}, []string{screenLabel, gestureLabel})
)

func instrumentIncreaseNavigatorGauge() {
	navigatorCount.Inc()
}

func instrumentDecreaseNavigatorGauge() {
	navigatorCount.Dec()
}

func instrumentScreenSwitch(from, to string) {
	screenSwitchTotal.
		With(prometheus.Labels{fromLabel: from, toLabel: to}).
		Inc()
}

func instrumentGesture(screen, gesture string) {
	gestureTotal.
		With(prometheus.Labels{screenLabel: screen, gestureLabel: gesture}).
		Inc()
}
