package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	screenLabel = "screen"
)

var (
	cursorActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cursor_active",
		Help: "The number of tracked cursors.",
	}, []string{screenLabel})

	cursorAddedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cursor_added_total",
		Help: "The total number of cursors that started being tracked.",
	}, []string{screenLabel})

	cursorDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cursor_dropped_total",
		Help: "The total number of touch reports dropped because every slot was assigned.",
	}, []string{screenLabel})
)

func instrumentCursorActive(screen string, delta int) {
	if delta == 0 || screen == "" {
		return
	}

	cursorActive.
		With(prometheus.Labels{screenLabel: screen}).
		Add(float64(delta))
}

func instrumentCursorAdded(screen string, n int) {
	if n == 0 || screen == "" {
		return
	}

	cursorAddedTotal.
		With(prometheus.Labels{screenLabel: screen}).
		Add(float64(n))
}

func instrumentCursorDropped(screen string, n int) {
	if n == 0 || screen == "" {
		return
	}

	cursorDroppedTotal.
		With(prometheus.Labels{screenLabel: screen}).
		Add(float64(n))
}
