package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowcanvas_commands_enqueued_total",
		Help: "Total number of editor commands placed on a session queue.",
	})

	CommandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowcanvas_commands_processed_total",
		Help: "Total number of editor commands run, labelled by status.",
	}, []string{"status"})

	CommandsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowcanvas_commands_dropped_total",
		Help: "Total number of commands rejected due to a full session queue.",
	})

	CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowcanvas_command_duration_ms",
		Help:    "Time from enqueue to completion of a command in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowcanvas_events_dispatched_total",
		Help: "Total number of editor events dispatched, labelled by event name.",
	}, []string{"event"})

	StreamFramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowcanvas_stream_frames_dropped_total",
		Help: "Events not delivered to a slow stream subscriber.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowcanvas_sessions_active",
		Help: "Number of open editor sessions.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowcanvas_queue_utilization_ratio",
		Help: "Highest command queue utilization across sessions (0–1).",
	})

	ImportsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowcanvas_imports_rejected_total",
		Help: "Total number of serialized graphs rejected on import.",
	})
)
