package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// levelCounter is a zerolog.Hook counting events per level.
type levelCounter struct{}

// Run implements zerolog.Hook.
func (levelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		statements.WithLabelValues(level.String()).Inc()
	}
}

// newLevelCounter registers rbac_log_statements_total on first use. The
// service and app labels are fixed by the first call, later Init calls
// keep counting into the same series.
func newLevelCounter(service, app string) levelCounter {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "rbac_log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service, "app": app},
			},
			[]string{"level"},
		)
	})

	return levelCounter{}
}
