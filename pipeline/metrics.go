package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedstitch_pipeline_runs_total",
		Help: "Pipeline runs by result (success, failure)",
	}, []string{"result"})

	pipelineCascades = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstitch_pipeline_cascades_total",
		Help: "Runs in which a merged item pointed at a record to resolve",
	})

	skippedEndpoints = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedstitch_pipeline_skipped_endpoints_total",
		Help: "Configured endpoints skipped because they could not be parsed",
	})
)
