package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phase labels for AnalysisDuration.
const (
	PhaseLoad    = "load"
	PhaseExtract = "extract"
)

// Result labels for AnalysesTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics definitions
var (
	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "injectgraph_analysis_seconds",
		Help:    "Time spent per analysis phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "injectgraph_analyses_total",
		Help: "Total number of analyses run, by result.",
	}, []string{"result"})

	UnitsParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injectgraph_units_parsed_total",
		Help: "Total number of source units parsed.",
	})

	UnitsWithErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injectgraph_units_syntax_errors_total",
		Help: "Total number of parsed source units containing syntax errors.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "injectgraph_graph_nodes",
		Help: "Number of nodes in the last extracted dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "injectgraph_graph_edges",
		Help: "Number of edges in the last extracted dependency graph.",
	})
)
