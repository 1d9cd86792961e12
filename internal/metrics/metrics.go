package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Collector exposes application-level Prometheus instruments.
type Collector struct {
	workflowRuns         *prometheus.CounterVec
	workflowFailures     *prometheus.CounterVec
	compensations        *prometheus.CounterVec
	compensationFailures *prometheus.CounterVec
}

var Module = fx.Module("metrics",
	fx.Provide(NewCollector),
)

// NewCollector registers the rosterd instruments on the default registry.
func NewCollector() *Collector {
	c := &Collector{
		workflowRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_workflow_runs_total",
			Help: "Workflow executions by name and outcome.",
		}, []string{"workflow", "outcome"}),
		workflowFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_workflow_step_failures_total",
			Help: "Forward step failures by workflow and step.",
		}, []string{"workflow", "step"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_compensations_total",
			Help: "Compensating actions attempted by workflow.",
		}, []string{"workflow"}),
		compensationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rosterd_compensation_failures_total",
			Help: "Compensating actions that themselves failed by workflow.",
		}, []string{"workflow"}),
	}

	prometheus.MustRegister(
		c.workflowRuns,
		c.workflowFailures,
		c.compensations,
		c.compensationFailures,
	)

	return c
}

// RecordWorkflow records a finished workflow run.
func (c *Collector) RecordWorkflow(workflow string, succeeded bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	c.workflowRuns.WithLabelValues(workflow, outcome).Inc()
}

// RecordStepFailure records a forward step failure.
func (c *Collector) RecordStepFailure(workflow, step string) {
	if c == nil {
		return
	}
	c.workflowFailures.WithLabelValues(workflow, step).Inc()
}

// RecordCompensations records rollback activity for a failed workflow.
func (c *Collector) RecordCompensations(workflow string, attempted, failed int) {
	if c == nil {
		return
	}
	c.compensations.WithLabelValues(workflow).Add(float64(attempted))
	if failed > 0 {
		c.compensationFailures.WithLabelValues(workflow).Add(float64(failed))
	}
}
