package generator

import (
	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pendingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "generator_pending_jobs",
		Help: "Count of jobs waiting for transcription"})
	runningGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "generator_running_jobs",
		Help: "Count of jobs being transcribed"})
	completedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_completed_total",
		Help: "Count of completed transcriptions"})
	failedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_failed_total",
		Help: "Count of failed transcriptions"})
	durationHist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generator_duration_seconds",
		Help:    "Transcription duration",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800}})
)

func init() {
	for _, m := range []prometheus.Collector{pendingGauge, runningGauge, completedCounter,
		failedCounter, durationHist} {
		cmdapp.LogIf(metrics.Register(m))
	}
}

func updateQueueMetrics(js *jobs) {
	pendingGauge.Set(float64(js.pendingCount()))
	runningGauge.Set(float64(js.runningCount()))
}
