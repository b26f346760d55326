// Package metrics exposes build observability hooks.
//
// The pipeline talks to a Recorder. NoopRecorder is the default; the CLI
// swaps in a PrometheusRecorder when --metrics-file is given and writes the
// gathered values once the build finishes:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	pipeline := build.New(opts, build.WithRecorder(rec))
//	_, err := pipeline.Run(ctx)
//	_ = rec.WriteTextfile("victor.prom")
package metrics
