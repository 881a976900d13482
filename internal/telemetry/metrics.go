package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/filedepot"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Upload metrics
	FilesUploadedTotal  metric.Int64Counter
	UploadBytesTotal    metric.Int64Counter
	UploadErrorsTotal   metric.Int64Counter
	UploadDuration      metric.Float64Histogram

	// Download metrics
	DownloadsRecordedTotal metric.Int64Counter
	DownloadBytesTotal     metric.Int64Counter
	MissingBlobsTotal      metric.Int64Counter
	DownloadDuration       metric.Float64Histogram

	// Auth metrics
	LoginsTotal       metric.Int64Counter
	LoginFailedTotal  metric.Int64Counter
	SessionsRevokedTotal metric.Int64Counter

	// Store operation metrics
	StoreErrorsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	// Upload metrics
	m.FilesUploadedTotal, _ = meter.Int64Counter(
		"filedepot.files.uploaded.total",
		metric.WithDescription("Total number of files uploaded"),
		metric.WithUnit("{file}"),
	)

	m.UploadBytesTotal, _ = meter.Int64Counter(
		"filedepot.files.uploaded.bytes.total",
		metric.WithDescription("Total bytes written to blob storage by uploads"),
		metric.WithUnit("By"),
	)

	m.UploadErrorsTotal, _ = meter.Int64Counter(
		"filedepot.files.upload.errors.total",
		metric.WithDescription("Total number of failed upload attempts"),
		metric.WithUnit("{error}"),
	)

	m.UploadDuration, _ = meter.Float64Histogram(
		"filedepot.files.upload.duration",
		metric.WithDescription("Duration of upload operations"),
		metric.WithUnit("ms"),
	)

	// Download metrics
	m.DownloadsRecordedTotal, _ = meter.Int64Counter(
		"filedepot.downloads.recorded.total",
		metric.WithDescription("Total number of download events recorded"),
		metric.WithUnit("{download}"),
	)

	m.DownloadBytesTotal, _ = meter.Int64Counter(
		"filedepot.downloads.bytes.total",
		metric.WithDescription("Total bytes served from blob storage"),
		metric.WithUnit("By"),
	)

	m.MissingBlobsTotal, _ = meter.Int64Counter(
		"filedepot.downloads.missing_blobs.total",
		metric.WithDescription("Total number of downloads where the blob was missing from storage"),
		metric.WithUnit("{download}"),
	)

	m.DownloadDuration, _ = meter.Float64Histogram(
		"filedepot.downloads.duration",
		metric.WithDescription("Duration of download operations"),
		metric.WithUnit("ms"),
	)

	// Auth metrics
	m.LoginsTotal, _ = meter.Int64Counter(
		"filedepot.auth.logins.total",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)

	m.LoginFailedTotal, _ = meter.Int64Counter(
		"filedepot.auth.logins.failed.total",
		metric.WithDescription("Total number of failed login attempts"),
		metric.WithUnit("{login}"),
	)

	m.SessionsRevokedTotal, _ = meter.Int64Counter(
		"filedepot.auth.sessions.revoked.total",
		metric.WithDescription("Total number of sessions revoked by logout"),
		metric.WithUnit("{session}"),
	)

	// Store operation metrics
	m.StoreErrorsTotal, _ = meter.Int64Counter(
		"filedepot.store.errors.total",
		metric.WithDescription("Total number of unexpected store errors"),
		metric.WithUnit("{error}"),
	)

	return m
}
