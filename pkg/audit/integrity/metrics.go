package integrity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditRecordsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warden_audit_log_records",
		Help: "Number of parseable records in the audit log at the last sweep",
	})

	auditMalformedLines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warden_audit_log_malformed_lines",
		Help: "Number of malformed lines in the audit log at the last sweep",
	})

	auditDuplicateIDs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warden_audit_log_duplicate_ids",
		Help: "Number of duplicate audit ids found at the last sweep",
	})

	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_audit_integrity_sweeps_total",
		Help: "Total number of audit log integrity sweeps performed",
	})
)
