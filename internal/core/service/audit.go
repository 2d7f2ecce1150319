package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/pkg/metrics"
	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/ports"
)

const anonymousActor = "anonymous"

// recordWrite counts a successful write and appends it to the audit trail.
// Audit failures are logged and never surface to the caller.
func recordWrite(ctx context.Context, audit ports.AuditRepository, log zerolog.Logger, entry domain.AuditEntry) {
	metrics.RecordWritesTotal.WithLabelValues(entry.Resource, string(entry.Action)).Inc()

	if audit == nil {
		return
	}
	if entry.Actor == "" {
		entry.Actor = anonymousActor
	}
	if err := audit.Record(ctx, entry); err != nil {
		metrics.AuditFailuresTotal.Inc()
		log.Warn().Err(err).
			Str("resource", entry.Resource).
			Str("record_id", entry.RecordID).
			Msg("failed to write audit entry")
	}
}

// storeTime truncates to the millisecond precision of BSON datetimes so values
// returned to callers match what a later read yields.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// nextModified returns a modification time strictly after prev.
func nextModified(prev, now time.Time) time.Time {
	now = storeTime(now)
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
