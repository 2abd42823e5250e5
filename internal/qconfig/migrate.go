package qconfig

import "github.com/parisxmas/partnerhub/internal/codec"

// legacyGateStatusField predates the per-gate progress map. Records
// written before the migration may still carry it.
const legacyGateStatusField = "gateStatus"

// AuditEvent records one migration applied to a stored payload.
type AuditEvent struct {
	Field string
	Value any
	At    codec.Timestamp
}

// AuditSink receives migration audit events. Tests assert on the
// events instead of scraping log output.
type AuditSink func(AuditEvent)

// StripLegacyGateStatus returns a migration function for the partner
// repository: it removes the deprecated gateStatus field from a
// record's undeclared payload fields and reports the removal to sink.
// All other fields pass through untouched.
func StripLegacyGateStatus(sink AuditSink) func(map[string]any) map[string]any {
	return func(extra map[string]any) map[string]any {
		value, ok := extra[legacyGateStatusField]
		if !ok {
			return extra
		}
		delete(extra, legacyGateStatusField)
		if sink != nil {
			sink(AuditEvent{Field: legacyGateStatusField, Value: value, At: codec.Now()})
		}
		if len(extra) == 0 {
			return nil
		}
		return extra
	}
}
