package qconfig_test

import (
	"testing"

	"github.com/parisxmas/partnerhub/internal/qconfig"
)

func TestStripLegacyGateStatus(t *testing.T) {
	var events []qconfig.AuditEvent
	migrate := qconfig.StripLegacyGateStatus(func(ev qconfig.AuditEvent) {
		events = append(events, ev)
	})

	out := migrate(map[string]any{"gateStatus": "gate-1-active", "other": "x"})
	if _, still := out["gateStatus"]; still {
		t.Fatal("gateStatus not stripped")
	}
	if out["other"] != "x" {
		t.Fatalf("unrelated field touched: %v", out)
	}
	if len(events) != 1 || events[0].Field != "gateStatus" || events[0].Value != "gate-1-active" {
		t.Fatalf("unexpected audit events %+v", events)
	}
	if events[0].At.IsZero() {
		t.Fatal("audit event missing timestamp")
	}
}

func TestStripLegacyGateStatusNoField(t *testing.T) {
	calls := 0
	migrate := qconfig.StripLegacyGateStatus(func(qconfig.AuditEvent) { calls++ })

	out := migrate(map[string]any{"other": 1})
	if out["other"] != 1 {
		t.Fatalf("clean payload modified: %v", out)
	}
	if calls != 0 {
		t.Fatal("audit emitted without a migration")
	}

	if migrate(nil) != nil {
		t.Fatal("nil extras should stay nil")
	}
}

func TestStripLegacyGateStatusEmptiesToNil(t *testing.T) {
	migrate := qconfig.StripLegacyGateStatus(nil)

	out := migrate(map[string]any{"gateStatus": "x"})
	if out != nil {
		t.Fatalf("expected nil after stripping the only field, got %v", out)
	}
}
