package models

import "github.com/parisxmas/partnerhub/internal/codec"

// Gate is a named stage in a partner's lifecycle.
type Gate string

const (
	GatePreContract Gate = "pre-contract"
	Gate0           Gate = "gate-0"
	Gate1           Gate = "gate-1"
	Gate2           Gate = "gate-2"
	Gate3           Gate = "gate-3"
	GatePostLaunch  Gate = "post-launch"
)

// Gates lists every lifecycle gate in order.
var Gates = []Gate{GatePreContract, Gate0, Gate1, Gate2, Gate3, GatePostLaunch}

// Valid reports whether g is a known lifecycle gate.
func (g Gate) Valid() bool {
	for _, known := range Gates {
		if g == known {
			return true
		}
	}
	return false
}

// GateProgress is the per-gate progress data on a partner record.
type GateProgress struct {
	Status      string          `json:"status"`
	EnteredAt   codec.Timestamp `json:"enteredAt"`
	CompletedAt codec.Timestamp `json:"completedAt"`
	Notes       string          `json:"notes,omitempty"`
}

// PartnerRecord is a partner in the lifecycle program. The store
// treats it as a full-record document: saves always overwrite the
// whole record, and the caller owns the UpdatedAt >= CreatedAt
// invariant.
type PartnerRecord struct {
	ID           string                `json:"id"`
	PartnerName  string                `json:"partnerName"`
	PAMOwner     string                `json:"pamOwner,omitempty"`
	PDMOwner     string                `json:"pdmOwner,omitempty"`
	PSMOwner     string                `json:"psmOwner,omitempty"`
	TAMOwner     string                `json:"tamOwner,omitempty"`
	ContractType string                `json:"contractType,omitempty"`
	Tier         string                `json:"tier,omitempty"`
	CCV          int64                 `json:"ccv"`
	LRP          int64                 `json:"lrp"`
	CurrentGate  Gate                  `json:"currentGate"`
	Gates        map[Gate]GateProgress `json:"gates,omitempty"`
	CreatedAt    codec.Timestamp       `json:"createdAt"`
	UpdatedAt    codec.Timestamp       `json:"updatedAt"`

	// Extra carries payload fields this schema does not declare, so
	// records written by newer schema versions round-trip intact.
	Extra map[string]any `json:"-"`
}
