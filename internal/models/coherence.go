package models

import "github.com/shopspring/decimal"

// CoherenceDetails holds the raw figures of the top-level reconciliation.
// JSON keys match the coherence_json payload of the legacy backend.
type CoherenceDetails struct {
	FlowOperating decimal.Decimal `json:"flux_operationnels"`
	FlowInvesting decimal.Decimal `json:"flux_investissement"`
	FlowFinancing decimal.Decimal `json:"flux_financement"`
	TreasuryOpen  decimal.Decimal `json:"treso_ouverture"`
	TreasuryClose decimal.Decimal `json:"treso_cloture"`
}

// VariationViaFlows is the treasury variation implied by the flow sections.
func (d CoherenceDetails) VariationViaFlows() decimal.Decimal {
	return d.FlowOperating.Add(d.FlowInvesting).Add(d.FlowFinancing)
}

// VariationViaTreasury is the observed change between opening and closing
// treasury.
func (d CoherenceDetails) VariationViaTreasury() decimal.Decimal {
	return d.TreasuryClose.Sub(d.TreasuryOpen)
}

// CoherenceReport is the outcome of the internal-consistency check on a
// computed TFT.
type CoherenceReport struct {
	IsCoherent      bool             `json:"is_coherent"`
	SectionWarnings []string         `json:"section_warnings,omitempty"`
	Advisories      []string         `json:"advisories,omitempty"`
	Details         CoherenceDetails `json:"details"`
}
