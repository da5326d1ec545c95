package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SpecialRule selects an item-specific computation that overrides plain
// aggregation for a line item.
type SpecialRule string

const (
	// RuleNone means plain direct aggregation or formula evaluation.
	RuleNone SpecialRule = ""
	// RuleSignedGroups sums several prefix groups, each weighted +1 or -1,
	// over the current period only (CAFG-style items).
	RuleSignedGroups SpecialRule = "signed_groups"
	// RuleOpeningTreasury computes active minus passive treasury balances
	// over the prior period (current period when no prior exists).
	RuleOpeningTreasury SpecialRule = "opening_treasury"
	// RuleClosingTreasury computes opening treasury plus the net period
	// variation from already-evaluated items.
	RuleClosingTreasury SpecialRule = "closing_treasury"
)

// SignedGroup is one prefix group of a RuleSignedGroups item with its weight.
type SignedGroup struct {
	Prefixes []string `yaml:"prefixes"`
	Sign     int      `yaml:"sign"`
}

// LineItemSpec is the static definition of one TFT row. Items are evaluated
// in declaration order; a formula may only reference refs declared earlier.
type LineItemSpec struct {
	Ref             string        `yaml:"ref"`
	Label           string        `yaml:"label"`
	Prefixes        []string      `yaml:"prefixes,omitempty"`
	Formula         string        `yaml:"formula,omitempty"`
	Rule            SpecialRule   `yaml:"rule,omitempty"`
	SignedGroups    []SignedGroup `yaml:"signed_groups,omitempty"`
	ActivePrefixes  []string      `yaml:"active_prefixes,omitempty"`
	PassivePrefixes []string      `yaml:"passive_prefixes,omitempty"`
}

// LineItemResult is the computed output for one LineItemSpec. The JSON keys
// mirror the payload persisted by the legacy reporting backend so existing
// consumers of tft_json keep working.
type LineItemResult struct {
	Ref            string          `json:"ref"`
	Label          string          `json:"libelle"`
	Amount         decimal.Decimal `json:"montant"`
	BalanceCurrent decimal.Decimal `json:"solde_n"`
	BalancePrior   decimal.Decimal `json:"solde_n1"`
	Variation      decimal.Decimal `json:"variation"`
	DebitCurrent   decimal.Decimal `json:"debit_n"`
	CreditCurrent  decimal.Decimal `json:"credit_n"`
	Formula        string          `json:"formule,omitempty"`
	MatchedRows    []AccountRow    `json:"comptes,omitempty"`
}

// TFTTable is the ordered collection of line-item results keyed by ref.
type TFTTable struct {
	rows  []LineItemResult
	byRef map[string]int
}

// NewTFTTable returns an empty table.
func NewTFTTable() *TFTTable {
	return &TFTTable{byRef: make(map[string]int)}
}

// Append adds a result, overwriting any earlier result with the same ref.
func (t *TFTTable) Append(r LineItemResult) {
	if i, ok := t.byRef[r.Ref]; ok {
		t.rows[i] = r
		return
	}
	t.byRef[r.Ref] = len(t.rows)
	t.rows = append(t.rows, r)
}

// Get returns the result for ref, if present.
func (t *TFTTable) Get(ref string) (LineItemResult, bool) {
	i, ok := t.byRef[ref]
	if !ok {
		return LineItemResult{}, false
	}
	return t.rows[i], true
}

// Amount returns the computed amount for ref, or zero when absent.
func (t *TFTTable) Amount(ref string) decimal.Decimal {
	if r, ok := t.Get(ref); ok {
		return r.Amount
	}
	return decimal.Zero
}

// Rows returns the results in evaluation order.
func (t *TFTTable) Rows() []LineItemResult {
	return t.rows
}

// Refs returns the refs in evaluation order.
func (t *TFTTable) Refs() []string {
	refs := make([]string, len(t.rows))
	for i, r := range t.rows {
		refs[i] = r.Ref
	}
	return refs
}

// Len returns the number of results in the table.
func (t *TFTTable) Len() int {
	return len(t.rows)
}

// MarshalJSON renders the table as its ordered rows.
func (t *TFTTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.rows)
}
