package models

import "github.com/shopspring/decimal"

// CategorySpec names one supporting-ledger group ("feuille maîtresse") and
// the account-number prefixes it aggregates.
type CategorySpec struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
}

// ComparisonRow carries both periods' balances for one account appearing in
// either period, with the variation and percentage change.
type ComparisonRow struct {
	AccountNumber  string          `json:"account_number"`
	Label          string          `json:"account_label,omitempty"`
	BalanceCurrent decimal.Decimal `json:"solde_n"`
	BalancePrior   decimal.Decimal `json:"solde_n1"`
	Variation      decimal.Decimal `json:"variation"`
	Percentage     decimal.Decimal `json:"pourcentage"`
}

// CategoryLedger is the computed supporting ledger for one category:
// the matched rows per period plus a period-over-period comparison view.
type CategoryLedger struct {
	Name           string          `json:"name"`
	Prefixes       []string        `json:"prefixes"`
	BalanceCurrent decimal.Decimal `json:"solde_n"`
	BalancePrior   decimal.Decimal `json:"solde_n1"`
	Variation      decimal.Decimal `json:"variation"`
	CurrentRows    []AccountRow    `json:"comptes_n"`
	PriorRows      []AccountRow    `json:"comptes_n1"`
	Comparison     []ComparisonRow `json:"comparaison"`
}
