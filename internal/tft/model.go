// Package tft evaluates the SYSCOHADA statement of cash flows ("Tableau des
// Flux de Trésorerie"): an ordered model of line items, each computed from
// account balances by direct aggregation, by an item-specific rule, or by a
// formula over previously computed items.
package tft

import "jkouame/tft-engine/internal/models"

// Treasury account prefixes under the SYSCOHADA chart. Active treasury is
// cash and equivalents held; passive treasury is bank overdrafts and
// discount credits (56x).
var (
	treasuryActivePrefixes = []string{
		"501", "502", "503", "504", "505", "506",
		"521", "522", "523", "524",
		"531", "532", "533",
		"541", "542",
	}
	treasuryPassivePrefixes = []string{"561", "564", "565"}
)

// DefaultModel returns the canonical TFT line-item table. The prefixes and
// formulas consolidate the last observed mapping intent of the legacy
// reporting backend into a single table; alternate historical tables can be
// expressed as named variants through the mapping store instead of code
// copies.
//
// Evaluation order matters: a formula may only reference refs that appear
// earlier in this slice.
func DefaultModel() []models.LineItemSpec {
	return []models.LineItemSpec{
		{
			Ref:             models.RefOpeningTreasury,
			Label:           "Trésorerie nette au 1er janvier",
			Rule:            models.RuleOpeningTreasury,
			ActivePrefixes:  treasuryActivePrefixes,
			PassivePrefixes: treasuryPassivePrefixes,
		},
		{
			Ref:   models.RefCAFG,
			Label: "Capacité d'Autofinancement Globale (CAFG)",
			Rule:  models.RuleSignedGroups,
			SignedGroups: []models.SignedGroup{
				{Prefixes: []string{"70", "71", "72", "74"}, Sign: +1},
				{Prefixes: []string{"60", "61", "62", "63", "64", "65"}, Sign: -1},
				// Disposal adjustments: book value of assets sold adds
				// back, disposal proceeds and provision reversals subtract.
				{Prefixes: []string{"675"}, Sign: +1},
				{Prefixes: []string{"775", "781", "791"}, Sign: -1},
			},
		},
		{
			Ref:      models.RefHAOAssets,
			Label:    "Variation de l'actif circulant HAO",
			Prefixes: []string{"48"},
		},
		{
			Ref:      models.RefInventories,
			Label:    "Variation des stocks",
			Prefixes: []string{"31", "32", "33", "34", "35", "36", "37"},
		},
		{
			Ref:      models.RefReceivables,
			Label:    "Variation des créances",
			Prefixes: []string{"41"},
		},
		{
			Ref:      models.RefPayables,
			Label:    "Variation du passif circulant",
			Prefixes: []string{"40", "44", "45", "46"},
		},
		{
			Ref:     models.RefWorkingCapital,
			Label:   "Variation du BF lié aux activités opérationnelles",
			Formula: "FB+FC+FD-FE",
		},
		{
			Ref:     models.RefFlowOperating,
			Label:   "Flux de trésorerie provenant des activités opérationnelles",
			Formula: "FA+FB+FC+FD+FE",
		},
		{
			Ref:      models.RefIntangibleAcq,
			Label:    "Décaissements liés aux acquisitions d'immobilisations incorporelles",
			Prefixes: []string{"20"},
		},
		{
			Ref:      models.RefTangibleAcq,
			Label:    "Décaissements liés aux acquisitions d'immobilisations corporelles",
			Prefixes: []string{"21"},
		},
		{
			Ref:      models.RefFinancialAcq,
			Label:    "Décaissements liés aux acquisitions d'immobilisations financières",
			Prefixes: []string{"26", "27"},
		},
		{
			Ref:      models.RefAssetDisposals,
			Label:    "Encaissements liés aux cessions d'immobilisations incorporelles et corporelles",
			Prefixes: []string{"20", "21"},
		},
		{
			Ref:      models.RefFinDisposals,
			Label:    "Encaissements liés aux cessions d'immobilisations financières",
			Prefixes: []string{"26", "27"},
		},
		{
			Ref:     models.RefFlowInvesting,
			Label:   "Flux de trésorerie provenant des activités d'investissement",
			Formula: "FF+FG+FH+FI+FJ",
		},
		{
			Ref:      models.RefCapitalIn,
			Label:    "Encaissements provenant de capital apporté nouveaux",
			Prefixes: []string{"10", "11", "12", "13", "14"},
		},
		{
			Ref:      models.RefSubsidies,
			Label:    "Encaissements provenant de subventions reçues",
			Prefixes: []string{"14"},
		},
		{
			Ref:      models.RefDividendsPaid,
			Label:    "Dividendes versés",
			Prefixes: []string{"457", "108", "675", "775"},
		},
		{
			Ref:     models.RefFlowEquity,
			Label:   "Flux de trésorerie provenant des capitaux propres",
			Formula: "FK+FL-FM",
		},
		{
			Ref:      models.RefBorrowingsIn,
			Label:    "Encaissements des emprunts et autres dettes financières",
			Prefixes: []string{"15", "16", "17", "18", "19"},
		},
		{
			Ref:      models.RefBorrowingsOut,
			Label:    "Décaissements liés au remboursement des emprunts et autres dettes financières",
			Prefixes: []string{"15", "16", "17", "18", "19"},
		},
		{
			Ref:     models.RefFlowDebt,
			Label:   "Flux de trésorerie provenant des capitaux étrangers",
			Formula: "FO-FP",
		},
		{
			Ref:     models.RefNetVariation,
			Label:   "VARIATION DE LA TRÉSORERIE NETTE DE LA PÉRIODE",
			Formula: "ZB+ZC+D+ZE",
		},
		{
			Ref:             models.RefClosingTreasury,
			Label:           "Trésorerie nette au 31 Décembre",
			Rule:            models.RuleClosingTreasury,
			ActivePrefixes:  treasuryActivePrefixes,
			PassivePrefixes: treasuryPassivePrefixes,
		},
	}
}

// Sections group the flow line items under their rolled-up totals, in
// statement order. The coherence checker recomputes each subtotal from the
// constituents and compares it against the total refs.
type Section struct {
	Name         string
	Constituents string // formula over constituent refs
	Totals       string // formula over the section's total refs
}

// DefaultSections describes the three flow sections of the default model.
func DefaultSections() []Section {
	return []Section{
		{Name: "activités opérationnelles", Constituents: "FA+FB+FC+FD+FE", Totals: "ZB"},
		{Name: "activités d'investissement", Constituents: "FF+FG+FH+FI+FJ", Totals: "ZC"},
		{Name: "activités de financement", Constituents: "FK+FL-FM+FO-FP", Totals: "D+ZE"},
	}
}

// SectionsFor restricts the default sections to those whose refs all exist
// in the given model. A mapping variant that drops or reshapes a section is
// not checked against the canonical constituents.
func SectionsFor(specs []models.LineItemSpec) []Section {
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		declared[spec.Ref] = true
	}

	var sections []Section
	for _, section := range DefaultSections() {
		covered := true
		for _, ref := range append(FormulaRefs(section.Constituents), FormulaRefs(section.Totals)...) {
			if !declared[ref] {
				covered = false
				break
			}
		}
		if covered {
			sections = append(sections, section)
		}
	}
	return sections
}
