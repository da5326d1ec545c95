package tft

import (
	"fmt"

	"github.com/shopspring/decimal"

	"jkouame/tft-engine/internal/classifier"
	"jkouame/tft-engine/internal/enginerror"
	"jkouame/tft-engine/internal/models"
)

// Evaluate walks the line-item model in declaration order and computes one
// LineItemResult per spec. Later items' formulas read earlier items'
// amounts; a formula that fails to evaluate yields amount zero and a
// FormulaError in the returned diagnostics, never an abort.
//
// The computation is deterministic: identical inputs produce identical
// tables. Balance sums are commutative, and the only order that matters is
// the declaration order of the specs, which is preserved exactly.
func Evaluate(specs []models.LineItemSpec, part *Period) (*models.TFTTable, []error) {
	table := models.NewTFTTable()
	amounts := make(map[string]decimal.Decimal, len(specs))
	var diagnostics []error

	for _, spec := range specs {
		result := evaluateItem(spec, part, amounts)

		if spec.Formula != "" && spec.Rule == models.RuleNone {
			amount, err := evalFormula(normalizeFormula(spec.Formula), amounts)
			if err != nil {
				diagnostics = append(diagnostics, &enginerror.FormulaError{
					Ref:     spec.Ref,
					Formula: spec.Formula,
					Err:     err,
				})
				amount = decimal.Zero
			}
			result.Amount = amount
		}

		amounts[spec.Ref] = result.Amount
		table.Append(result)
	}
	return table, diagnostics
}

// Period carries the partitioned row sets the evaluator works on. It is a
// plain value so the package stays free of the partitioning logic itself.
type Period struct {
	Current  []models.AccountRow
	Prior    []models.AccountRow
	HasPrior bool
}

func evaluateItem(spec models.LineItemSpec, part *Period, amounts map[string]decimal.Decimal) models.LineItemResult {
	result := models.LineItemResult{
		Ref:     spec.Ref,
		Label:   spec.Label,
		Formula: spec.Formula,
	}

	// Raw aggregates over the item's direct prefixes are always recorded,
	// even for items whose amount comes from a rule or formula.
	prefixes := spec.Prefixes
	if len(prefixes) == 0 && (spec.Rule == models.RuleOpeningTreasury || spec.Rule == models.RuleClosingTreasury) {
		prefixes = append(append([]string{}, spec.ActivePrefixes...), spec.PassivePrefixes...)
	}
	if len(prefixes) > 0 {
		matched := matchRows(part.Current, prefixes)
		result.MatchedRows = matched
		for _, row := range matched {
			result.BalanceCurrent = result.BalanceCurrent.Add(row.Balance)
			result.DebitCurrent = result.DebitCurrent.Add(row.TotalDebit)
			result.CreditCurrent = result.CreditCurrent.Add(row.TotalCredit)
		}
		if part.HasPrior {
			for _, row := range matchRows(part.Prior, prefixes) {
				result.BalancePrior = result.BalancePrior.Add(row.Balance)
			}
			result.Variation = result.BalanceCurrent.Sub(result.BalancePrior)
		}
	}

	switch spec.Rule {
	case models.RuleSignedGroups:
		result.Amount = evalSignedGroups(spec.SignedGroups, part.Current)

	case models.RuleOpeningTreasury:
		rows := part.Prior
		if !part.HasPrior {
			rows = part.Current
		}
		result.Amount = netTreasury(rows, spec.ActivePrefixes, spec.PassivePrefixes)

	case models.RuleClosingTreasury:
		// Closing treasury = opening treasury + net period variation.
		// The measured current-period net treasury stays available in
		// BalanceCurrent for the coherence checker to compare against.
		result.Amount = amounts[models.RefOpeningTreasury].Add(amounts[models.RefNetVariation])
		result.BalanceCurrent = netTreasury(part.Current, spec.ActivePrefixes, spec.PassivePrefixes)

	default:
		if spec.Formula == "" {
			if part.HasPrior {
				result.Amount = result.Variation
			} else {
				result.Amount = result.BalanceCurrent
			}
		}
	}
	return result
}

func matchRows(rows []models.AccountRow, prefixes []string) []models.AccountRow {
	var matched []models.AccountRow
	for _, row := range rows {
		if classifier.Matches(row.AccountNumber, prefixes) {
			matched = append(matched, row)
		}
	}
	return matched
}

func evalSignedGroups(groups []models.SignedGroup, rows []models.AccountRow) decimal.Decimal {
	total := decimal.Zero
	for _, group := range groups {
		sum := decimal.Zero
		for _, row := range matchRows(rows, group.Prefixes) {
			sum = sum.Add(row.Balance)
		}
		if group.Sign < 0 {
			total = total.Sub(sum)
		} else {
			total = total.Add(sum)
		}
	}
	return total
}

func netTreasury(rows []models.AccountRow, active, passive []string) decimal.Decimal {
	net := decimal.Zero
	for _, row := range matchRows(rows, active) {
		net = net.Add(row.Balance)
	}
	for _, row := range matchRows(rows, passive) {
		net = net.Sub(row.Balance)
	}
	return net
}

// ValidateModel checks a line-item table for declaration-order violations:
// every ref a formula mentions must be declared earlier in the model.
// Mapping variants loaded from YAML go through this before use.
func ValidateModel(specs []models.LineItemSpec) error {
	declared := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Ref == "" {
			return fmt.Errorf("line item with empty ref (label %q)", spec.Label)
		}
		if declared[spec.Ref] {
			return fmt.Errorf("duplicate ref %q", spec.Ref)
		}
		if spec.Formula != "" {
			for _, ref := range FormulaRefs(spec.Formula) {
				if !declared[ref] {
					return fmt.Errorf("item %q references %q before its declaration", spec.Ref, ref)
				}
			}
		}
		declared[spec.Ref] = true
	}
	return nil
}
