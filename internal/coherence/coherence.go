// Package coherence verifies the internal consistency of a computed TFT:
// the sum of the flow sections must equal the observed treasury variation,
// and each section subtotal must match its constituents.
package coherence

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/models"
	"jkouame/tft-engine/internal/tft"
)

var log = logrus.New()

// SetLogger sets the logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

const (
	// DefaultTolerance absorbs decimal rounding in the top-level
	// reconciliation. Amounts are in currency units, so 0.01 is one cent.
	DefaultTolerance = "0.01"
	// DefaultMateriality is the advisory threshold for unexplained gaps
	// between the derived and the measured closing treasury.
	DefaultMateriality = "1000"
)

// Checker runs the coherence control with configurable thresholds.
// Sections describes the flow sections whose subtotals get recomputed;
// callers evaluating a mapping variant pass the sections of that variant.
type Checker struct {
	Tolerance   decimal.Decimal
	Materiality decimal.Decimal
	Sections    []tft.Section
}

// NewChecker returns a checker with the default thresholds and the
// canonical model's sections.
func NewChecker() *Checker {
	tolerance, _ := decimal.NewFromString(DefaultTolerance)
	materiality, _ := decimal.NewFromString(DefaultMateriality)
	return &Checker{
		Tolerance:   tolerance,
		Materiality: materiality,
		Sections:    tft.DefaultSections(),
	}
}

// Check reconciles the flow sections against the treasury variation and
// recomputes each section subtotal from its constituents. The report is
// informative only: an incoherent table is still returned to the caller.
func (c *Checker) Check(table *models.TFTTable) models.CoherenceReport {
	report := models.CoherenceReport{
		Details: models.CoherenceDetails{
			FlowOperating: table.Amount(models.RefFlowOperating),
			FlowInvesting: table.Amount(models.RefFlowInvesting),
			FlowFinancing: table.Amount(models.RefFlowEquity).Add(table.Amount(models.RefFlowDebt)),
			TreasuryOpen:  table.Amount(models.RefOpeningTreasury),
			TreasuryClose: table.Amount(models.RefClosingTreasury),
		},
	}

	gap := report.Details.VariationViaFlows().Sub(report.Details.VariationViaTreasury()).Abs()
	report.IsCoherent = gap.LessThanOrEqual(c.Tolerance)

	for _, section := range c.Sections {
		constituents := sumRefs(table, section.Constituents)
		totals := sumRefs(table, section.Totals)
		if constituents.Sub(totals).Abs().GreaterThan(c.Tolerance) {
			report.SectionWarnings = append(report.SectionWarnings, fmt.Sprintf(
				"section %s: constituants %s, total %s",
				section.Name, constituents.StringFixed(2), totals.StringFixed(2)))
		}
	}

	report.Advisories = c.advisories(table)

	log.WithFields(logrus.Fields{
		"coherent":   report.IsCoherent,
		"gap":        gap.StringFixed(2),
		"warnings":   len(report.SectionWarnings),
		"advisories": len(report.Advisories),
	}).Info("Coherence check completed")

	return report
}

// advisories flags what the reconciliation itself cannot see: non-zero line
// items whose magnitude stays below the materiality threshold, and the
// derived closing treasury drifting from the balances actually measured on
// the treasury accounts.
func (c *Checker) advisories(table *models.TFTTable) []string {
	var advisories []string
	for _, item := range table.Rows() {
		if item.Amount.IsZero() || item.Amount.Abs().GreaterThanOrEqual(c.Materiality) {
			continue
		}
		advisories = append(advisories, fmt.Sprintf(
			"montant non significatif pour %s: %s (seuil %s)",
			item.Ref, item.Amount.StringFixed(2), c.Materiality.StringFixed(2)))
	}

	closing, ok := table.Get(models.RefClosingTreasury)
	if !ok {
		return advisories
	}
	drift := closing.Amount.Sub(closing.BalanceCurrent).Abs()
	if drift.GreaterThan(c.Materiality) {
		advisories = append(advisories, fmt.Sprintf(
			"trésorerie de clôture dérivée %s vs mesurée %s (écart %s)",
			closing.Amount.StringFixed(2), closing.BalanceCurrent.StringFixed(2), drift.StringFixed(2)))
	}
	return advisories
}

// sumRefs evaluates a signed sum like "FK+FL-FM" over table amounts.
// Refs absent from the table count as zero, unlike formula evaluation
// inside the engine where an unknown ref is an error.
func sumRefs(table *models.TFTTable, expr string) decimal.Decimal {
	total := decimal.Zero
	sign := decimal.NewFromInt(1)
	i := 0
	for i < len(expr) {
		switch expr[i] {
		case '+', ' ':
			i++
		case '-':
			sign = sign.Neg()
			i++
		default:
			start := i
			for i < len(expr) && expr[i] != '+' && expr[i] != '-' && expr[i] != ' ' {
				i++
			}
			total = total.Add(table.Amount(expr[start:i]).Mul(sign))
			sign = decimal.NewFromInt(1)
		}
	}
	return total
}
