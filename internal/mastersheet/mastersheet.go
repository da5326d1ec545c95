// Package mastersheet builds the supporting ledgers ("feuilles maîtresses")
// that accompany the statement of cash flows: one ledger per account
// category, with both periods' balances and a per-account comparison view.
package mastersheet

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/classifier"
	"jkouame/tft-engine/internal/models"
)

var log = logrus.New()

// SetLogger sets the logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var hundred = decimal.NewFromInt(100)

// DefaultCategories returns the canonical category table. Prefix lists are
// three-digit where the chart distinguishes siblings (411 vs 419) and
// two-digit where a whole class belongs to the group.
func DefaultCategories() []models.CategorySpec {
	return []models.CategorySpec{
		{
			Name: models.CategoryTreasury,
			Prefixes: []string{
				"501", "502", "503", "504", "505", "506",
				"521", "522", "523", "524",
				"531", "532", "533",
				"541", "542",
				"58", "59",
			},
		},
		{
			Name: models.CategoryClientsSales,
			Prefixes: []string{
				"411", "416", "417", "418", "419", "491",
				"701", "702", "703", "704", "705", "706", "707", "708",
				"781",
			},
		},
		{
			Name: models.CategorySuppliers,
			Prefixes: []string{
				"401", "402", "403", "408", "409", "419",
				"601", "602", "603", "604", "605", "606", "607", "608",
			},
		},
		{
			Name: models.CategoryPayroll,
			Prefixes: []string{
				"421", "422", "423", "424", "425",
				"43", "447",
				"661", "662", "663", "664", "665", "666", "667", "668",
			},
		},
		{
			Name: models.CategoryTaxes,
			Prefixes: []string{
				"441", "442", "443", "444", "445", "446", "447", "448", "449",
				"631", "633", "635", "695",
			},
		},
		{
			Name: models.CategoryFixedAssets,
			Prefixes: []string{
				"201", "203", "204", "205", "208",
				"211", "212", "213", "214", "215", "218",
				"237", "238",
			},
		},
		{
			Name: models.CategoryFinancialAssets,
			Prefixes: []string{
				"251", "256", "261", "262",
				"264", "265", "266", "267", "268", "269",
				"274", "275",
			},
		},
		{
			Name: models.CategoryInventories,
			Prefixes: []string{
				"311", "321", "322", "323", "331", "335",
				"341", "345", "351", "358", "39",
			},
		},
		{
			Name: models.CategoryEquity,
			Prefixes: []string{
				"101", "103", "104", "105", "106", "108", "109",
				"110", "130", "131",
			},
		},
		{
			Name:     models.CategoryProvisions,
			Prefixes: []string{"141", "142", "143", "148", "149"},
		},
	}
}

// Aggregate computes one ledger per category from the partitioned rows.
// Every category appears in the result even when no account matches it, so
// downstream exports always produce the full workbook set.
func Aggregate(categories []models.CategorySpec, current, prior []models.AccountRow) []models.CategoryLedger {
	ledgers := make([]models.CategoryLedger, 0, len(categories))
	for _, cat := range categories {
		ledger := models.CategoryLedger{
			Name:        cat.Name,
			Prefixes:    cat.Prefixes,
			CurrentRows: match(current, cat.Prefixes),
			PriorRows:   match(prior, cat.Prefixes),
		}
		for _, r := range ledger.CurrentRows {
			ledger.BalanceCurrent = ledger.BalanceCurrent.Add(r.Balance)
		}
		for _, r := range ledger.PriorRows {
			ledger.BalancePrior = ledger.BalancePrior.Add(r.Balance)
		}
		ledger.Variation = ledger.BalanceCurrent.Sub(ledger.BalancePrior)
		ledger.Comparison = compare(ledger.CurrentRows, ledger.PriorRows)

		log.WithFields(logrus.Fields{
			"category": cat.Name,
			"accounts": len(ledger.Comparison),
		}).Debug("Aggregated supporting ledger")

		ledgers = append(ledgers, ledger)
	}
	return ledgers
}

func match(rows []models.AccountRow, prefixes []string) []models.AccountRow {
	var matched []models.AccountRow
	for _, row := range rows {
		if classifier.Matches(row.AccountNumber, prefixes) {
			matched = append(matched, row)
		}
	}
	return matched
}

// compare lines up both periods account by account. An account appearing in
// only one period still gets a row, with zero on the missing side.
func compare(current, prior []models.AccountRow) []models.ComparisonRow {
	type pair struct {
		label               string
		balanceN, balanceN1 decimal.Decimal
	}
	byAccount := make(map[string]*pair)
	for _, r := range current {
		p, ok := byAccount[r.AccountNumber]
		if !ok {
			p = &pair{label: r.Label}
			byAccount[r.AccountNumber] = p
		}
		// Accumulate: an account may carry several record dates inside
		// one fiscal year.
		p.balanceN = p.balanceN.Add(r.Balance)
		if p.label == "" {
			p.label = r.Label
		}
	}
	for _, r := range prior {
		p, ok := byAccount[r.AccountNumber]
		if !ok {
			p = &pair{label: r.Label}
			byAccount[r.AccountNumber] = p
		}
		p.balanceN1 = p.balanceN1.Add(r.Balance)
		if p.label == "" {
			p.label = r.Label
		}
	}

	accounts := make([]string, 0, len(byAccount))
	for account := range byAccount {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	rows := make([]models.ComparisonRow, 0, len(accounts))
	for _, account := range accounts {
		p := byAccount[account]
		variation := p.balanceN.Sub(p.balanceN1)
		rows = append(rows, models.ComparisonRow{
			AccountNumber:  account,
			Label:          p.label,
			BalanceCurrent: p.balanceN,
			BalancePrior:   p.balanceN1,
			Variation:      variation,
			Percentage:     percentage(variation, p.balanceN1),
		})
	}
	return rows
}

// percentage is the variation relative to the absolute prior balance. A new
// account (prior zero) counts as a full 100% move; a dormant one as 0%.
func percentage(variation, prior decimal.Decimal) decimal.Decimal {
	if prior.IsZero() {
		if variation.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return variation.Div(prior.Abs()).Mul(hundred)
}
