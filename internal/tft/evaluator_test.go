package tft

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jkouame/tft-engine/internal/enginerror"
	"jkouame/tft-engine/internal/models"
)

func row(account string, balance int64, year int) models.AccountRow {
	return models.AccountRow{
		AccountNumber: account,
		Balance:       decimal.NewFromInt(balance),
		TotalDebit:    decimal.NewFromInt(balance),
		RecordDate:    time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func amountOf(t *testing.T, table *models.TFTTable, ref string) decimal.Decimal {
	t.Helper()
	item, ok := table.Get(ref)
	require.True(t, ok, "missing ref %s", ref)
	return item.Amount
}

func TestEvaluateDirectAggregation(t *testing.T) {
	specs := []models.LineItemSpec{
		{Ref: "FC", Label: "Variation des stocks", Prefixes: []string{"31", "32"}},
	}

	t.Run("With prior year amount is the variation", func(t *testing.T) {
		part := &Period{
			Current:  []models.AccountRow{row("311000", 800, 2024), row("321000", 200, 2024)},
			Prior:    []models.AccountRow{row("311000", 600, 2023)},
			HasPrior: true,
		}
		table, diags := Evaluate(specs, part)
		assert.Empty(t, diags)

		item, ok := table.Get("FC")
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(400).Equal(item.Amount))
		assert.True(t, decimal.NewFromInt(1000).Equal(item.BalanceCurrent))
		assert.True(t, decimal.NewFromInt(600).Equal(item.BalancePrior))
		assert.Len(t, item.MatchedRows, 2)
	})

	t.Run("Single year amount is the balance", func(t *testing.T) {
		part := &Period{
			Current: []models.AccountRow{row("311000", 800, 2024)},
		}
		table, diags := Evaluate(specs, part)
		assert.Empty(t, diags)
		assert.True(t, decimal.NewFromInt(800).Equal(amountOf(t, table, "FC")))
	})

	t.Run("No matching rows yields zero", func(t *testing.T) {
		part := &Period{Current: []models.AccountRow{row("701000", 800, 2024)}, HasPrior: false}
		table, _ := Evaluate(specs, part)
		assert.True(t, amountOf(t, table, "FC").IsZero())
	})
}

func TestEvaluateFormulaChain(t *testing.T) {
	specs := []models.LineItemSpec{
		{Ref: "FB", Prefixes: []string{"48"}},
		{Ref: "FC", Prefixes: []string{"31"}},
		{Ref: "BF", Formula: "FB+FC"},
		{Ref: "ZB", Formula: "BF*2"},
	}
	part := &Period{
		Current: []models.AccountRow{row("481000", 100, 2024), row("311000", 50, 2024)},
	}

	table, diags := Evaluate(specs, part)
	assert.Empty(t, diags)
	assert.True(t, decimal.NewFromInt(150).Equal(amountOf(t, table, "BF")))
	assert.True(t, decimal.NewFromInt(300).Equal(amountOf(t, table, "ZB")))
}

func TestEvaluateForwardReference(t *testing.T) {
	specs := []models.LineItemSpec{
		{Ref: "BF", Formula: "FC+1"},
		{Ref: "FC", Prefixes: []string{"31"}},
	}
	part := &Period{Current: []models.AccountRow{row("311000", 50, 2024)}}

	table, diags := Evaluate(specs, part)

	// The failing item contributes zero and the table still carries a row
	// for every spec, so one bad formula never aborts the statement.
	assert.True(t, amountOf(t, table, "BF").IsZero())
	assert.True(t, decimal.NewFromInt(50).Equal(amountOf(t, table, "FC")))
	require.Len(t, diags, 1)

	var formulaErr *enginerror.FormulaError
	require.True(t, errors.As(diags[0], &formulaErr))
	assert.Equal(t, "BF", formulaErr.Ref)
}

func TestEvaluateSignedGroups(t *testing.T) {
	specs := []models.LineItemSpec{
		{
			Ref:  "FA",
			Rule: models.RuleSignedGroups,
			SignedGroups: []models.SignedGroup{
				{Prefixes: []string{"70"}, Sign: +1},
				{Prefixes: []string{"60"}, Sign: -1},
				{Prefixes: []string{"675"}, Sign: +1},
			},
		},
	}
	part := &Period{
		Current: []models.AccountRow{
			row("701000", 5000, 2024),
			row("601000", 3200, 2024),
			row("675000", 150, 2024),
			row("411000", 9999, 2024), // outside every group
		},
		Prior:    []models.AccountRow{row("701000", 4000, 2023)},
		HasPrior: true,
	}

	table, diags := Evaluate(specs, part)
	assert.Empty(t, diags)

	// 5000 - 3200 + 150, from current-period balances only.
	assert.True(t, decimal.NewFromInt(1950).Equal(amountOf(t, table, "FA")))
}

func TestEvaluateTreasuryRules(t *testing.T) {
	specs := []models.LineItemSpec{
		{
			Ref:             models.RefOpeningTreasury,
			Rule:            models.RuleOpeningTreasury,
			ActivePrefixes:  []string{"521", "531"},
			PassivePrefixes: []string{"561"},
		},
		{Ref: models.RefNetVariation, Formula: "70"},
		{
			Ref:             models.RefClosingTreasury,
			Rule:            models.RuleClosingTreasury,
			ActivePrefixes:  []string{"521", "531"},
			PassivePrefixes: []string{"561"},
		},
	}

	part := &Period{
		Current: []models.AccountRow{
			row("521000", 120, 2024),
			row("531000", 30, 2024),
			row("561000", 20, 2024),
		},
		Prior: []models.AccountRow{
			row("521000", 50, 2023),
			row("561000", 10, 2023),
		},
		HasPrior: true,
	}

	table, diags := Evaluate(specs, part)
	assert.Empty(t, diags)

	// Opening = prior active minus prior passive.
	assert.True(t, decimal.NewFromInt(40).Equal(amountOf(t, table, models.RefOpeningTreasury)))

	// Closing = opening + net variation; measured current net treasury
	// lands in BalanceCurrent.
	closing, ok := table.Get(models.RefClosingTreasury)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(110).Equal(closing.Amount))
	assert.True(t, decimal.NewFromInt(130).Equal(closing.BalanceCurrent))
}

func TestEvaluateOpeningTreasurySingleYear(t *testing.T) {
	specs := []models.LineItemSpec{
		{
			Ref:             models.RefOpeningTreasury,
			Rule:            models.RuleOpeningTreasury,
			ActivePrefixes:  []string{"521"},
			PassivePrefixes: []string{"561"},
		},
	}
	part := &Period{Current: []models.AccountRow{row("521000", 75, 2024)}}

	table, _ := Evaluate(specs, part)
	assert.True(t, decimal.NewFromInt(75).Equal(amountOf(t, table, models.RefOpeningTreasury)))
}

func TestEvaluateDefaultModel(t *testing.T) {
	part := &Period{
		Current: []models.AccountRow{
			row("701000", 10000, 2024),
			row("601000", 6000, 2024),
			row("311000", 500, 2024),
			row("411000", 700, 2024),
			row("401000", 300, 2024),
			row("521000", 2000, 2024),
		},
		Prior: []models.AccountRow{
			row("311000", 400, 2023),
			row("411000", 900, 2023),
			row("521000", 1500, 2023),
		},
		HasPrior: true,
	}

	table, diags := Evaluate(DefaultModel(), part)
	assert.Empty(t, diags)
	assert.Equal(t, len(DefaultModel()), table.Len())

	// Every declared ref resolves.
	for _, spec := range DefaultModel() {
		_, ok := table.Get(spec.Ref)
		assert.True(t, ok, "missing %s", spec.Ref)
	}

	assert.True(t, decimal.NewFromInt(4000).Equal(amountOf(t, table, models.RefCAFG)))
	assert.True(t, decimal.NewFromInt(1500).Equal(amountOf(t, table, models.RefOpeningTreasury)))
}

func TestEvaluateDeterministic(t *testing.T) {
	part := &Period{
		Current: []models.AccountRow{
			row("701000", 10000, 2024),
			row("311000", 500, 2024),
			row("521000", 2000, 2024),
		},
		Prior:    []models.AccountRow{row("521000", 1500, 2023)},
		HasPrior: true,
	}

	first, firstDiags := Evaluate(DefaultModel(), part)
	second, secondDiags := Evaluate(DefaultModel(), part)

	assert.True(t, reflect.DeepEqual(first.Rows(), second.Rows()))
	assert.Equal(t, len(firstDiags), len(secondDiags))
}

func TestSectionsFor(t *testing.T) {
	assert.Len(t, SectionsFor(DefaultModel()), 3)

	// A variant that reshapes the sections keeps none of the canonical
	// ones: no section has all its refs declared.
	variant := []models.LineItemSpec{
		{Ref: "FC", Prefixes: []string{"31"}},
		{Ref: "ZB", Formula: "FC"},
	}
	assert.Empty(t, SectionsFor(variant))
}

func TestValidateModel(t *testing.T) {
	assert.NoError(t, ValidateModel(DefaultModel()))

	tests := []struct {
		name  string
		specs []models.LineItemSpec
	}{
		{"Empty ref", []models.LineItemSpec{{Label: "nameless"}}},
		{"Duplicate ref", []models.LineItemSpec{{Ref: "FA"}, {Ref: "FA"}}},
		{"Forward reference", []models.LineItemSpec{{Ref: "ZB", Formula: "FA"}, {Ref: "FA"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateModel(tc.specs))
		})
	}
}
