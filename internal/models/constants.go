package models

// Refs of the standard TFT line items. The short codes come from the
// SYSCOHADA statement layout and are stable across mapping variants.
const (
	RefOpeningTreasury = "ZA"
	RefCAFG            = "FA"
	RefHAOAssets       = "FB"
	RefInventories     = "FC"
	RefReceivables     = "FD"
	RefPayables        = "FE"
	RefWorkingCapital  = "BF"
	RefFlowOperating   = "ZB"
	RefIntangibleAcq   = "FF"
	RefTangibleAcq     = "FG"
	RefFinancialAcq    = "FH"
	RefAssetDisposals  = "FI"
	RefFinDisposals    = "FJ"
	RefFlowInvesting   = "ZC"
	RefCapitalIn       = "FK"
	RefSubsidies       = "FL"
	RefDividendsPaid   = "FM"
	RefFlowEquity      = "D"
	RefBorrowingsIn    = "FO"
	RefBorrowingsOut   = "FP"
	RefFlowDebt        = "ZE"
	RefNetVariation    = "G"
	RefClosingTreasury = "ZH"
)

// Canonical category names for the supporting ledgers. The spellings match
// the group names the legacy backend persisted, so generated files keep
// their historical identifiers.
const (
	CategoryTreasury        = "financier"
	CategoryClientsSales    = "Clients-Ventes"
	CategorySuppliers       = "Fournisseurs-Achats"
	CategoryPayroll         = "personnel"
	CategoryTaxes           = "Impots-Taxes"
	CategoryFixedAssets     = "Immobilisations Corporelles - Incorporelles"
	CategoryFinancialAssets = "immobilisations_financieres"
	CategoryInventories     = "stocks"
	CategoryEquity          = "capitaux_propres"
	CategoryProvisions      = "Provisions R-C"
)
