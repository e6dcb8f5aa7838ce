package model

// IndicatorCategory groups custom indices for presentation.
type IndicatorCategory string

const (
	CategoryLiquidity     IndicatorCategory = "liquidity"
	CategorySolidity      IndicatorCategory = "solidity"
	CategoryProfitability IndicatorCategory = "profitability"
	CategoryEfficiency    IndicatorCategory = "efficiency"
	CategoryCustom        IndicatorCategory = "custom"
)

// DisplayFormat tells the presentation layer how to render a value.
type DisplayFormat string

const (
	FormatRatio      DisplayFormat = "ratio"
	FormatPercentage DisplayFormat = "percentage"
	FormatCurrency   DisplayFormat = "currency"
)

// IndicatorDefinition is a user-authored ratio over a CE (income statement)
// and an SP (balance sheet) statistic.
type IndicatorDefinition struct {
	ClientID    string            `validate:"required"`
	Name        string            `validate:"required"`
	Category    IndicatorCategory `validate:"required,oneof=liquidity solidity profitability efficiency custom"`
	Formula     string            `validate:"required"`
	Format      DisplayFormat     `validate:"required,oneof=ratio percentage currency"`
	CEStatistic string            // template run holding the CE statement
	SPStatistic string            // template run holding the SP statement
}
