package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestTemplateLineSigned(t *testing.T) {
	tests := []struct {
		sign Sign
		base string
		want string
	}{
		{SignPlus, "100", "100"},
		{SignMinus, "100", "-100"},
		{"", "42.5", "42.5"},
		{SignMinus, "-3", "3"},
	}
	for _, tt := range tests {
		l := TemplateLine{Sign: tt.sign, BaseAmount: dec(tt.base)}
		assert.True(t, dec(tt.want).Equal(l.Signed()), "Signed(%q, %s)", tt.sign, tt.base)
	}
}

func TestSignValid(t *testing.T) {
	assert.True(t, Sign("").Valid())
	assert.True(t, SignPlus.Valid())
	assert.True(t, SignMinus.Valid())
	assert.False(t, Sign("*").Valid())
	assert.False(t, Sign("+-").Valid())
}

func TestTemplateLineHasFormula(t *testing.T) {
	assert.False(t, TemplateLine{}.HasFormula())
	assert.False(t, TemplateLine{Formula: "   "}.HasFormula())
	assert.True(t, TemplateLine{Formula: "A + B"}.HasFormula())
}

func TestAccountMappingCovers(t *testing.T) {
	single := AccountMapping{From: period.New(2024, 3)}
	assert.Equal(t, period.New(2024, 3), single.Until())
	assert.True(t, single.Covers(period.New(2024, 3)))
	assert.False(t, single.Covers(period.New(2024, 4)))

	ranged := AccountMapping{From: period.New(2023, 11), To: period.New(2024, 2)}
	assert.True(t, ranged.Covers(period.New(2023, 12)))
	assert.True(t, ranged.Covers(period.New(2024, 2)))
	assert.False(t, ranged.Covers(period.New(2023, 10)))
}

func TestStatementKeepsInsertionOrder(t *testing.T) {
	var s Statement
	s.Set("B", dec("1"))
	s.Set("A", dec("2"))
	s.Set("B", dec("3"))

	assert.Equal(t, []string{"B", "A"}, s.Codes)
	assert.Equal(t, 2, s.Len())
	v, ok := s.Get("B")
	require.True(t, ok)
	assert.True(t, dec("3").Equal(v))

	_, ok = NewStatement().Get("missing")
	assert.False(t, ok)
}

func TestNewScope(t *testing.T) {
	s, err := NewScope("c1", period.New(2023, 11), period.New(2024, 2))
	require.NoError(t, err)
	assert.True(t, s.MultiPeriod())
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, s.PeriodStrings())
	assert.Equal(t, period.New(2024, 2), s.Last())
	assert.True(t, s.Contains(period.New(2024, 1)))
	assert.False(t, s.Contains(period.New(2024, 3)))

	_, err = NewScope("", period.New(2024, 1), period.New(2024, 1))
	assert.Error(t, err)
	_, err = NewScope("c1", period.New(2024, 2), period.New(2024, 1))
	assert.Error(t, err)
}

func TestTrialBalanceRowKey(t *testing.T) {
	a := TrialBalanceRow{ClientID: "c1", Period: period.New(2024, 1), Account: "6010", Description: "Acquisti", Amount: dec("10")}
	b := a
	b.Amount = dec("99")
	b.Note = "rettifica"
	assert.Equal(t, a.Key(), b.Key())

	b.Description = "Altro"
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestAdvanceEnd(t *testing.T) {
	a := Advance{Start: date(2024, 1, 1), Deadline: date(2024, 4, 1)}
	assert.Equal(t, date(2024, 4, 1), a.End())

	repaid := date(2024, 2, 1)
	a.Repaid = &repaid
	assert.Equal(t, date(2024, 2, 1), a.End())
}
