package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/period"
)

func TestStandardParser_Parse(t *testing.T) {
	in := "period,account,description,amount\n2024-03,6010,Acquisti,-1234.56\n2024-03,7010,Ricavi,2000\n"
	rows, err := (&StandardParser{}).Parse(strings.NewReader(in), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "c1", rows[0].ClientID)
	assert.Equal(t, period.New(2024, 3), rows[0].Period)
	assert.Equal(t, "-1234.56", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "Ricavi", rows[1].Description)
}

func TestItalianParser_Parse(t *testing.T) {
	in := "periodo;conto;descrizione;importo\n03/2024;6010;Acquisti;-1.234,56\n3/2024;7010; Ricavi ;2.000\n"
	rows, err := (&ItalianParser{}).Parse(strings.NewReader(in), "c1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, period.New(2024, 3), rows[0].Period)
	assert.Equal(t, "-1234.56", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "2000.00", rows[1].Amount.StringFixed(2))
	assert.Equal(t, "Ricavi", rows[1].Description)
}

func TestParseItalianAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"-0,5", "-0.5"},
		{"1234", "1234"},
		{"1.000.000,00 €", "1000000"},
	}
	for _, tt := range tests {
		got, err := ParseItalianAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, dec(tt.want).Equal(got), "ParseItalianAmount(%q) = %s", tt.in, got)
	}

	_, err := ParseItalianAmount("uno")
	assert.Error(t, err)
}

func TestParser_Errors(t *testing.T) {
	_, err := (&ItalianParser{}).Parse(strings.NewReader("h;h;h;h\n2024-03;6010;x;1\n"), "c1")
	assert.ErrorContains(t, err, "row 2: parsing period")

	_, err = (&StandardParser{}).Parse(strings.NewReader("h,h,h,h\n2024-03,,x,1\n"), "c1")
	assert.ErrorContains(t, err, "missing account")

	rows, err := (&StandardParser{}).Parse(strings.NewReader("period,account,description,amount\n"), "c1")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"italian", "standard"}, r.Formats())
	assert.NotNil(t, r.Get("ITALIAN"))
	assert.Nil(t, r.Get("ofx"))
	assert.Panics(t, func() { r.Register(&StandardParser{}) })
}
