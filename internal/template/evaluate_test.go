package template

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/ledger"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lit(code, amount string, sign model.Sign) model.TemplateLine {
	return model.TemplateLine{ClientID: "c1", Code: code, BaseAmount: dec(amount), Sign: sign}
}

func calc(code, formula string) model.TemplateLine {
	return model.TemplateLine{ClientID: "c1", Code: code, Formula: formula, Sign: model.SignPlus}
}

func assertValue(t *testing.T, stmt model.Statement, code, want string) {
	t.Helper()
	got, ok := stmt.Get(code)
	require.True(t, ok, "code %s missing", code)
	assert.True(t, dec(want).Equal(got), "%s = %s, want %s", code, got, want)
}

func TestEvaluate_LiteralsOnly(t *testing.T) {
	lines := []model.TemplateLine{
		lit("A.1", "100", model.SignPlus),
		lit("A.2", "40.25", model.SignMinus),
		lit("A.3", "7", ""),
	}
	first, err := Evaluate(lines, nil)
	require.NoError(t, err)
	assertValue(t, first, "A.1", "100")
	assertValue(t, first, "A.2", "-40.25")
	assertValue(t, first, "A.3", "7")
	assert.Equal(t, []string{"A.1", "A.2", "A.3"}, first.Codes)

	// Same result on repeat and regardless of input order.
	reversed := []model.TemplateLine{lines[2], lines[1], lines[0]}
	second, err := Evaluate(reversed, nil)
	require.NoError(t, err)
	for _, code := range first.Codes {
		a, _ := first.Get(code)
		b, _ := second.Get(code)
		assert.True(t, a.Equal(b), code)
	}
}

func TestEvaluate_Chain(t *testing.T) {
	lines := []model.TemplateLine{
		calc("A", "B + C"),
		lit("B", "10", model.SignPlus),
		lit("C", "20", model.SignPlus),
	}
	stmt, err := Evaluate(lines, nil)
	require.NoError(t, err)
	assertValue(t, stmt, "A", "30")
}

func TestEvaluate_FormulaReadsSignedLiteral(t *testing.T) {
	lines := []model.TemplateLine{
		calc("R", "L"),
		lit("L", "55", model.SignMinus),
	}
	stmt, err := Evaluate(lines, nil)
	require.NoError(t, err)
	assertValue(t, stmt, "R", "-55")
}

func TestEvaluate_FormulaIgnoresBaseAndSign(t *testing.T) {
	line := calc("R", "2 * 3")
	line.BaseAmount = dec("999")
	line.Sign = model.SignMinus
	stmt, err := Evaluate([]model.TemplateLine{line}, nil)
	require.NoError(t, err)
	assertValue(t, stmt, "R", "6")
}

func TestEvaluate_LedgerTotals(t *testing.T) {
	lines := []model.TemplateLine{
		calc("VP", "RICAVI + [7020]"),
		calc("MOL", "VP - COSTI"),
		lit("COSTI", "300", model.SignPlus),
		lit("RICAVI", "5", model.SignPlus), // line wins over ledger total
	}
	totals := ledger.Totals{
		"RICAVI": dec("1000"),
		"7020":   dec("250.50"),
	}
	stmt, err := Evaluate(lines, totals)
	require.NoError(t, err)
	assertValue(t, stmt, "VP", "255.50")
	assertValue(t, stmt, "MOL", "-44.50")
	_, ok := stmt.Get("7020")
	assert.False(t, ok, "ledger totals are inputs, not statement lines")
}

func TestEvaluate_DeepChain(t *testing.T) {
	lines := []model.TemplateLine{
		calc("E", "D * 2"),
		calc("D", "C + 1"),
		calc("C", "B / 4"),
		calc("B", "A - 2"),
		lit("A", "10", model.SignPlus),
	}
	stmt, err := Evaluate(lines, nil)
	require.NoError(t, err)
	assertValue(t, stmt, "B", "8")
	assertValue(t, stmt, "C", "2")
	assertValue(t, stmt, "D", "3")
	assertValue(t, stmt, "E", "6")
}

func TestEvaluate_Cycle(t *testing.T) {
	lines := []model.TemplateLine{
		calc("X", "Y"),
		calc("Y", "X"),
	}
	stmt, err := Evaluate(lines, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrCyclicFormula)
	assert.Zero(t, stmt.Len(), "no partial result")

	var cerr *shared.CycleError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"X", "Y", "X"}, cerr.Path)
}

func TestEvaluate_SelfReference(t *testing.T) {
	_, err := Evaluate([]model.TemplateLine{calc("X", "X + 1")}, nil)
	var cerr *shared.CycleError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"X", "X"}, cerr.Path)
}

func TestEvaluate_CycleBehindValidLines(t *testing.T) {
	lines := []model.TemplateLine{
		lit("A", "1", model.SignPlus),
		calc("B", "A + C"),
		calc("C", "D"),
		calc("D", "B"),
	}
	_, err := Evaluate(lines, nil)
	var cerr *shared.CycleError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"B", "C", "D", "B"}, cerr.Path)
}

func TestEvaluate_Unresolved(t *testing.T) {
	lines := []model.TemplateLine{
		lit("A", "1", model.SignPlus),
		calc("B", "A + Z"),
	}
	_, err := Evaluate(lines, ledger.Totals{"Y": dec("1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnresolvedReference)

	var rerr *shared.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "B", rerr.Line)
	assert.Equal(t, "Z", rerr.Code)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	lines := []model.TemplateLine{
		lit("ZERO", "0", model.SignPlus),
		calc("R", "100 / ZERO"),
	}
	_, err := Evaluate(lines, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDivisionByZero)

	var derr *shared.DivisionError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "R", derr.Line)
}

func TestEvaluate_ParseError(t *testing.T) {
	_, err := Evaluate([]model.TemplateLine{calc("R", "A +")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrParse)

	var perr *shared.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "R", perr.Line)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.TemplateLine
	}{
		{"duplicate code", []model.TemplateLine{lit("A", "1", "+"), lit("A", "2", "+")}},
		{"empty code", []model.TemplateLine{lit("", "1", "+")}},
		{"padded code", []model.TemplateLine{lit(" A", "1", "+")}},
		{"bad sign", []model.TemplateLine{lit("A", "1", "*")}},
	}
	for _, tt := range tests {
		_, err := Evaluate(tt.lines, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, tt.name)
	}
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	lines := []model.TemplateLine{calc("A", "B * 2"), lit("B", "3", "+")}
	totals := ledger.Totals{"T": dec("1")}
	_, err := Evaluate(lines, totals)
	require.NoError(t, err)

	assert.True(t, lines[0].Computed.IsZero())
	assert.Len(t, totals, 1)
}

func TestOrder(t *testing.T) {
	lines := []model.TemplateLine{
		calc("TOT", "A + B"),
		calc("A", "B * 2 + [6010]"),
		lit("B", "1", "+"),
	}
	order, err := Order(lines)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "TOT"}, order)

	_, err = Order([]model.TemplateLine{calc("X", "Y"), calc("Y", "X")})
	assert.ErrorIs(t, err, shared.ErrCyclicFormula)
}

func TestApply(t *testing.T) {
	lines := []model.TemplateLine{calc("A", "B + 1"), lit("B", "4", "-")}
	stmt, err := Evaluate(lines, nil)
	require.NoError(t, err)

	applied := Apply(lines, stmt)
	assert.True(t, dec("-3").Equal(applied[0].Computed))
	assert.True(t, dec("-4").Equal(applied[1].Computed))
	assert.True(t, lines[0].Computed.IsZero(), "input lines untouched")
}
