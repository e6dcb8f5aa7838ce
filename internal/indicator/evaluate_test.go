package indicator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stmt(kv ...string) model.Statement {
	s := model.NewStatement()
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i], dec(kv[i+1]))
	}
	return s
}

func def(name, formula string) model.IndicatorDefinition {
	return model.IndicatorDefinition{
		ClientID: "c1",
		Name:     name,
		Category: model.CategoryLiquidity,
		Formula:  formula,
		Format:   model.FormatRatio,
	}
}

var (
	ce = stmt("RICAVI", "1000", "UTILE", "150", "TOT", "1")
	sp = stmt("SP_B", "600", "SP_D", "400", "ZERO", "0", "TOT", "2", "6010", "50")
)

func TestEvaluate_Ratio(t *testing.T) {
	got, err := Evaluate(def("current", "SP_B / SP_D"), ce, sp)
	require.NoError(t, err)
	assert.True(t, dec("1.5").Equal(got))
}

func TestEvaluate_CrossStatement(t *testing.T) {
	got, err := Evaluate(def("roi", "UTILE / SP_B * 100"), ce, sp)
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(got), got.String())
}

func TestEvaluate_Qualified(t *testing.T) {
	got, err := Evaluate(def("tot", "CE:TOT + SP:TOT * 10"), ce, sp)
	require.NoError(t, err)
	assert.True(t, dec("21").Equal(got))

	got, err = Evaluate(def("bracketed", "[SP:6010] / 2"), ce, sp)
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(got))
}

func TestEvaluate_Ambiguous(t *testing.T) {
	_, err := Evaluate(def("amb", "TOT * 2"), ce, sp)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAmbiguousReference)

	var rerr *shared.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "amb", rerr.Line)
	assert.Equal(t, "TOT", rerr.Code)
}

func TestEvaluate_Unresolved(t *testing.T) {
	for _, f := range []string{"MISSING + 1", "CE:SP_B", "SP:RICAVI"} {
		_, err := Evaluate(def("u", f), ce, sp)
		assert.ErrorIs(t, err, shared.ErrUnresolvedReference, f)
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	zeroSP := stmt("SP_B", "600", "SP_D", "0")
	_, err := Evaluate(def("current", "SP_B / SP_D"), ce, zeroSP)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrDivisionByZero)

	var derr *shared.DivisionError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "current", derr.Line)
}

func TestEvaluate_ParseError(t *testing.T) {
	_, err := Evaluate(def("bad", "SP_B / (SP_D"), ce, sp)
	assert.ErrorIs(t, err, shared.ErrParse)
}

func TestEvaluate_IndicatorsDoNotReferenceEachOther(t *testing.T) {
	_, err := Evaluate(def("second", "current * 2"), ce, sp)
	assert.ErrorIs(t, err, shared.ErrUnresolvedReference)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(def("ok", "1")))

	missingName := def("", "1")
	assert.ErrorIs(t, Validate(missingName), shared.ErrInvalidInput)

	badCategory := def("x", "1")
	badCategory.Category = "mood"
	err := Validate(badCategory)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Contains(t, err.Error(), "category")

	badFormat := def("x", "1")
	badFormat.Format = "emoji"
	assert.ErrorIs(t, Validate(badFormat), shared.ErrInvalidInput)

	noFormula := def("x", "")
	_, err = Evaluate(noFormula, ce, sp)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestEvaluateAll(t *testing.T) {
	defs := []model.IndicatorDefinition{
		def("current", "SP_B / SP_D"),
		def("broken", "SP_B / ZERO"),
		def("margin", "UTILE / RICAVI"),
	}
	results := EvaluateAll(defs, ce, sp)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.True(t, dec("1.5").Equal(results[0].Value))

	assert.ErrorIs(t, results[1].Err, shared.ErrDivisionByZero)
	assert.True(t, results[1].Value.IsZero())

	assert.NoError(t, results[2].Err)
	assert.True(t, dec("0.15").Equal(results[2].Value))
	assert.Equal(t, "margin", results[2].Definition.Name)
}
