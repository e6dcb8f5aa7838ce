// Package store persists engine inputs as CSV files under a project
// directory and serves them back through the reclass.Source interface.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
)

const dateFormat = "2006-01-02"

// accountSep separates account codes inside a mapping's accounts column.
const accountSep = "|"

var (
	trialBalanceHeader = []string{"client_id", "period", "account", "description", "amount", "note"}
	mappingHeader      = []string{"client_id", "from", "to", "code", "accounts"}
	templateHeader     = []string{"client_id", "period", "run", "code", "description", "base_amount", "sign", "formula"}
	indicatorHeader    = []string{"client_id", "name", "category", "formula", "format", "ce_statistic", "sp_statistic"}
	advanceHeader      = []string{"client_id", "invoice", "bank", "principal", "rate", "start", "deadline", "repaid"}
)

const (
	tbClient = iota
	tbPeriod
	tbAccount
	tbDesc
	tbAmount
	tbNote
)

const (
	mapClient = iota
	mapFrom
	mapTo
	mapCode
	mapAccounts
)

const (
	tplClient = iota
	tplPeriod
	tplRun
	tplCode
	tplDesc
	tplBase
	tplSign
	tplFormula
)

const (
	indClient = iota
	indName
	indCategory
	indFormula
	indFormat
	indCE
	indSP
)

const (
	advClient = iota
	advInvoice
	advBank
	advPrincipal
	advRate
	advStart
	advDeadline
	advRepaid
)

// readRecords reads a CSV with a header row and converts every data row.
func readRecords[T any](r io.Reader, header []string, what string, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", what, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []T
	for i, rec := range records[1:] {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// writeRecords writes rows, preceded by the header when withHeader is set.
func writeRecords[T any](w io.Writer, header []string, withHeader bool, items []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)
	if withHeader {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, item := range items {
		if err := cw.Write(marshal(item)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTrialBalance reads trial-balance.csv.
func ReadTrialBalance(r io.Reader) ([]model.TrialBalanceRow, error) {
	return readRecords(r, trialBalanceHeader, "trial balance", UnmarshalRow)
}

// WriteTrialBalance writes trial-balance.csv including the header.
func WriteTrialBalance(w io.Writer, rows []model.TrialBalanceRow) error {
	return writeRecords(w, trialBalanceHeader, true, rows, MarshalRow)
}

// MarshalRow converts a TrialBalanceRow to a CSV row.
func MarshalRow(row model.TrialBalanceRow) []string {
	rec := make([]string, len(trialBalanceHeader))
	rec[tbClient] = row.ClientID
	rec[tbPeriod] = row.Period.String()
	rec[tbAccount] = row.Account
	rec[tbDesc] = row.Description
	rec[tbAmount] = row.Amount.String()
	rec[tbNote] = row.Note
	return rec
}

// UnmarshalRow converts a CSV row to a TrialBalanceRow.
func UnmarshalRow(rec []string) (model.TrialBalanceRow, error) {
	p, err := period.Parse(rec[tbPeriod])
	if err != nil {
		return model.TrialBalanceRow{}, fmt.Errorf("parsing period: %w", err)
	}
	amount, err := decimal.NewFromString(rec[tbAmount])
	if err != nil {
		return model.TrialBalanceRow{}, fmt.Errorf("parsing amount %q: %w", rec[tbAmount], err)
	}
	if rec[tbAccount] == "" {
		return model.TrialBalanceRow{}, fmt.Errorf("missing account")
	}
	return model.TrialBalanceRow{
		ClientID:    rec[tbClient],
		Period:      p,
		Account:     rec[tbAccount],
		Description: rec[tbDesc],
		Amount:      amount,
		Note:        rec[tbNote],
	}, nil
}

// ReadMappings reads mappings.csv.
func ReadMappings(r io.Reader) ([]model.AccountMapping, error) {
	return readRecords(r, mappingHeader, "mappings", UnmarshalMapping)
}

// WriteMappings writes mappings.csv including the header.
func WriteMappings(w io.Writer, mappings []model.AccountMapping) error {
	return writeRecords(w, mappingHeader, true, mappings, MarshalMapping)
}

// MarshalMapping converts an AccountMapping to a CSV row.
func MarshalMapping(m model.AccountMapping) []string {
	rec := make([]string, len(mappingHeader))
	rec[mapClient] = m.ClientID
	rec[mapFrom] = m.From.String()
	if !m.To.IsZero() {
		rec[mapTo] = m.To.String()
	}
	rec[mapCode] = m.Code
	rec[mapAccounts] = strings.Join(m.Accounts, accountSep)
	return rec
}

// UnmarshalMapping converts a CSV row to an AccountMapping.
func UnmarshalMapping(rec []string) (model.AccountMapping, error) {
	from, err := period.Parse(rec[mapFrom])
	if err != nil {
		return model.AccountMapping{}, fmt.Errorf("parsing from: %w", err)
	}
	var to period.Period
	if rec[mapTo] != "" {
		to, err = period.Parse(rec[mapTo])
		if err != nil {
			return model.AccountMapping{}, fmt.Errorf("parsing to: %w", err)
		}
	}

	var accounts []string
	for _, a := range strings.Split(rec[mapAccounts], accountSep) {
		if a = strings.TrimSpace(a); a != "" {
			accounts = append(accounts, a)
		}
	}

	return model.AccountMapping{
		ClientID: rec[mapClient],
		From:     from,
		To:       to,
		Code:     rec[mapCode],
		Accounts: accounts,
	}, nil
}

// ReadTemplateLines reads template-lines.csv.
func ReadTemplateLines(r io.Reader) ([]model.TemplateLine, error) {
	return readRecords(r, templateHeader, "template", UnmarshalTemplateLine)
}

// WriteTemplateLines writes template-lines.csv including the header.
func WriteTemplateLines(w io.Writer, lines []model.TemplateLine) error {
	return writeRecords(w, templateHeader, true, lines, MarshalTemplateLine)
}

// MarshalTemplateLine converts a TemplateLine to a CSV row. The computed
// amount is not persisted.
func MarshalTemplateLine(l model.TemplateLine) []string {
	rec := make([]string, len(templateHeader))
	rec[tplClient] = l.ClientID
	rec[tplPeriod] = l.Period.String()
	rec[tplRun] = l.Run
	rec[tplCode] = l.Code
	rec[tplDesc] = l.Description
	if !l.BaseAmount.IsZero() {
		rec[tplBase] = l.BaseAmount.String()
	}
	rec[tplSign] = string(l.Sign)
	rec[tplFormula] = l.Formula
	return rec
}

// UnmarshalTemplateLine converts a CSV row to a TemplateLine.
func UnmarshalTemplateLine(rec []string) (model.TemplateLine, error) {
	p, err := period.Parse(rec[tplPeriod])
	if err != nil {
		return model.TemplateLine{}, fmt.Errorf("parsing period: %w", err)
	}
	var base decimal.Decimal
	if rec[tplBase] != "" {
		base, err = decimal.NewFromString(rec[tplBase])
		if err != nil {
			return model.TemplateLine{}, fmt.Errorf("parsing base_amount %q: %w", rec[tplBase], err)
		}
	}
	return model.TemplateLine{
		ClientID:    rec[tplClient],
		Period:      p,
		Run:         rec[tplRun],
		Code:        rec[tplCode],
		Description: rec[tplDesc],
		BaseAmount:  base,
		Sign:        model.Sign(rec[tplSign]),
		Formula:     rec[tplFormula],
	}, nil
}

// ReadIndicators reads indicators.csv.
func ReadIndicators(r io.Reader) ([]model.IndicatorDefinition, error) {
	return readRecords(r, indicatorHeader, "indicators", UnmarshalIndicator)
}

// WriteIndicators writes indicators.csv including the header.
func WriteIndicators(w io.Writer, defs []model.IndicatorDefinition) error {
	return writeRecords(w, indicatorHeader, true, defs, MarshalIndicator)
}

// MarshalIndicator converts an IndicatorDefinition to a CSV row.
func MarshalIndicator(d model.IndicatorDefinition) []string {
	rec := make([]string, len(indicatorHeader))
	rec[indClient] = d.ClientID
	rec[indName] = d.Name
	rec[indCategory] = string(d.Category)
	rec[indFormula] = d.Formula
	rec[indFormat] = string(d.Format)
	rec[indCE] = d.CEStatistic
	rec[indSP] = d.SPStatistic
	return rec
}

// UnmarshalIndicator converts a CSV row to an IndicatorDefinition. Field
// validation happens at evaluation time.
func UnmarshalIndicator(rec []string) (model.IndicatorDefinition, error) {
	return model.IndicatorDefinition{
		ClientID:    rec[indClient],
		Name:        rec[indName],
		Category:    model.IndicatorCategory(rec[indCategory]),
		Formula:     rec[indFormula],
		Format:      model.DisplayFormat(rec[indFormat]),
		CEStatistic: rec[indCE],
		SPStatistic: rec[indSP],
	}, nil
}

// ReadAdvances reads advances.csv.
func ReadAdvances(r io.Reader) ([]model.Advance, error) {
	return readRecords(r, advanceHeader, "advances", UnmarshalAdvance)
}

// WriteAdvances writes advances.csv including the header.
func WriteAdvances(w io.Writer, advances []model.Advance) error {
	return writeRecords(w, advanceHeader, true, advances, MarshalAdvance)
}

// MarshalAdvance converts an Advance to a CSV row.
func MarshalAdvance(a model.Advance) []string {
	rec := make([]string, len(advanceHeader))
	rec[advClient] = a.ClientID
	rec[advInvoice] = a.Invoice
	rec[advBank] = a.Bank
	rec[advPrincipal] = a.Principal.StringFixed(2)
	rec[advRate] = a.Rate.String()
	rec[advStart] = a.Start.Format(dateFormat)
	rec[advDeadline] = a.Deadline.Format(dateFormat)
	if a.Repaid != nil {
		rec[advRepaid] = a.Repaid.Format(dateFormat)
	}
	return rec
}

// UnmarshalAdvance converts a CSV row to an Advance.
func UnmarshalAdvance(rec []string) (model.Advance, error) {
	principal, err := decimal.NewFromString(rec[advPrincipal])
	if err != nil {
		return model.Advance{}, fmt.Errorf("parsing principal %q: %w", rec[advPrincipal], err)
	}
	rate, err := decimal.NewFromString(rec[advRate])
	if err != nil {
		return model.Advance{}, fmt.Errorf("parsing rate %q: %w", rec[advRate], err)
	}
	start, err := time.Parse(dateFormat, rec[advStart])
	if err != nil {
		return model.Advance{}, fmt.Errorf("parsing start %q: %w", rec[advStart], err)
	}
	deadline, err := time.Parse(dateFormat, rec[advDeadline])
	if err != nil {
		return model.Advance{}, fmt.Errorf("parsing deadline %q: %w", rec[advDeadline], err)
	}

	a := model.Advance{
		ClientID:  rec[advClient],
		Invoice:   rec[advInvoice],
		Bank:      rec[advBank],
		Principal: principal,
		Rate:      rate,
		Start:     start,
		Deadline:  deadline,
	}
	if rec[advRepaid] != "" {
		repaid, err := time.Parse(dateFormat, rec[advRepaid])
		if err != nil {
			return model.Advance{}, fmt.Errorf("parsing repaid %q: %w", rec[advRepaid], err)
		}
		a.Repaid = &repaid
	}
	return a, nil
}
