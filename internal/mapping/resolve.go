// Package mapping resolves which ledger accounts feed which statement-line
// code for a scope. One account feeds at most one code.
package mapping

import (
	"sort"
	"strings"

	"github.com/cleared-dev/reclass/internal/ledger"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

// Resolved maps a statement-line code to the accounts it aggregates, plus
// the inverse account to code index.
type Resolved struct {
	byCode    map[string][]string
	byAccount map[string]string
	codes     []string
}

// Resolve unions the client's mappings whose period range intersects the
// scope. An account assigned to two different codes is a
// *shared.ConflictError; repeating the same assignment is harmless.
func Resolve(mappings []model.AccountMapping, scope model.Scope) (Resolved, error) {
	r := Resolved{
		byCode:    make(map[string][]string),
		byAccount: make(map[string]string),
	}

	for _, m := range mappings {
		if m.ClientID != scope.ClientID || !intersects(m, scope) {
			continue
		}
		code := strings.TrimSpace(m.Code)
		if code == "" {
			return Resolved{}, &shared.InputError{Field: "mapping code", Reason: "is empty"}
		}
		for _, raw := range m.Accounts {
			account := strings.TrimSpace(raw)
			if account == "" {
				continue
			}
			if prev, ok := r.byAccount[account]; ok {
				if prev != code {
					return Resolved{}, &shared.ConflictError{Account: account, Code: prev, OtherCode: code}
				}
				continue
			}
			r.byAccount[account] = code
			if _, ok := r.byCode[code]; !ok {
				r.codes = append(r.codes, code)
			}
			r.byCode[code] = append(r.byCode[code], account)
		}
	}

	for _, accounts := range r.byCode {
		sort.Strings(accounts)
	}
	sort.Strings(r.codes)
	return r, nil
}

func intersects(m model.AccountMapping, scope model.Scope) bool {
	for _, p := range scope.Periods {
		if m.Covers(p) {
			return true
		}
	}
	return false
}

// Codes returns the mapped statement-line codes, sorted.
func (r Resolved) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Accounts returns the accounts feeding code, sorted.
func (r Resolved) Accounts(code string) []string {
	src := r.byCode[code]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// CodeFor returns the code an account maps to.
func (r Resolved) CodeFor(account string) (string, bool) {
	code, ok := r.byAccount[account]
	return code, ok
}

// Totals sums account totals per statement-line code. A code none of whose
// accounts carries a total is absent.
func (r Resolved) Totals(accountTotals ledger.Totals) ledger.Totals {
	out := make(ledger.Totals)
	for _, code := range r.codes {
		for _, account := range r.byCode[code] {
			v, ok := accountTotals[account]
			if !ok {
				continue
			}
			out[code] = out[code].Add(v)
		}
	}
	return out
}

// Unmapped returns the accounts carrying a total but no mapping, sorted.
func (r Resolved) Unmapped(accountTotals ledger.Totals) []string {
	var out []string
	for _, account := range accountTotals.Codes() {
		if _, ok := r.byAccount[account]; !ok {
			out = append(out, account)
		}
	}
	return out
}
