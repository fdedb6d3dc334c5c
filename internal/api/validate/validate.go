package validate

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Collect returns the non-nil field errors as Errs, or nil when there are none.
func Collect(fields ...*ErrField) error {
	var out Errs
	for _, f := range fields {
		if f != nil {
			out = append(out, *f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinLen(field, value string, min int) *ErrField {
	if len(strings.TrimSpace(value)) < min {
		return &ErrField{Field: field, Msg: "must be at least " + strconv.Itoa(min) + " characters"}
	}
	return nil
}

func Email(field, value string) *ErrField {
	at := strings.LastIndex(value, "@")
	if at < 1 || at == len(value)-1 || strings.ContainsAny(value, " \t\n") {
		return &ErrField{Field: field, Msg: "invalid email"}
	}
	return nil
}

func OneOf(field, value string, allowed ...string) *ErrField {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ErrField{Field: field, Msg: "must be one of " + strings.Join(allowed, ", ")}
}

// MaxAmount is the largest value a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Amount accepts strictly positive values with at most two fractional digits.
func Amount(field string, v decimal.Decimal) *ErrField {
	switch {
	case !v.IsPositive():
		return &ErrField{Field: field, Msg: "must be > 0"}
	case !v.Equal(v.Truncate(2)):
		return &ErrField{Field: field, Msg: "at most two decimal places"}
	case v.GreaterThan(MaxAmount):
		return &ErrField{Field: field, Msg: "must be <= " + MaxAmount.StringFixed(2)}
	}
	return nil
}
