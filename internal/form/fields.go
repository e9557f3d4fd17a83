// Package form holds the state of the property-flip calculator form: the raw
// field values, per-field validation messages, the submission lifecycle and
// the resulting summary or error banner.
package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/flip-calculator/internal/calculator"
	"github.com/iwvelando/flip-calculator/pkg/constants"
)

// Field names one input of the form.
type Field string

// Form inputs, named as they appear in the calculation payload.
const (
	PurchasePrice   Field = "purchase_price"
	StampDuty       Field = "stamp_duty"
	LegalFees       Field = "legal_fees"
	AgentFeesBuy    Field = "agent_fees_buy"
	RenovationCosts Field = "renovation_costs"
	ResalePrice     Field = "resale_price"
	SellingCosts    Field = "selling_costs"
)

// Fields lists every input in display order.
var Fields = []Field{
	PurchasePrice,
	StampDuty,
	LegalFees,
	AgentFeesBuy,
	RenovationCosts,
	ResalePrice,
	SellingCosts,
}

// ParseField resolves a field name, reporting whether it is known.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Label is the human-readable name, e.g. "agent fees buy".
func (f Field) Label() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// FormData maps each field to its raw text value.
type FormData map[Field]string

// NewFormData returns form data with every field present and empty.
func NewFormData() FormData {
	data := make(FormData, len(Fields))
	for _, f := range Fields {
		data[f] = ""
	}
	return data
}

// ValidationErrors maps a field to its message. A missing or empty entry
// means the field is valid.
type ValidationErrors map[Field]string

// Valid reports whether no field carries a message.
func (v ValidationErrors) Valid() bool {
	for _, msg := range v {
		if msg != "" {
			return false
		}
	}
	return true
}

// ValidateField checks one raw value and returns its message, or "" when the
// value is acceptable. Every field shares the same rule.
func ValidateField(_ Field, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return constants.MsgFieldEmpty
	}
	value, ok := parseNumber(trimmed)
	if !ok {
		return constants.MsgFieldNotNumber
	}
	if value < 0 {
		return constants.MsgFieldNegative
	}
	return ""
}

// numberPrefix matches the leading decimal number of a value, so "12abc"
// reads as 12 and "1,000" as 1, the way browsers read number fields.
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseNumber reads the leading number of s. Values with no leading digits
// and values that overflow to infinity are rejected: neither can be sent as
// a JSON number.
func parseNumber(s string) (float64, bool) {
	prefix := numberPrefix.FindString(s)
	if prefix == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// Coerce converts raw values into the numeric payload. Blank or unparsable
// values become zero; callers validate first.
func Coerce(data FormData) calculator.Request {
	num := func(f Field) float64 {
		value, ok := parseNumber(strings.TrimSpace(data[f]))
		if !ok {
			return 0
		}
		return value
	}
	return calculator.Request{
		PurchasePrice:   num(PurchasePrice),
		StampDuty:       num(StampDuty),
		LegalFees:       num(LegalFees),
		AgentFeesBuy:    num(AgentFeesBuy),
		RenovationCosts: num(RenovationCosts),
		ResalePrice:     num(ResalePrice),
		SellingCosts:    num(SellingCosts),
	}
}
