package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PendingToken is the textual form of a pending cell in JSON, YAML and exports.
const PendingToken = "pending"

// Value is a single forecast cell: either a number or Pending. Pending means the
// value will be supplied at a later stage; it absorbs every arithmetic operation
// it takes part in, so anything derived from it stays pending.
type Value struct {
	n       float64
	pending bool
}

// Pending is the absorbing placeholder value.
var Pending = Value{pending: true}

// Num wraps a float64 as a numeric Value.
func Num(f float64) Value {
	return Value{n: f}
}

// Nums converts a float slice to numeric Values.
func Nums(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Num(f)
	}
	return out
}

// Fill returns n copies of v.
func Fill(n int, v Value) []Value {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// IsPending reports whether v is the pending placeholder.
func (v Value) IsPending() bool { return v.pending }

// Finite reports whether v is a number other than NaN or an infinity.
func (v Value) Finite() bool {
	return !v.pending && !math.IsNaN(v.n) && !math.IsInf(v.n, 0)
}

// Float returns the numeric value and false when v is pending.
func (v Value) Float() (float64, bool) {
	if v.pending {
		return 0, false
	}
	return v.n, true
}

// FloatOr returns the numeric value, or def when v is pending.
func (v Value) FloatOr(def float64) float64 {
	if v.pending {
		return def
	}
	return v.n
}

func (v Value) Add(o Value) Value {
	if v.pending || o.pending {
		return Pending
	}
	return Num(v.n + o.n)
}

func (v Value) Sub(o Value) Value {
	if v.pending || o.pending {
		return Pending
	}
	return Num(v.n - o.n)
}

func (v Value) Mul(o Value) Value {
	if v.pending || o.pending {
		return Pending
	}
	return Num(v.n * o.n)
}

// Div follows IEEE-754 for a zero divisor; callers that need another policy
// check the divisor first.
func (v Value) Div(o Value) Value {
	if v.pending || o.pending {
		return Pending
	}
	return Num(v.n / o.n)
}

// Scale multiplies by a plain float.
func (v Value) Scale(f float64) Value {
	if v.pending {
		return Pending
	}
	return Num(v.n * f)
}

// Equal compares two values exactly. Two pending values are equal.
func (v Value) Equal(o Value) bool {
	if v.pending || o.pending {
		return v.pending == o.pending
	}
	return v.n == o.n
}

// ApproxEqual compares within an absolute tolerance.
func (v Value) ApproxEqual(o Value, tol float64) bool {
	if v.pending || o.pending {
		return v.pending == o.pending
	}
	return math.Abs(v.n-o.n) <= tol
}

func (v Value) String() string {
	if v.pending {
		return PendingToken
	}
	return strconv.FormatFloat(v.n, 'f', -1, 64)
}

// Sum adds all values; the result is pending if any input is.
func Sum(vs ...Value) Value {
	total := Num(0)
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

// ParseValue accepts a finite number or the pending token (case-insensitive).
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, PendingToken) {
		return Pending, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: value %q is neither a number nor %q", ErrInvalidArgument, s, PendingToken)
	}
	if v := Num(f); !v.Finite() {
		return Value{}, fmt.Errorf("%w: value %q is not a finite number", ErrInvalidArgument, s)
	}
	return Num(f), nil
}

// MarshalJSON writes NaN and the infinities as strings since JSON has no
// literal for them.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.pending {
		return json.Marshal(PendingToken)
	}
	if !v.Finite() {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.n)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseValue(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: cannot decode %s as a value", ErrInvalidArgument, string(data))
	}
	*v = Num(f)
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.pending {
		return PendingToken, nil
	}
	return v.n, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar value", ErrInvalidArgument, node.Line)
	}
	parsed, err := ParseValue(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}
