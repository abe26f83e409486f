package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// amountSentinel is how an unspecified amount is written to disk.
	amountSentinel = "-"
	// UnspecifiedText is how an unspecified amount is shown to the user.
	UnspecifiedText = "unspecified"
)

// Amount is either a non-negative quantity or the "unspecified" sentinel.
// The zero value is unspecified.
type Amount struct {
	value float64
	set   bool
}

// Unspecified is the amount used with the quantity-free unit.
var Unspecified = Amount{}

// Quantity returns a numeric amount.
func Quantity(v float64) Amount {
	return Amount{value: v, set: true}
}

// IsUnspecified reports whether a is the sentinel.
func (a Amount) IsUnspecified() bool { return !a.set }

// Value returns the numeric quantity, or 0 for the sentinel.
func (a Amount) Value() float64 { return a.value }

func (a Amount) String() string {
	if !a.set {
		return UnspecifiedText
	}
	return strconv.FormatFloat(a.value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return json.Marshal(amountSentinel)
	}
	return json.Marshal(a.value)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Unspecified
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return a.parseText(s)
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Quantity(v)
	return nil
}

func (a *Amount) parseText(s string) error {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", amountSentinel, UnspecifiedText:
		*a = Unspecified
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount: %q is neither a number nor %q", s, amountSentinel)
	}
	*a = Quantity(v)
	return nil
}
