// Package validator provides a custom Validator type for accumulating
// field-level validation errors, plus composable date rules and the
// cross-field checks used by the catalog forms.
package validator

import (
	"regexp"
	"time"
)

// EmailRX is a compiled regular expression for basic email validation.
var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validator holds a map of field names to their validation error messages.
// A field may accumulate more than one message: every rule attached to a
// field is evaluated and every failure is recorded, so the caller sees
// the full picture in one round trip. A Validator with an empty Errors
// map is considered valid.
type Validator struct {
	Errors map[string][]string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message. Messages for
// the same key accumulate; none are dropped.
func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Default messages for the date rules. Callers override them by passing
// a non-empty message at rule construction.
const (
	MsgDateInPast       = "invalid date - renewal in past"
	MsgDateTooFarAhead  = "invalid date - renewal more than 4 weeks ahead"
	MsgDeathBeforeBirth = "death date is before birth date"
	MsgSameName         = "first name and last name can't be the same"
)

// DateRule checks a single calendar date. It reports whether the value
// passes and, on failure, the message to attach to the field.
type DateRule func(value time.Time) (ok bool, message string)

// MinDate builds a rule that fails when the value falls before reference.
// An empty message selects the default.
func MinDate(reference time.Time, message string) DateRule {
	if message == "" {
		message = MsgDateInPast
	}
	return func(value time.Time) (bool, string) {
		return !value.Before(reference), message
	}
}

// MaxDate builds a rule that fails when the value falls after
// reference+horizon. The boundary itself passes.
func MaxDate(reference time.Time, horizon time.Duration, message string) DateRule {
	if message == "" {
		message = MsgDateTooFarAhead
	}
	limit := reference.Add(horizon)
	return func(value time.Time) (bool, string) {
		return !value.After(limit), message
	}
}

// CheckDate runs every rule against value and records every failure
// under key. Rules are not short-circuited.
func (v *Validator) CheckDate(key string, value time.Time, rules ...DateRule) {
	for _, rule := range rules {
		if ok, message := rule(value); !ok {
			v.AddError(key, message)
		}
	}
}

// DateOrder reports whether birth and death are consistently ordered.
// Either value being absent passes; death on the same day as birth passes.
func DateOrder(birth, death *time.Time) bool {
	if birth == nil || death == nil {
		return true
	}
	return !death.Before(*birth)
}

// DistinctNames reports whether first and last are usable as a name
// pair. Both present and exactly equal (case-sensitive) fails; an empty
// value on either side passes, since requiredness is a separate check.
func DistinctNames(first, last string) bool {
	if first == "" || last == "" {
		return true
	}
	return first != last
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// Unique returns true if every string in values is distinct.
func Unique(values []string) bool {
	seen := make(map[string]bool)
	for _, v := range values {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
