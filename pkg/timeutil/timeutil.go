// Package timeutil keeps stored timestamps uniform: everything persisted or
// compared goes through UTC at second precision.
package timeutil

import "time"

// NormalizeUTC truncates to whole seconds in UTC for storage and comparison.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
