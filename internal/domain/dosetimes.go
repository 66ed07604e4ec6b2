// Package domain: dose-times codec.
//
// Medication dosing times are stored as a single comma-joined string
// ("08:00,12:00"). Every piece of code that reads or writes that column goes
// through SplitDoseTimes / JoinDoseTimes so the encoding cannot drift between
// the medication handlers, the prescription flow, and the adherence view.
package domain

import "strings"

// SplitDoseTimes decodes a stored times string into an ordered list of
// "HH:MM" values. An empty or all-whitespace input yields an empty slice,
// never a slice containing one empty string. Blank segments ("08:00,,12:00")
// are dropped; surrounding whitespace per segment is trimmed.
func SplitDoseTimes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinDoseTimes encodes an ordered list of "HH:MM" values into the stored
// comma-joined form, dropping blank entries and trimming whitespace. The
// declared order is preserved; it is the order the adherence view reports.
func JoinDoseTimes(times []string) string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}
