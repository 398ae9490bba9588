package bridge

import (
	"math"
	"strings"
)

// Neutral values applied when a generation result leaves a field out.
const (
	neutralScore = 0.5
	noRisk       = 0.0
)

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// score resolves an optional 0-1 field: absent takes def, present is clamped.
func score(v *float64, def float64) float64 {
	if v == nil {
		return clamp01(def)
	}
	return clamp01(*v)
}

// firstScore returns the first present value among vs, clamped, or def.
func firstScore(def float64, vs ...*float64) float64 {
	for _, v := range vs {
		if v != nil {
			return clamp01(*v)
		}
	}
	return clamp01(def)
}

func number(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func text(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
