// Package validate turns valgo validations into flat rejection reasons.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// Reasons lists "field: message" pairs for a failed validation, sorted by
// field. A valid validation yields nil.
func Reasons(v *valgo.Validation) []string {
	if v == nil || v.Valid() {
		return nil
	}
	errs := v.Errors()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s: %s", name, strings.Join(errs[name].Messages(), "; ")))
	}
	return out
}

// Finite is a valgo predicate for finite floats.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FiniteVector rejects empty and non-finite vectors.
func FiniteVector(u vector.Vector, name string) valgo.Validator {
	return valgo.Any(u, name).Passing(func(v any) bool {
		vec, ok := v.(vector.Vector)
		return ok && len(vec) > 0 && vec.Finite()
	}, "{{title}} must be a non-empty vector of finite numbers")
}
