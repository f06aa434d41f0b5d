package pipeline

import (
	"fmt"
	"reflect"
	"strings"
)

// NameSteps derives a step name for each estimator from its lowercased
// type name. When a type occurs more than once the occurrences get a "-N"
// suffix counting down from the duplicate count, so the first occurrence
// carries the highest number.
func NameSteps(estimators ...any) []Step {
	names := make([]string, len(estimators))
	for i, e := range estimators {
		names[i] = typeName(e)
	}

	count := make(map[string]int, len(names))
	for _, n := range names {
		count[n]++
	}
	for n, c := range count {
		if c == 1 {
			delete(count, n)
		}
	}

	steps := make([]Step, len(estimators))
	for i, e := range estimators {
		name := names[i]
		if c, ok := count[name]; ok {
			name = fmt.Sprintf("%s-%d", name, c)
			count[names[i]]--
		}
		steps[i] = Step{Name: name, Estimator: e}
	}
	return steps
}

func typeName(e any) string {
	t := reflect.TypeOf(e)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "nil"
	}
	name := t.Name()
	if name == "" {
		// unnamed types fall back to their full string form
		name = t.String()
	}
	return strings.ToLower(name)
}
