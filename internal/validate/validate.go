// Package validate builds setting validators, including validators declared
// as expressions in the configuration file.
package validate

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jmylchreest/linkuprefs/internal/persisted"
)

// OneOf accepts values contained in allowed.
func OneOf[T comparable](allowed ...T) persisted.Validator[T] {
	return func(v T) bool {
		return slices.Contains(allowed, v)
	}
}

// All accepts a value only when every non-nil validator accepts it.
// It returns nil when no validators are given, so the result can be
// passed straight to persisted.New.
func All[T any](validators ...persisted.Validator[T]) persisted.Validator[T] {
	var active []persisted.Validator[T]
	for _, v := range validators {
		if v != nil {
			active = append(active, v)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(v T) bool {
		for _, fn := range active {
			if !fn(v) {
				return false
			}
		}
		return true
	}
}

// Expr compiles a boolean expression over `value` into a validator.
// The value is exposed in its JSON shape (objects as maps, numbers as
// float64) so expressions read the same way the stored payload does.
// An expression that fails at run time rejects the value.
func Expr[T any](source string) (persisted.Validator[T], error) {
	if source == "" {
		return nil, fmt.Errorf("validator expression must not be empty")
	}

	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile validator %q: %w", source, err)
	}

	return func(v T) bool {
		return run(program, v)
	}, nil
}

func run[T any](program *vm.Program, v T) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}

	out, err := expr.Run(program, map[string]any{"value": value})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
