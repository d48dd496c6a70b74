package evaluator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/antonmedv/expr"
)

var (
	// ErrInvalidExpression is returned when an expression fails to compile,
	// including references to paths outside the known parameter namespace.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrAttributeMissing is returned when an expression references a
	// parameter that is absent from the evaluation context. Distinct from an
	// expression that evaluates to false.
	ErrAttributeMissing = errors.New("attribute not found in evaluation context")
)

type Expression string

func (e Expression) String() string {
	return string(e)
}

type ExprParam map[string]interface{}

func (m ExprParam) Split(s, sep string) []string {
	return strings.Split(s, sep)
}

// Validate compiles the expression without running it. Used by policy
// validation so that a broken expression is caught at policy creation
// instead of at appeal evaluation time.
func (e Expression) Validate() error {
	if _, err := expr.Compile(e.String()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidExpression, err)
	}
	return nil
}

// EvaluateWithVars runs the expression against the given parameters.
// Parameters are referenced with a "$" prefix, e.g. $appeal, $requester,
// $resource. Referencing a parameter that is not present in params returns
// ErrAttributeMissing.
func (e Expression) EvaluateWithVars(params map[string]interface{}) (interface{}, error) {
	program, err := expr.Compile(e.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExpression, err)
	}

	env := make(ExprParam)

	for _, c := range program.Constants {
		if reflect.TypeOf(c).Kind() == reflect.String {
			paramKey := reflect.ValueOf(c).String()
			if strings.HasPrefix(paramKey, "$") {
				key := strings.TrimPrefix(paramKey, "$")
				if _, ok := params[key]; !ok {
					return nil, fmt.Errorf("%w: %s", ErrAttributeMissing, key)
				} else {
					env[paramKey] = params[key]
				}
			}
		}
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf(`evaluating expression "%s": %w`, e, err)
	}
	return result, nil
}

// IsTruthy reports whether an evaluated expression value counts as true.
// Zero values ("", 0, false, nil) are falsy.
func IsTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	return !reflect.ValueOf(v).IsZero()
}
