package executor

import (
	"github.com/Knetic/govaluate"

	"github.com/agenticpal/agenticpal"
)

// ExprPrefix marks a string argument as an expression over prior results,
// e.g. "expr: a1_count + 1".
const ExprPrefix = "expr:"

// ExpressionFunctionRegistry allows registration of custom functions for expression evaluation.
type ExpressionFunctionRegistry struct {
	functions map[string]govaluate.ExpressionFunction
}

var globalExprFuncRegistry = &ExpressionFunctionRegistry{functions: make(map[string]govaluate.ExpressionFunction)}

// RegisterExpressionFunction allows users to register a custom function for expressions.
func RegisterExpressionFunction(name string, fn govaluate.ExpressionFunction) {
	globalExprFuncRegistry.functions[name] = fn
}

// getWhitelistedFunctions returns only whitelisted functions for security.
func getWhitelistedFunctions() map[string]govaluate.ExpressionFunction {
	whitelist := map[string]govaluate.ExpressionFunction{}
	for k, v := range globalExprFuncRegistry.functions {
		whitelist[k] = v
	}
	return whitelist
}

// ValidateExpression checks whether an expression parses.
func ValidateExpression(expr string) error {
	_, err := govaluate.NewEvaluableExpressionWithFunctions(expr, getWhitelistedFunctions())
	return err
}

// Evaluate runs an expression against the results gathered so far. Each
// completed action is addressable two ways: by its id (bound to the result
// payload) and by "<id>_<field>" for every entry of its data map, which
// keeps scalar fields usable in arithmetic and comparisons.
func Evaluate(expr string, results map[string]agenticpal.Result) (interface{}, error) {
	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(expr, getWhitelistedFunctions())
	if err != nil {
		return nil, err
	}

	params := make(map[string]interface{}, len(results))
	for id, r := range results {
		params[id] = r.Value()
		for field, v := range r.Data {
			params[id+"_"+field] = v
		}
	}
	return parsed.Evaluate(params)
}
