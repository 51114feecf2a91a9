// Package buildutil provides utilities for extracting attributes from
// buildtools AST nodes.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// Attr returns the expression bound to the named keyword argument of call.
func Attr(call *build.CallExpr, name string) (build.Expr, bool) {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS, true
	}
	return nil, false
}

// String extracts a string attribute from a function call by name.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	rhs, ok := Attr(call, name)
	if !ok {
		return ""
	}
	if str, ok := rhs.(*build.StringExpr); ok {
		return str.Value
	}
	return ""
}

// ExtractValue converts a build.Expr to a Go value.
// Handles strings, integers (int64), floats (float64), negated numbers,
// booleans (True/False/None), lists and dicts with string keys.
// Returns the raw expression for unhandled types.
func ExtractValue(expr build.Expr) any {
	switch e := expr.(type) {
	case *build.StringExpr:
		return e.Value
	case *build.LiteralExpr:
		if val, err := strconv.ParseInt(e.Token, 0, 64); err == nil {
			return val
		}
		if val, err := strconv.ParseFloat(e.Token, 64); err == nil {
			return val
		}
		return e.Token
	case *build.UnaryExpr:
		if e.Op == "-" {
			switch v := ExtractValue(e.X).(type) {
			case int64:
				return -v
			case float64:
				return -v
			}
		}
		return expr
	case *build.Ident:
		switch e.Name {
		case "True":
			return true
		case "False":
			return false
		case "None":
			return nil
		default:
			return expr
		}
	case *build.ListExpr:
		result := make([]any, 0, len(e.List))
		for _, item := range e.List {
			result = append(result, ExtractValue(item))
		}
		return result
	case *build.TupleExpr:
		result := make([]any, 0, len(e.List))
		for _, item := range e.List {
			result = append(result, ExtractValue(item))
		}
		return result
	case *build.DictExpr:
		result := make(map[string]any)
		for _, kv := range e.List {
			if keyStr, ok := kv.Key.(*build.StringExpr); ok {
				result[keyStr.Value] = ExtractValue(kv.Value)
			}
		}
		return result
	default:
		return expr
	}
}

// IsPlainValue reports whether v, as returned by ExtractValue, contains no
// unconverted build expressions.
func IsPlainValue(v any) bool {
	switch x := v.(type) {
	case build.Expr:
		return false
	case []any:
		for _, item := range x {
			if !IsPlainValue(item) {
				return false
			}
		}
	case map[string]any:
		for _, item := range x {
			if !IsPlainValue(item) {
				return false
			}
		}
	}
	return true
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}
