// Package filter evaluates AIP-160 filter expressions against in-memory
// records whose fields are all strings.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Record is a flattened view of one entity, keyed by filter field name.
type Record map[string]string

// Matcher reports whether a record satisfies a compiled filter.
type Matcher struct {
	root *expr.Expr
}

// MatchAll is the matcher for an empty filter.
var MatchAll = Matcher{}

// Compile parses filterStr against the declared string fields. An empty
// filter compiles to MatchAll.
func Compile(filterStr string, fields ...string) (Matcher, error) {
	if strings.TrimSpace(filterStr) == "" {
		return MatchAll, nil
	}

	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, field := range fields {
		opts = append(opts, filtering.DeclareIdent(field, filtering.TypeString))
	}
	decls, err := filtering.NewDeclarations(opts...)
	if err != nil {
		return Matcher{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Matcher{}, fmt.Errorf("parse filter: %w", err)
	}
	if parsed.CheckedExpr == nil {
		return MatchAll, nil
	}
	root := parsed.CheckedExpr.GetExpr()
	if err := validate(root); err != nil {
		return Matcher{}, err
	}
	return Matcher{root: root}, nil
}

// Match reports whether record satisfies the filter.
func (m Matcher) Match(record Record) bool {
	if m.root == nil {
		return true
	}
	ok, err := eval(m.root, record)
	return err == nil && ok
}

// validate rejects expression shapes eval cannot handle so that Match never
// fails at evaluation time.
func validate(e *expr.Expr) error {
	if e == nil {
		return fmt.Errorf("nil expression")
	}
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	switch call.CallExpr.GetFunction() {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd, filtering.FunctionOr:
		if len(call.CallExpr.GetArgs()) != 2 {
			return fmt.Errorf("%s requires 2 arguments", call.CallExpr.GetFunction())
		}
		for _, arg := range call.CallExpr.GetArgs() {
			if err := validate(arg); err != nil {
				return err
			}
		}
		return nil
	case filtering.FunctionNot:
		if len(call.CallExpr.GetArgs()) != 1 {
			return fmt.Errorf("NOT requires 1 argument")
		}
		return validate(call.CallExpr.GetArgs()[0])
	case filtering.FunctionEquals, filtering.FunctionNotEquals, filtering.FunctionHas:
		args := call.CallExpr.GetArgs()
		if len(args) != 2 {
			return fmt.Errorf("comparison requires 2 arguments")
		}
		if _, err := extractFieldName(args[0]); err != nil {
			return err
		}
		if _, err := extractValue(args[1]); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported function: %s", call.CallExpr.GetFunction())
	}
}

func eval(e *expr.Expr, record Record) (bool, error) {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return false, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	args := call.CallExpr.GetArgs()
	switch call.CallExpr.GetFunction() {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd:
		left, err := eval(args[0], record)
		if err != nil || !left {
			return false, err
		}
		return eval(args[1], record)
	case filtering.FunctionOr:
		left, err := eval(args[0], record)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return eval(args[1], record)
	case filtering.FunctionNot:
		inner, err := eval(args[0], record)
		return !inner, err
	case filtering.FunctionEquals, filtering.FunctionNotEquals, filtering.FunctionHas:
		field, err := extractFieldName(args[0])
		if err != nil {
			return false, err
		}
		want, err := extractValue(args[1])
		if err != nil {
			return false, err
		}
		got := record[field]
		switch call.CallExpr.GetFunction() {
		case filtering.FunctionEquals:
			return got == want, nil
		case filtering.FunctionNotEquals:
			return got != want, nil
		default:
			return strings.Contains(strings.ToLower(got), strings.ToLower(want)), nil
		}
	default:
		return false, fmt.Errorf("unsupported function: %s", call.CallExpr.GetFunction())
	}
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.GetName(), nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	constant, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return "", fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := constant.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return strconv.FormatInt(kind.Int64Value, 10), nil
	case *expr.Constant_BoolValue:
		return strconv.FormatBool(kind.BoolValue), nil
	default:
		return "", fmt.Errorf("unsupported constant type: %T", kind)
	}
}
