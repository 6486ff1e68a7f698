package sqlgen

import (
	"fmt"
	"reflect"
	"strings"
)

// Condition is one atomic comparison plus the connective joining it to
// the previous condition in the chain.
type Condition struct {
	Connective string // "AND" or "OR"; ignored on the first condition
	Column     string // possibly dotted "table.column"
	Operator   string // =, !=, >, <, >=, <=, LIKE, ILIKE, IN, NOT IN, IS, IS NOT
	Value      interface{}
}

// buildWhere renders the condition sequence left to right, threading
// the global argument index through each condition. The first
// condition carries no connective prefix; every later one is prefixed
// with its own. Chains are left-associative and never parenthesized,
// so mixing AND and OR changes precedence purely by position.
func buildWhere(conditions []Condition, argIndex *int) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	for i, cond := range conditions {
		if i > 0 {
			sb.WriteString(" " + cond.Connective + " ")
		}
		fragment, condArgs := renderCondition(cond, argIndex)
		sb.WriteString(fragment)
		args = append(args, condArgs...)
	}
	return sb.String(), args
}

func renderCondition(cond Condition, argIndex *int) (string, []interface{}) {
	col := quoteIdentifier(cond.Column)

	switch cond.Operator {
	case "IN", "NOT IN":
		values := toValueList(cond.Value)
		if len(values) == 0 {
			// Empty-set semantics: membership in nothing is always
			// false, membership in nothing's complement always true.
			if cond.Operator == "IN" {
				return "1=0", nil
			}
			return "1=1", nil
		}
		placeholders := make([]string, len(values))
		args := make([]interface{}, len(values))
		for i, v := range values {
			placeholders[i] = fmt.Sprintf("$%d", *argIndex)
			args[i] = v
			(*argIndex)++
		}
		return fmt.Sprintf("%s %s (%s)", col, cond.Operator, strings.Join(placeholders, ", ")), args

	case "IS", "IS NOT":
		// IS/IS NOT operands are rendered inline, never bound.
		if cond.Value == nil {
			return fmt.Sprintf("%s %s NULL", col, cond.Operator), nil
		}
		return fmt.Sprintf("%s %s %v", col, cond.Operator, cond.Value), nil

	default:
		fragment := fmt.Sprintf("%s %s $%d", col, cond.Operator, *argIndex)
		(*argIndex)++
		return fragment, []interface{}{cond.Value}
	}
}

// toValueList normalizes an IN/NOT IN operand to a flat value slice.
// Any slice type is accepted; a non-slice value becomes a one-element
// list.
func toValueList(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	if values, ok := v.([]interface{}); ok {
		return values
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []interface{}{v}
	}
	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values
}
