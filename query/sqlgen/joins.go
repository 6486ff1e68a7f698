package sqlgen

import (
	"fmt"
	"strings"
)

// Join is one JOIN clause. Joins render in declaration order and are
// only legal on SELECT statements.
type Join struct {
	Kind        string // INNER, LEFT, RIGHT, FULL
	Table       string
	LeftColumn  string
	Operator    string
	RightColumn string
}

func renderJoin(join Join) string {
	kind := strings.ToUpper(join.Kind)
	if kind == "" {
		kind = "INNER"
	}
	return fmt.Sprintf("%s JOIN %s ON %s %s %s",
		kind,
		quoteIdentifier(join.Table),
		quoteIdentifier(join.LeftColumn),
		join.Operator,
		quoteIdentifier(join.RightColumn))
}
