// Package mapping holds the AQL function dispatch table: the fixed list
// of built-in function names the translator recognizes and how each one
// renders to SQLite SQL.
package mapping

import (
	"sort"
	"strings"
)

// Formatter renders a call to an AQL function given its already-translated
// SQL argument expressions. Most entries don't need one — a plain SQL
// function name and the default call-syntax renderer cover them.
type Formatter func(args []string) string

// FunctionEntry binds one AQL function name to either a same-arity SQL
// function name or a custom Formatter, for functions whose SQL spelling
// isn't a plain call (concatenate becomes an infix "||" chain).
type FunctionEntry struct {
	AQLName string
	SQLName string
	Format  Formatter
}

// Render produces the SQL text for a call to this entry given its
// translated argument expressions.
func (e FunctionEntry) Render(args []string) string {
	if e.Format != nil {
		return e.Format(args)
	}
	return formatCall(e.SQLName, args)
}

// table must stay sorted by AQLName; Lookup binary-searches it the way the
// reference translator binary-searches its sqlite3FunctionMap.
var table = []FunctionEntry{
	{AQLName: "abs", SQLName: "abs"},
	{AQLName: "coalesce", SQLName: "coalesce"},
	{AQLName: "concatenate", Format: formatConcatenate},
	{AQLName: "length", SQLName: "length"},
	{AQLName: "random", SQLName: "random"},
	{AQLName: "to-lower", SQLName: "lower"},
	{AQLName: "to-upper", SQLName: "upper"},
	{AQLName: "type-of", SQLName: "typeof"},
}

// Lookup finds the dispatch table entry for an AQL function name. ok is
// false for any name the table doesn't carry.
func Lookup(aqlName string) (entry FunctionEntry, ok bool) {
	i := sort.Search(len(table), func(i int) bool {
		return table[i].AQLName >= aqlName
	})
	if i == len(table) || table[i].AQLName != aqlName {
		return FunctionEntry{}, false
	}
	return table[i], true
}

func formatCall(name string, args []string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
	}
	b.WriteByte(')')
	return b.String()
}

// formatConcatenate renders concatenate(a, b, c) as ((a) || (b) || (c)),
// SQLite having no variadic concat function.
func formatConcatenate(args []string) string {
	if len(args) == 0 {
		return "''"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(" || ")
		}
		b.WriteByte('(')
		b.WriteString(a)
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}
