// Package printer renders an AQL tree back to its list surface syntax. It
// is the inverse of package parser for any tree in the parser's image:
// parser.Parse(printer.Print(q)) reproduces a structurally equal tree.
package printer

import (
	"strconv"
	"strings"

	"github.com/aqlgraph/aql/ast"
)

// Print renders query as canonical, indented AQL list syntax.
func Print(query *ast.Query) string {
	p := &printer{}
	p.printQuery(query)
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *printer) printQuery(q *ast.Query) {
	p.buf.WriteString("(aql-query")
	p.indent++

	for _, sel := range q.Selects {
		p.newline()
		p.printSelect(sel)
	}
	for _, join := range q.Joins {
		p.newline()
		p.printJoin(join)
	}
	if q.Criterion != nil {
		p.newline()
		p.buf.WriteString("(criterion ")
		p.printExpr(q.Criterion)
		p.buf.WriteByte(')')
	}
	for _, sort := range q.Sorts {
		p.newline()
		p.printSort(sort)
	}
	if q.MaxRows >= 0 {
		p.newline()
		p.buf.WriteString("(result-max-rows ")
		p.buf.WriteString(strconv.Itoa(q.MaxRows))
		p.buf.WriteByte(')')
	}
	if q.RowOffset >= 0 {
		p.newline()
		p.buf.WriteString("(result-row-offset ")
		p.buf.WriteString(strconv.Itoa(q.RowOffset))
		p.buf.WriteByte(')')
	}

	p.indent--
	p.newline()
	p.buf.WriteByte(')')
}

func (p *printer) printSelect(s *ast.Select) {
	p.buf.WriteString("(select ")
	p.printString(s.Label)
	p.buf.WriteByte(' ')
	p.printExpr(s.Expr)
	p.buf.WriteByte(')')
}

func (p *printer) printJoin(j *ast.Join) {
	p.buf.WriteString("(join ")
	switch j.Kind {
	case ast.LeftOuter:
		p.buf.WriteString("left ")
	case ast.Inner:
		p.buf.WriteString("inner ")
	}
	p.printString(j.Name)
	p.buf.WriteByte(' ')
	p.printExpr(j.Criterion)
	p.buf.WriteByte(')')
}

func (p *printer) printSort(s *ast.Sort) {
	p.buf.WriteString("(sort ")
	if s.Ascending {
		p.buf.WriteString("ascending ")
	} else {
		p.buf.WriteString("descending ")
	}
	p.printExpr(s.Expr)
	p.buf.WriteByte(')')
}

// printExpr handles every Expr kind the parser can produce, plus
// PropertyReference: a tree the optimizer has rewritten still prints as a
// plain property, since the reference/value distinction is a translator
// concern invisible at the AQL surface syntax level.
func (p *printer) printExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		p.buf.WriteString("(literal ")
		p.printString(n.Value)
		p.buf.WriteByte(')')

	case *ast.Property:
		p.printProperty(n.JoinName, n.Part)

	case *ast.PropertyReference:
		p.printProperty(n.JoinName, n.Part)

	case *ast.Function:
		p.buf.WriteString("(function ")
		p.printString(n.Name)
		for _, arg := range n.Args {
			p.buf.WriteByte(' ')
			p.printExpr(arg)
		}
		p.buf.WriteByte(')')

	case *ast.Not:
		p.buf.WriteString("(not ")
		p.printExpr(n.Expr)
		p.buf.WriteByte(')')

	case *ast.Junction:
		switch n.Kind {
		case ast.And:
			p.buf.WriteString("(and")
		case ast.Or:
			p.buf.WriteString("(or")
		}
		for _, term := range n.Terms {
			p.buf.WriteByte(' ')
			p.printExpr(term)
		}
		p.buf.WriteByte(')')

	case *ast.Comparison:
		switch n.Op {
		case ast.EQ:
			p.buf.WriteString("(comp-eq ")
		case ast.NE:
			p.buf.WriteString("(comp-ne ")
		}
		p.printExpr(n.Left)
		p.buf.WriteByte(' ')
		p.printExpr(n.Right)
		p.buf.WriteByte(')')

	default:
		panic("printer: unknown expression type")
	}
}

func (p *printer) printProperty(joinName string, part ast.Part) {
	p.buf.WriteString("(property ")
	p.printString(joinName)
	p.buf.WriteByte(' ')
	p.buf.WriteString(part.String())
	p.buf.WriteByte(')')
}

// printString re-escapes a string the way the scanner can read back: \n,
// \r, \\ and \" are the only escapes parser.Parse accepts, so those are
// the only ones Print ever needs to produce for a literal that the parser
// itself could have built.
func (p *printer) printString(s string) {
	p.buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			p.buf.WriteString(`\n`)
		case '\r':
			p.buf.WriteString(`\r`)
		case '\\':
			p.buf.WriteString(`\\`)
		case '"':
			p.buf.WriteString(`\"`)
		default:
			p.buf.WriteByte(c)
		}
	}
	p.buf.WriteByte('"')
}
