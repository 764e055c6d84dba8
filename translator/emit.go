package translator

import (
	"strconv"
	"strings"

	"github.com/aqlgraph/aql/ast"
	"github.com/aqlgraph/aql/mapping"
)

const maxInt32 = 2147483647

// functionFrame holds the state needed to finish rendering one function
// call: its dispatch table entry, the SQL text accumulated before the call
// started, and each argument's rendered SQL text as it completes.
type functionFrame struct {
	entry mapping.FunctionEntry
	saved string
	args  []string
}

// sqlEmitter is the visitor that writes SQL text for an already
// alias-planned query. It embeds BaseVisitor so it only needs to override
// the hooks that actually produce output.
type sqlEmitter struct {
	ast.BaseVisitor

	planner *aliasPlanner
	buf     strings.Builder
	selects int
	funcs   []*functionFrame
	err     *CompileError
}

func (e *sqlEmitter) fail(format string, args ...interface{}) {
	if e.err == nil {
		e.err = errorf(format, args...)
	}
}

func (e *sqlEmitter) VisitQueryBeforeSelects(*ast.Query) {
	e.buf.WriteString("SELECT")
	e.selects = 0
}

func (e *sqlEmitter) VisitQueryAfterSelects(*ast.Query) {
	alias, ok := e.planner.lookupTripleJoin("root")
	if !ok {
		e.fail("internal error: root join was never declared")
		return
	}
	e.buf.WriteString("\n  FROM triple AS ")
	e.buf.WriteString(alias)
	e.writeUsedNodeJoins("root", ast.Inner)
}

func (e *sqlEmitter) VisitSelectBefore(*ast.Select) {
	if e.selects == 0 {
		e.buf.WriteByte(' ')
	} else {
		e.buf.WriteString(", ")
	}
}

func (e *sqlEmitter) VisitSelectAfter(*ast.Select) {
	e.buf.WriteString(" AS col")
	e.buf.WriteString(strconv.Itoa(e.selects))
	e.selects++
}

func (e *sqlEmitter) VisitJoinBefore(join *ast.Join) {
	alias, ok := e.planner.lookupTripleJoin(join.Name)
	if !ok {
		e.fail("internal error: join %q was never declared", join.Name)
		return
	}
	switch join.Kind {
	case ast.LeftOuter:
		e.buf.WriteString("\n  LEFT  JOIN triple AS ")
	case ast.Inner:
		e.buf.WriteString("\n  INNER JOIN triple AS ")
	}
	e.buf.WriteString(alias)
	if join.Criterion != nil {
		e.buf.WriteString(" ON (")
	}
}

func (e *sqlEmitter) VisitJoinAfter(join *ast.Join) {
	if join.Criterion != nil {
		e.buf.WriteString(")")
	}
	e.writeUsedNodeJoins(join.Name, join.Kind)
}

func (e *sqlEmitter) writeUsedNodeJoins(joinName string, kind ast.JoinKind) {
	tripleAlias, ok := e.planner.lookupTripleJoin(joinName)
	if !ok {
		return
	}
	for _, part := range e.planner.usedParts(joinName) {
		e.buf.WriteString("\n     ")
		if kind == ast.LeftOuter {
			e.buf.WriteString("LEFT ")
		} else {
			e.buf.WriteString("INNER")
		}
		e.buf.WriteString(" JOIN node AS ")
		e.buf.WriteString(tripleAlias)
		e.buf.WriteByte('_')
		e.buf.WriteByte(part.Char())
		e.buf.WriteString(" ON (")
		e.buf.WriteString(tripleAlias)
		e.buf.WriteByte('.')
		e.buf.WriteByte(part.Char())
		e.buf.WriteByte('=')
		e.buf.WriteString(tripleAlias)
		e.buf.WriteByte('_')
		e.buf.WriteByte(part.Char())
		e.buf.WriteString(".id)")
	}
}

func (e *sqlEmitter) VisitQueryBeforeCriterion(q *ast.Query) {
	if q.Criterion != nil {
		e.buf.WriteString("\n WHERE ")
	}
}

func (e *sqlEmitter) VisitProperty(p *ast.Property) {
	alias, ok := e.planner.lookupNodeJoin(p.JoinName, p.Part)
	if !ok {
		e.fail("internal error: no node join alias for %s.%s", p.JoinName, p.Part)
		return
	}
	e.buf.WriteString(alias)
	e.buf.WriteString(".str")
}

func (e *sqlEmitter) VisitPropertyReference(p *ast.PropertyReference) {
	alias, ok := e.planner.lookupTripleJoin(p.JoinName)
	if !ok {
		e.fail("internal error: no triple join alias for %s", p.JoinName)
		return
	}
	e.buf.WriteString(alias)
	e.buf.WriteByte('.')
	e.buf.WriteByte(p.Part.Char())
}

func (e *sqlEmitter) VisitLiteral(l *ast.Literal) {
	e.buf.WriteByte('\'')
	e.buf.WriteString(escapeSQLString(l.Value))
	e.buf.WriteByte('\'')
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (e *sqlEmitter) VisitFunctionBefore(fn *ast.Function) {
	entry, ok := mapping.Lookup(fn.Name)
	if !ok {
		e.fail("unknown function: %s", fn.Name)
		entry = mapping.FunctionEntry{}
	}
	e.funcs = append(e.funcs, &functionFrame{entry: entry, saved: e.buf.String()})
	e.buf.Reset()
}

func (e *sqlEmitter) VisitFunctionBetween(fn *ast.Function, _ int) {
	frame := e.funcs[len(e.funcs)-1]
	frame.args = append(frame.args, e.buf.String())
	e.buf.Reset()
}

func (e *sqlEmitter) VisitFunctionAfter(fn *ast.Function) {
	frame := e.funcs[len(e.funcs)-1]
	e.funcs = e.funcs[:len(e.funcs)-1]
	if len(fn.Args) > 0 {
		frame.args = append(frame.args, e.buf.String())
	}
	e.buf.Reset()
	e.buf.WriteString(frame.saved)
	e.buf.WriteString(frame.entry.Render(frame.args))
}

func (e *sqlEmitter) VisitComparisonBefore(*ast.Comparison) {
	e.buf.WriteByte('(')
}

func (e *sqlEmitter) VisitComparisonBetween(c *ast.Comparison) {
	switch c.Op {
	case ast.EQ:
		e.buf.WriteByte('=')
	case ast.NE:
		e.buf.WriteString("<>")
	}
}

func (e *sqlEmitter) VisitComparisonAfter(*ast.Comparison) {
	e.buf.WriteByte(')')
}

func (e *sqlEmitter) VisitNotBefore(*ast.Not) {
	e.buf.WriteString("NOT ")
}

func (e *sqlEmitter) VisitJunctionBefore(j *ast.Junction) {
	e.buf.WriteByte('(')
	if len(j.Terms) == 0 {
		if j.Kind == ast.And {
			e.buf.WriteString("1=1")
		} else {
			e.buf.WriteString("0=1")
		}
	}
}

func (e *sqlEmitter) VisitJunctionBetween(j *ast.Junction, _ int) {
	if j.Kind == ast.And {
		e.buf.WriteString(" AND ")
	} else {
		e.buf.WriteString(" OR ")
	}
}

func (e *sqlEmitter) VisitJunctionAfter(*ast.Junction) {
	e.buf.WriteByte(')')
}

func (e *sqlEmitter) VisitSortAfter(s *ast.Sort) {
	if s.Ascending {
		e.buf.WriteString(" ASC")
	} else {
		e.buf.WriteString(" DESC")
	}
}

func (e *sqlEmitter) VisitQueryBeforeSorts(q *ast.Query) {
	if len(q.Sorts) > 0 {
		e.buf.WriteString("\nORDER BY ")
	}
}

func (e *sqlEmitter) VisitQueryBetweenSorts(*ast.Query, int) {
	e.buf.WriteString(", ")
}

func (e *sqlEmitter) VisitQueryAfter(q *ast.Query) {
	if q.MaxRows < 0 && q.RowOffset < 0 {
		return
	}
	e.buf.WriteString("\nLIMIT ")
	if q.RowOffset >= 0 {
		e.buf.WriteString(strconv.Itoa(q.RowOffset))
		e.buf.WriteString(", ")
	}
	if q.MaxRows >= 0 {
		e.buf.WriteString(strconv.Itoa(q.MaxRows))
	} else {
		e.buf.WriteString(strconv.Itoa(maxInt32))
	}
}
