package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aqlgraph/aql/ast"
	"github.com/aqlgraph/aql/parser"
)

func TestParseEmptyQueryHasUnboundedDefaults(t *testing.T) {
	q, err := parser.Parse(`(aql-query)`)
	require.NoError(t, err)
	require.Empty(t, q.Selects)
	require.Empty(t, q.Joins)
	require.Empty(t, q.Sorts)
	require.Nil(t, q.Criterion)
	require.Equal(t, -1, q.MaxRows)
	require.Equal(t, -1, q.RowOffset)
}

func TestParseSelectProperty(t *testing.T) {
	q, err := parser.Parse(`(aql-query (select "x" (property "root" subject)))`)
	require.NoError(t, err)
	require.Len(t, q.Selects, 1)
	require.Equal(t, "x", q.Selects[0].Label)

	prop, ok := q.Selects[0].Expr.(*ast.Property)
	require.True(t, ok)
	require.Equal(t, "root", prop.JoinName)
	require.Equal(t, ast.Subject, prop.Part)
}

func TestParseCriterionComparison(t *testing.T) {
	q, err := parser.Parse(`(aql-query (criterion (comp-eq (property "root" predicate) (literal "rdf:type"))))`)
	require.NoError(t, err)

	cmp, ok := q.Criterion.(*ast.Comparison)
	require.True(t, ok)
	require.Equal(t, ast.EQ, cmp.Op)

	left, ok := cmp.Left.(*ast.Property)
	require.True(t, ok)
	require.Equal(t, ast.Predicate, left.Part)

	right, ok := cmp.Right.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, "rdf:type", right.Value)
}

func TestParseRepeatedCriteriaAreImplicitlyConjoined(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (criterion (comp-eq (property "root" predicate) (literal "a")))
  (criterion (comp-eq (property "root" object) (literal "b")))
)`)
	require.NoError(t, err)

	j, ok := q.Criterion.(*ast.Junction)
	require.True(t, ok)
	require.Equal(t, ast.And, j.Kind)
	require.Len(t, j.Terms, 2)
}

func TestParseJoinAndSort(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (join left "friend" (comp-eq (property "root" object) (property "friend" subject)))
  (sort descending (property "root" subject))
)`)
	require.NoError(t, err)
	require.Len(t, q.Joins, 1)
	require.Equal(t, "friend", q.Joins[0].Name)
	require.Equal(t, ast.LeftOuter, q.Joins[0].Kind)

	require.Len(t, q.Sorts, 1)
	require.False(t, q.Sorts[0].Ascending)
}

func TestParseResultWindow(t *testing.T) {
	q, err := parser.Parse(`(aql-query (result-max-rows 5) (result-row-offset 2))`)
	require.NoError(t, err)
	require.Equal(t, 5, q.MaxRows)
	require.Equal(t, 2, q.RowOffset)
}

func TestParseFunctionCall(t *testing.T) {
	q, err := parser.Parse(`(aql-query (select "x" (function "concatenate" (literal "a") (literal "b"))))`)
	require.NoError(t, err)

	fn, ok := q.Selects[0].Expr.(*ast.Function)
	require.True(t, ok)
	require.Equal(t, "concatenate", fn.Name)
	require.Len(t, fn.Args, 2)
}

func TestParseStringEscapes(t *testing.T) {
	q, err := parser.Parse(`(aql-query (select "x" (literal "line1\nline2\\\"quoted\"")))`)
	require.NoError(t, err)
	lit := q.Selects[0].Expr.(*ast.Literal)
	require.Equal(t, "line1\nline2\\\"quoted\"", lit.Value)
}

func TestParseRejectsUnsupportedEscape(t *testing.T) {
	_, err := parser.Parse(`(aql-query (select "x" (literal "bad\x41")))`)
	require.Error(t, err)
}

func TestParseRejectsBadJoinKeyword(t *testing.T) {
	_, err := parser.Parse(`(aql-query (join sideways "j" (comp-eq (literal "a") (literal "a"))))`)
	require.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := parser.Parse(`(aql-query) garbage`)
	require.Error(t, err)
}

func TestParseRejectsUnknownKeyword(t *testing.T) {
	_, err := parser.Parse(`(aql-query (frobnicate))`)
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeInteger(t *testing.T) {
	_, err := parser.Parse(`(aql-query (result-max-rows 99999999999))`)
	require.Error(t, err)
}

func TestParseRejectsNegativeResultWindow(t *testing.T) {
	_, err := parser.Parse(`(aql-query (result-max-rows -1))`)
	require.Error(t, err)
}

func TestParseErrorReportsLineAndColumn(t *testing.T) {
	_, err := parser.Parse("(aql-query\n  (select )")
	require.Error(t, err)
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 2, perr.Line)
	require.Equal(t, 12, perr.Column)
}
