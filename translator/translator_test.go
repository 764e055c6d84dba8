package translator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aqlgraph/aql/parser"
	"github.com/aqlgraph/aql/translator"
)

func TestTranslateJoinWithoutOptimize(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (select "s" (property "root" subject))
  (join inner "friend" (comp-eq (property "root" object) (property "friend" subject)))
)`)
	require.NoError(t, err)

	sql, err := translator.Translate(q, false)
	require.NoError(t, err)

	expected := "SELECT t0_s.str AS col0" +
		"\n  FROM triple AS t0" +
		"\n     INNER JOIN node AS t0_s ON (t0.s=t0_s.id)" +
		"\n     INNER JOIN node AS t0_o ON (t0.o=t0_o.id)" +
		"\n  INNER JOIN triple AS t1 ON ((t0_o.str=t1_s.str))" +
		"\n     INNER JOIN node AS t1_s ON (t1.s=t1_s.id)"
	require.Equal(t, expected, sql)
}

func TestTranslateJoinWithOptimizeUsesPropertyReferences(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (select "s" (property "root" subject))
  (join inner "friend" (comp-eq (property "root" object) (property "friend" subject)))
)`)
	require.NoError(t, err)

	sql, err := translator.Translate(q, true)
	require.NoError(t, err)

	expected := "SELECT t0_s.str AS col0" +
		"\n  FROM triple AS t0" +
		"\n     INNER JOIN node AS t0_s ON (t0.s=t0_s.id)" +
		"\n  INNER JOIN triple AS t1 ON ((t0.o=t1.s))"
	require.Equal(t, expected, sql)
}

func TestTranslateFunctionJunctionSortAndLimit(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (select "x" (function "to-lower" (property "root" subject)))
  (criterion (or (comp-eq (property "root" predicate) (literal "a")) (comp-eq (property "root" predicate) (literal "b"))))
  (sort descending (property "root" subject))
  (result-max-rows 5)
  (result-row-offset 2)
)`)
	require.NoError(t, err)

	sql, err := translator.Translate(q, true)
	require.NoError(t, err)

	expected := "SELECT lower(t0_s.str) AS col0" +
		"\n  FROM triple AS t0" +
		"\n     INNER JOIN node AS t0_s ON (t0.s=t0_s.id)" +
		"\n     INNER JOIN node AS t0_p ON (t0.p=t0_p.id)" +
		"\n WHERE ((t0_p.str='a') OR (t0_p.str='b'))" +
		"\nORDER BY t0_s.str DESC" +
		"\nLIMIT 2, 5"
	require.Equal(t, expected, sql)
}

func TestTranslateUnknownFunctionFails(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (select "x" (function "frobnicate" (property "root" subject)))
)`)
	require.NoError(t, err)

	_, err = translator.Translate(q, true)
	require.Error(t, err)
}

func TestTranslateEscapesLiteralQuotes(t *testing.T) {
	q, err := parser.Parse(`(aql-query
  (criterion (comp-eq (property "root" predicate) (literal "O'Brien")))
)`)
	require.NoError(t, err)

	sql, err := translator.Translate(q, true)
	require.NoError(t, err)
	require.Contains(t, sql, "'O''Brien'")
}
