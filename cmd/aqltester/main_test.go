package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aqlgraph/aql/id"
	"github.com/aqlgraph/aql/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTriple(t *testing.T, s *store.Store, subj, pred, obj string) {
	t.Helper()
	sn, err := s.Node(subj, false)
	require.NoError(t, err)
	pn, err := s.Node(pred, false)
	require.NoError(t, err)
	on, err := s.Node(obj, false)
	require.NoError(t, err)
	_, err = s.Add(store.Triple{Subject: sn, Predicate: pn, Object: on}, id.Null, false)
	require.NoError(t, err)
}

func TestParseStopAtAcceptsEveryStage(t *testing.T) {
	for name, want := range map[string]stage{
		"":              stageResult,
		"result":        stageResult,
		"parse_query":   stageParseQuery,
		"optimized_aql": stageOptimizedAQL,
		"sql":           stageSQL,
		"raw_result":    stageRawResult,
	} {
		got, err := parseStopAt(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestParseStopAtRejectsUnknownStage(t *testing.T) {
	_, err := parseStopAt("not-a-stage")
	require.Error(t, err)
}

func TestRunPrintsResultRows(t *testing.T) {
	s := openTestStore(t)
	seedTriple(t, s, "http://example.org/a", "http://example.org/knows", "http://example.org/b")

	var out bytes.Buffer
	err := run(&out, s, `(aql-query (select "s" (property "root" subject)))`, olNormal, stageResult)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Row 1")
	require.Contains(t, out.String(), "s: http://example.org/a")
}

func TestRunStopsAtSQLStageWithoutExecuting(t *testing.T) {
	s := openTestStore(t)

	var out bytes.Buffer
	err := run(&out, s, `(aql-query (select "s" (property "root" subject)))`, olNormal, stageSQL)
	require.NoError(t, err)
	require.Contains(t, out.String(), "SELECT")
	require.NotContains(t, out.String(), "Row")
}

func TestRunDebugLevelReprintsEveryStage(t *testing.T) {
	s := openTestStore(t)

	var out bytes.Buffer
	err := run(&out, s, `(aql-query (select "s" (property "root" subject)))`, olDebug, stageSQL)
	require.NoError(t, err)
	require.Contains(t, out.String(), "AQL Query:")
	require.Contains(t, out.String(), "SQL query:")
}

func TestRunPropagatesParseErrors(t *testing.T) {
	s := openTestStore(t)

	var out bytes.Buffer
	err := run(&out, s, `(not-a-query)`, olNormal, stageResult)
	require.Error(t, err)
}

func TestReadInputRejectsMissingFile(t *testing.T) {
	_, err := readInput("/nonexistent/path/to/input")
	require.Error(t, err)
}
