// Command aqltester is a thin test-entry point for the AQL pipeline: it
// parses a query, optionally optimizes it, compiles it to SQL, runs the SQL
// against a triplestore file, and prints the result — stopping at whichever
// stage is requested, and re-printing every completed stage's working data
// in debug mode.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aqlgraph/aql/ast"
	"github.com/aqlgraph/aql/parser"
	"github.com/aqlgraph/aql/printer"
	"github.com/aqlgraph/aql/result"
	"github.com/aqlgraph/aql/store"
	"github.com/aqlgraph/aql/translator"
)

// outputLevel gates how much stage-progress chatter is printed, the way
// the original test driver's print(OutputLevel, ...) helper did.
type outputLevel int

const (
	olQuiet outputLevel = iota
	olNormal
	olVerbose
	olDebug
)

// stage is one step of the parse -> optimize -> compile -> execute ->
// format pipeline, in the order they must run.
type stage int

const (
	stageParseQuery stage = iota + 1
	stageOptimizedAQL
	stageSQL
	stageRawResult
	stageResult
)

func parseStopAt(s string) (stage, error) {
	switch s {
	case "", "result":
		return stageResult, nil
	case "parse_query":
		return stageParseQuery, nil
	case "optimized_aql":
		return stageOptimizedAQL, nil
	case "sql":
		return stageSQL, nil
	case "raw_result":
		return stageRawResult, nil
	default:
		return 0, fmt.Errorf("unknown --stop-at stage %q", s)
	}
}

func main() {
	_ = godotenv.Load() // optional; flags always override any .env defaults

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		quiet      bool
		verbose    bool
		debug      bool
		parserName string
		stopAtFlag string
	)

	cmd := &cobra.Command{
		Use:           "aqltester <db_file> <input_file|->",
		Short:         "Run an AQL query against a triplestore file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if parserName != "list" {
				return fmt.Errorf("unknown --parser front-end %q (only \"list\" is available)", parserName)
			}
			stopAt, err := parseStopAt(stopAtFlag)
			if err != nil {
				return err
			}

			level := olNormal
			switch {
			case debug:
				level = olDebug
			case verbose:
				level = olVerbose
			case quiet:
				level = olQuiet
			}

			input, err := readInput(args[1])
			if err != nil {
				return err
			}

			log := logrus.NewEntry(logrus.StandardLogger()).WithField("run", uuid.NewString())
			log.Logger.SetLevel(logrusLevel(level))

			s, err := store.Open(args[0], log)
			if err != nil {
				return err
			}
			defer s.Close()

			return run(cmd.OutOrStdout(), s, input, level, stopAt)
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Output only the result")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose output")
	cmd.Flags().BoolVar(&debug, "debug", false, "Lots of debug stuff")
	cmd.Flags().StringVar(&parserName, "parser", "list", "AQL parser front-end to use (only \"list\" is available)")
	cmd.Flags().StringVar(&stopAtFlag, "stop-at", "result",
		"Stop after a stage and show its working data: parse_query, optimized_aql, sql, raw_result, result")

	return cmd
}

func logrusLevel(level outputLevel) logrus.Level {
	switch {
	case level >= olDebug:
		return logrus.DebugLevel
	case level >= olVerbose:
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not open input file %q: %w", path, err)
	}
	return string(b), nil
}

// run drives the pipeline from stageParseQuery up to stopAt, printing each
// completed stage's working data either because it's the final requested
// stage or because the output level is olDebug.
func run(out io.Writer, s *store.Store, input string, level outputLevel, stopAt stage) error {
	p := func(min outputLevel, format string, args ...interface{}) {
		if min <= level {
			fmt.Fprintf(out, format, args...)
		}
	}

	var (
		query   *ast.Query
		sqlText string
	)

	for cur := stageParseQuery; cur <= stopAt; cur++ {
		switch cur {
		case stageParseQuery:
			p(olVerbose, "Parsing query...\n")
			q, err := parser.Parse(input)
			if err != nil {
				return err
			}
			query = q

		case stageOptimizedAQL:
			p(olVerbose, "Optimizing AQL...\n")
			translator.Optimize(query)

		case stageSQL:
			p(olVerbose, "Generating SQL...\n")
			q, err := translator.Translate(query, false) // already optimized above, if reached
			if err != nil {
				return err
			}
			sqlText = q

		case stageRawResult:
			p(olVerbose, "Executing SQL...\n")
			cols, rows, err := runRawSQL(s, sqlText)
			if err != nil {
				return err
			}
			if cur == stopAt || level >= olDebug {
				printRawRows(out, olNormal, level, cols, rows)
			}
			p(olVerbose, "%s raw rows\n", humanize.Comma(int64(len(rows))))
			continue // already printed; skip the shared debug switch below

		case stageResult:
			p(olVerbose, "Formatting result...\n")
			rowNum, err := printAQLResult(out, s, query, sqlText)
			if err != nil {
				return err
			}
			p(olVerbose, "%s result rows\n", humanize.Comma(int64(rowNum)))
			continue // OM_RESULT has no separate debug dump
		}

		if cur == stopAt || level >= olDebug {
			switch cur {
			case stageParseQuery:
				p(olNormal, "AQL Query:\n")
				fmt.Fprintln(out, printer.Print(query))
			case stageOptimizedAQL:
				p(olNormal, "AQL Query after optimization:\n")
				fmt.Fprintln(out, printer.Print(query))
			case stageSQL:
				p(olNormal, "SQL query:\n%s\n", sqlText)
			}
		}
	}

	return nil
}

func runRawSQL(s *store.Store, sqlText string) (columns []string, rows [][]*string, err error) {
	r, err := s.DB().Query(sqlText)
	if err != nil {
		return nil, nil, fmt.Errorf("executing SQL: %w", err)
	}
	defer r.Close()

	columns, err = r.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("executing SQL: %w", err)
	}

	for r.Next() {
		raw := make([]interface{}, len(columns))
		vals := make([]sql.NullString, len(columns))
		for i := range vals {
			raw[i] = &vals[i]
		}
		if err := r.Scan(raw...); err != nil {
			return nil, nil, fmt.Errorf("executing SQL: %w", err)
		}
		row := make([]*string, len(columns))
		for i, v := range vals {
			if v.Valid {
				val := v.String
				row[i] = &val
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, r.Err()
}

func printRawRows(out io.Writer, min, level outputLevel, columns []string, rows [][]*string) {
	if min > level {
		return
	}
	for i, row := range rows {
		fmt.Fprintf(out, "Row %d\n", i+1)
		fmt.Fprintln(out, "******************")
		for j, name := range columns {
			fmt.Fprintf(out, "  %s: %s\n", name, cellText(row[j]))
		}
		fmt.Fprintln(out)
	}
}

func cellText(v *string) string {
	if v == nil {
		return "(null)"
	}
	return *v
}

func printAQLResult(out io.Writer, s *store.Store, query *ast.Query, sqlText string) (int, error) {
	header := make([]string, len(query.Selects))
	for i, sel := range query.Selects {
		header[i] = sel.Label
	}

	rows, err := result.New(header, func() (*sql.Rows, error) { return s.DB().Query(sqlText) })
	if err != nil {
		return 0, fmt.Errorf("executing SQL: %w", err)
	}
	defer rows.Close()

	rowNum := 0
	for rows.HasNextRow() {
		row, err := rows.NextRow()
		if err != nil {
			return rowNum, fmt.Errorf("executing SQL: %w", err)
		}
		rowNum++
		fmt.Fprintf(out, "Row %d\n", rowNum)
		fmt.Fprintln(out, "******************")
		for i, name := range rows.Header() {
			fmt.Fprintf(out, "  %s: %s\n", name, cellText(row[i]))
		}
		fmt.Fprintln(out)
	}
	return rowNum, nil
}
