// Package translator compiles an AQL query tree to a SQLite SQL query
// string, in two phases: an alias-planning pass that assigns SQL aliases
// to every triple and node-dictionary join the query touches, and an
// emitting pass, driven by the same tree traversal, that writes the SQL
// text using those aliases.
package translator

import "github.com/aqlgraph/aql/ast"

// Translate compiles query into a SQL SELECT statement against the triple
// schema (see store/schema.go). When doOptimize is true, Property/Property
// comparisons are first rewritten to PropertyReference/PropertyReference,
// skipping a node-dictionary join neither side's string value is needed
// for.
//
// Translate mutates query in place when doOptimize is true; callers that
// need the pre-optimization tree should clone it first.
func Translate(query *ast.Query, doOptimize bool) (string, error) {
	if doOptimize {
		optimize(query)
	}

	planner := newAliasPlanner()
	planner.declareTripleJoin("root")
	for _, join := range query.Joins {
		planner.declareTripleJoin(join.Name)
	}
	query.Accept(&propertyAliasVisitor{planner: planner})

	emitter := &sqlEmitter{planner: planner}
	query.Accept(emitter)
	if emitter.err != nil {
		return "", emitter.err
	}
	return emitter.buf.String(), nil
}
