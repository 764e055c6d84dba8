package translator

import "github.com/aqlgraph/aql/ast"

// propertyAliasVisitor walks a whole query once, declaring a node-dictionary
// join alias for every Property it finds. It runs before the SQL emitter so
// every alias the emitter needs is already known, matching the reference
// translator's allowCreate=true / allowCreate=false split across two
// passes.
type propertyAliasVisitor struct {
	ast.BaseVisitor
	planner *aliasPlanner
}

func (v *propertyAliasVisitor) VisitProperty(p *ast.Property) {
	v.planner.declareNodeJoin(p.JoinName, p.Part)
}
