package translator

import "github.com/aqlgraph/aql/ast"

// optimize rewrites every Comparison whose sides are both plain Property
// dereferences into one comparing PropertyReferences instead, so the
// translator can skip the node-dictionary join and compare raw triple
// column values directly.
func optimize(query *ast.Query) {
	query.Accept(&propertyReferenceVisitor{})
}

// Optimize runs the same in-place rewrite Translate(query, true) applies,
// without also emitting SQL. It exists for callers that need to inspect or
// print the optimized tree as its own pipeline stage.
func Optimize(query *ast.Query) {
	optimize(query)
}

type propertyReferenceVisitor struct {
	ast.BaseVisitor
}

func (v *propertyReferenceVisitor) VisitComparisonBefore(c *ast.Comparison) {
	left, ok := c.Left.(*ast.Property)
	if !ok {
		return
	}
	right, ok := c.Right.(*ast.Property)
	if !ok {
		return
	}
	c.Left = &ast.PropertyReference{JoinName: left.JoinName, Part: left.Part}
	c.Right = &ast.PropertyReference{JoinName: right.JoinName, Part: right.Part}
}
