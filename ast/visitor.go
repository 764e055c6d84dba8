package ast

// Visitor is the double-dispatch contract every AQL tree consumer
// implements. Each node's Accept method calls the Before/Between/After
// hooks appropriate to its shape; a visitor that only cares about a few
// node kinds should embed BaseVisitor and override just those methods.
type Visitor interface {
	VisitLiteral(*Literal)
	VisitProperty(*Property)
	VisitPropertyReference(*PropertyReference)

	VisitFunctionBefore(*Function)
	VisitFunctionBetween(*Function, int)
	VisitFunctionAfter(*Function)

	VisitNotBefore(*Not)
	VisitNotAfter(*Not)

	VisitComparisonBefore(*Comparison)
	VisitComparisonBetween(*Comparison)
	VisitComparisonAfter(*Comparison)

	VisitJunctionBefore(*Junction)
	VisitJunctionBetween(*Junction, int)
	VisitJunctionAfter(*Junction)

	VisitJoinBefore(*Join)
	VisitJoinAfter(*Join)

	VisitSelectBefore(*Select)
	VisitSelectAfter(*Select)

	VisitSortBefore(*Sort)
	VisitSortAfter(*Sort)

	VisitQueryBefore(*Query)
	VisitQueryAfter(*Query)
	VisitQueryBeforeSelects(*Query)
	VisitQueryAfterSelects(*Query)
	VisitQueryBeforeJoins(*Query)
	VisitQueryAfterJoins(*Query)
	VisitQueryBeforeCriterion(*Query)
	VisitQueryAfterCriterion(*Query)
	VisitQueryBeforeSorts(*Query)
	VisitQueryBetweenSorts(*Query, int)
	VisitQueryAfterSorts(*Query)
}

// BaseVisitor implements every Visitor method as a no-op. Concrete
// visitors embed it and override only the hooks they need, the way the
// original's AQLOptionalVisitor let callers implement a partial visitor.
type BaseVisitor struct{}

func (BaseVisitor) VisitLiteral(*Literal)                     {}
func (BaseVisitor) VisitProperty(*Property)                   {}
func (BaseVisitor) VisitPropertyReference(*PropertyReference) {}

func (BaseVisitor) VisitFunctionBefore(*Function)       {}
func (BaseVisitor) VisitFunctionBetween(*Function, int) {}
func (BaseVisitor) VisitFunctionAfter(*Function)        {}

func (BaseVisitor) VisitNotBefore(*Not) {}
func (BaseVisitor) VisitNotAfter(*Not)  {}

func (BaseVisitor) VisitComparisonBefore(*Comparison)  {}
func (BaseVisitor) VisitComparisonBetween(*Comparison) {}
func (BaseVisitor) VisitComparisonAfter(*Comparison)   {}

func (BaseVisitor) VisitJunctionBefore(*Junction)       {}
func (BaseVisitor) VisitJunctionBetween(*Junction, int) {}
func (BaseVisitor) VisitJunctionAfter(*Junction)        {}

func (BaseVisitor) VisitJoinBefore(*Join) {}
func (BaseVisitor) VisitJoinAfter(*Join)  {}

func (BaseVisitor) VisitSelectBefore(*Select) {}
func (BaseVisitor) VisitSelectAfter(*Select)  {}

func (BaseVisitor) VisitSortBefore(*Sort) {}
func (BaseVisitor) VisitSortAfter(*Sort)  {}

func (BaseVisitor) VisitQueryBefore(*Query)             {}
func (BaseVisitor) VisitQueryAfter(*Query)              {}
func (BaseVisitor) VisitQueryBeforeSelects(*Query)      {}
func (BaseVisitor) VisitQueryAfterSelects(*Query)       {}
func (BaseVisitor) VisitQueryBeforeJoins(*Query)        {}
func (BaseVisitor) VisitQueryAfterJoins(*Query)         {}
func (BaseVisitor) VisitQueryBeforeCriterion(*Query)    {}
func (BaseVisitor) VisitQueryAfterCriterion(*Query)     {}
func (BaseVisitor) VisitQueryBeforeSorts(*Query)        {}
func (BaseVisitor) VisitQueryBetweenSorts(*Query, int)  {}
func (BaseVisitor) VisitQueryAfterSorts(*Query)         {}
