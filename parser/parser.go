// Package parser reads the AQL S-expression surface syntax described in
// spec.md §4.2 and produces an *ast.Query tree.
package parser

import (
	"github.com/aqlgraph/aql/ast"
)

// Parse reads a complete "(aql-query ...)" form from input and returns the
// AQL tree it describes, or a *ParseError naming the offending line and
// column.
func Parse(input string) (*ast.Query, error) {
	p := &parser{s: newScanner(input)}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	p.s.skipWhiteSpaces()
	if err := p.s.expectEOF(); err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	s *scanner
}

func (p *parser) parseQuery() (*ast.Query, *ParseError) {
	s := p.s
	s.skipWhiteSpaces()
	if err := s.readExpectedCharacter('('); err != nil {
		return nil, err
	}
	s.skipWhiteSpaces()
	if err := s.readExpectedKeyword("aql-query"); err != nil {
		return nil, err
	}
	s.skipWhiteSpaces()

	q := ast.NewQuery()

	for s.peek() == '(' {
		s.get()
		s.skipWhiteSpaces()
		keyword, err := s.readKeyword()
		if err != nil {
			return nil, err
		}

		switch keyword {
		case "select":
			s.skipWhiteSpaces()
			label, err := s.readString()
			if err != nil {
				return nil, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			q.Selects = append(q.Selects, &ast.Select{Label: label, Expr: expr})

		case "join":
			s.skipWhiteSpaces()
			joinKeyword, err := s.readKeyword()
			if err != nil {
				return nil, err
			}
			var kind ast.JoinKind
			switch joinKeyword {
			case "left":
				kind = ast.LeftOuter
			case "inner":
				kind = ast.Inner
			default:
				return nil, s.errorf("bad join type %q, expected 'left' or 'inner'", joinKeyword)
			}
			s.skipWhiteSpaces()
			name, err := s.readString()
			if err != nil {
				return nil, err
			}
			s.skipWhiteSpaces()
			criterion, err := p.parseCriterion()
			if err != nil {
				return nil, err
			}
			q.Joins = append(q.Joins, &ast.Join{Name: name, Kind: kind, Criterion: criterion})

		case "criterion":
			criterion, err := p.parseCriterion()
			if err != nil {
				return nil, err
			}
			q.Criterion = mergeCriterion(q.Criterion, criterion)

		case "sort":
			s.skipWhiteSpaces()
			dirKeyword, err := s.readKeyword()
			if err != nil {
				return nil, err
			}
			var ascending bool
			switch dirKeyword {
			case "ascending":
				ascending = true
			case "descending":
				ascending = false
			default:
				return nil, s.errorf("bad sort direction %q, expected 'ascending' or 'descending'", dirKeyword)
			}
			s.skipWhiteSpaces()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			q.Sorts = append(q.Sorts, &ast.Sort{Ascending: ascending, Expr: expr})

		case "result-max-rows":
			s.skipWhiteSpaces()
			n, err := s.readInt()
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, s.errorf("expected non-negative numeric value")
			}
			q.MaxRows = n

		case "result-row-offset":
			s.skipWhiteSpaces()
			n, err := s.readInt()
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, s.errorf("expected non-negative numeric value")
			}
			q.RowOffset = n

		default:
			return nil, s.errorf("expected: select, join, criterion, sort, result-max-rows, result-row-offset or ')'")
		}

		s.skipWhiteSpaces()
		if err := s.readExpectedCharacter(')'); err != nil {
			return nil, err
		}
		s.skipWhiteSpaces()
	}

	if err := s.readExpectedCharacter(')'); err != nil {
		return nil, err
	}
	s.skipWhiteSpaces()
	return q, nil
}

// mergeCriterion implements the implicit-conjunction combination of
// repeated "criterion" clauses: the first establishes the root; each
// subsequent one either extends an existing root conjunction or wraps the
// previous root in a new one.
func mergeCriterion(root ast.LogicalExpr, next ast.LogicalExpr) ast.LogicalExpr {
	if root == nil {
		return next
	}
	if j, ok := root.(*ast.Junction); ok && j.Kind == ast.And {
		j.Terms = append(j.Terms, next)
		return j
	}
	return &ast.Junction{Kind: ast.And, Terms: []ast.LogicalExpr{root, next}}
}

func (p *parser) parseCriterion() (ast.LogicalExpr, *ParseError) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	logical, ok := expr.(ast.LogicalExpr)
	if !ok {
		return nil, p.s.errorf("expected logical expression but got %s expression", expr.TypeName())
	}
	return logical, nil
}

func (p *parser) parseExpr() (ast.Expr, *ParseError) {
	s := p.s
	s.skipWhiteSpaces()
	if err := s.readExpectedCharacter('('); err != nil {
		return nil, err
	}
	s.skipWhiteSpaces()
	keyword, err := s.readKeyword()
	if err != nil {
		return nil, err
	}

	var expr ast.Expr

	switch keyword {
	case "literal":
		s.skipWhiteSpaces()
		value, err := s.readString()
		if err != nil {
			return nil, err
		}
		expr = &ast.Literal{Value: value}

	case "property":
		s.skipWhiteSpaces()
		joinName, err := s.readString()
		if err != nil {
			return nil, err
		}
		s.skipWhiteSpaces()
		partKeyword, err := s.readKeyword()
		if err != nil {
			return nil, err
		}
		part, ok := parsePart(partKeyword)
		if !ok {
			return nil, s.errorf("expected node part keyword (subject, predicate or object) but got %q", partKeyword)
		}
		expr = &ast.Property{JoinName: joinName, Part: part}

	case "function":
		s.skipWhiteSpaces()
		name, err := s.readString()
		if err != nil {
			return nil, err
		}
		fn := &ast.Function{Name: name}
		for {
			s.skipWhiteSpaces()
			if s.peek() != '(' {
				break
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
		}
		expr = fn

	case "comp-eq", "comp-ne":
		left, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		op := ast.EQ
		if keyword == "comp-ne" {
			op = ast.NE
		}
		expr = &ast.Comparison{Op: op, Left: left, Right: right}

	case "and", "or":
		kind := ast.And
		if keyword == "or" {
			kind = ast.Or
		}
		junction := &ast.Junction{Kind: kind}
		s.skipWhiteSpaces()
		for s.peek() == '(' {
			term, err := p.parseCriterion()
			if err != nil {
				return nil, err
			}
			junction.Terms = append(junction.Terms, term)
			s.skipWhiteSpaces()
		}
		expr = junction

	case "not":
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr = &ast.Not{Expr: inner}

	default:
		return nil, s.errorf("expected: expression keyword but got %q", keyword)
	}

	s.skipWhiteSpaces()
	if err := s.readExpectedCharacter(')'); err != nil {
		return nil, err
	}
	return expr, nil
}

func parsePart(keyword string) (ast.Part, bool) {
	switch keyword {
	case "subject":
		return ast.Subject, true
	case "predicate":
		return ast.Predicate, true
	case "object":
		return ast.Object, true
	default:
		return 0, false
	}
}
