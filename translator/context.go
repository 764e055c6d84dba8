package translator

import (
	"fmt"

	"github.com/aqlgraph/aql/ast"
)

// aliasPlanner assigns short SQL aliases to triple joins ("root" and each
// named join) and to the node-dictionary joins a Property dereference
// needs off of them. The declare/lookup split mirrors the allowCreate
// flag the reference translator threads through its context: one pass
// declares every alias a query needs, a second pass only ever looks them
// up, so a property referencing an alias nobody declared is a bug, not a
// silent new join.
type aliasPlanner struct {
	tripleAlias map[string]string
	nodeJoins   map[string]map[ast.Part]bool
	next        int
}

func newAliasPlanner() *aliasPlanner {
	return &aliasPlanner{
		tripleAlias: make(map[string]string),
		nodeJoins:   make(map[string]map[ast.Part]bool),
	}
}

// declareTripleJoin assigns, or returns the existing, SQL alias for a
// triple join name ("root" or a Join.Name).
func (p *aliasPlanner) declareTripleJoin(name string) string {
	if alias, ok := p.tripleAlias[name]; ok {
		return alias
	}
	alias := fmt.Sprintf("t%d", p.next)
	p.next++
	p.tripleAlias[name] = alias
	return alias
}

func (p *aliasPlanner) lookupTripleJoin(name string) (string, bool) {
	alias, ok := p.tripleAlias[name]
	return alias, ok
}

// declareNodeJoin records that joinName.part needs a node-dictionary join
// and returns its alias.
func (p *aliasPlanner) declareNodeJoin(joinName string, part ast.Part) string {
	tripleAlias := p.declareTripleJoin(joinName)
	if p.nodeJoins[joinName] == nil {
		p.nodeJoins[joinName] = make(map[ast.Part]bool)
	}
	p.nodeJoins[joinName][part] = true
	return nodeJoinAlias(tripleAlias, part)
}

// lookupNodeJoin returns the alias for a node-dictionary join declared
// earlier, or ok=false if it was never declared.
func (p *aliasPlanner) lookupNodeJoin(joinName string, part ast.Part) (string, bool) {
	tripleAlias, ok := p.tripleAlias[joinName]
	if !ok || !p.nodeJoins[joinName][part] {
		return "", false
	}
	return nodeJoinAlias(tripleAlias, part), true
}

// usedParts returns, in subject/predicate/object order, the node joins a
// triple join needs, so the emitter can write their JOIN clauses in a
// stable order.
func (p *aliasPlanner) usedParts(joinName string) []ast.Part {
	used := p.nodeJoins[joinName]
	var parts []ast.Part
	for _, part := range [...]ast.Part{ast.Subject, ast.Predicate, ast.Object} {
		if used[part] {
			parts = append(parts, part)
		}
	}
	return parts
}

func nodeJoinAlias(tripleAlias string, part ast.Part) string {
	return fmt.Sprintf("%s_%c", tripleAlias, part.Char())
}
