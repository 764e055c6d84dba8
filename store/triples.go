package store

import (
	"database/sql"
	"strings"

	"github.com/aqlgraph/aql/id"
)

// wildcard column presence bits, used to select one of the sixteen fixed
// WHERE clauses below instead of assembling SQL text dynamically per call.
const (
	wcS = 1 << iota
	wcP
	wcO
	wcSrc
)

// wildcardClauses is the fixed WHERE text for each of the sixteen
// (s?, p?, o?, src?) presence combinations, indexed by the wc* bitmask —
// the same sixteen-combination expansion as piglet's makeWildcardQuery,
// planned once here instead of per call.
var wildcardClauses = [16]string{
	0:                       "",
	wcS:                     " WHERE s = ?",
	wcP:                     " WHERE p = ?",
	wcS | wcP:               " WHERE s = ? AND p = ?",
	wcO:                     " WHERE o = ?",
	wcS | wcO:               " WHERE s = ? AND o = ?",
	wcP | wcO:               " WHERE p = ? AND o = ?",
	wcS | wcP | wcO:         " WHERE s = ? AND p = ? AND o = ?",
	wcSrc:                   " WHERE src = ?",
	wcS | wcSrc:             " WHERE s = ? AND src = ?",
	wcP | wcSrc:             " WHERE p = ? AND src = ?",
	wcS | wcP | wcSrc:       " WHERE s = ? AND p = ? AND src = ?",
	wcO | wcSrc:             " WHERE o = ? AND src = ?",
	wcS | wcO | wcSrc:       " WHERE s = ? AND o = ? AND src = ?",
	wcP | wcO | wcSrc:       " WHERE p = ? AND o = ? AND src = ?",
	wcS | wcP | wcO | wcSrc: " WHERE s = ? AND p = ? AND o = ? AND src = ?",
}

// wildcardClause returns the fixed WHERE clause matching the given
// subject/predicate/object/source pattern, and the bind args in the same
// column order (s, p, o, src) as the clause text. id.Null in any position
// means "don't constrain this column".
func wildcardClause(s, p, o, source id.Node) (string, []interface{}) {
	var mask int
	var args []interface{}
	if !s.IsNull() {
		mask |= wcS
	}
	if !p.IsNull() {
		mask |= wcP
	}
	if !o.IsNull() {
		mask |= wcO
	}
	if !source.IsNull() {
		mask |= wcSrc
	}
	if mask&wcS != 0 {
		args = append(args, int64(s))
	}
	if mask&wcP != 0 {
		args = append(args, int64(p))
	}
	if mask&wcO != 0 {
		args = append(args, int64(o))
	}
	if mask&wcSrc != 0 {
		args = append(args, int64(source))
	}
	return wildcardClauses[mask], args
}

func (s *Store) tripleTable(temporary bool) string {
	if temporary {
		return "cache.triple"
	}
	return "triple"
}

// Exists reports whether a triple matching the given pattern is present
// in the persistent table, or the transient one when temporary is true.
func (s *Store) Exists(subject, predicate, object, source id.Node, temporary bool) (bool, error) {
	where, args := wildcardClause(subject, predicate, object, source)
	query := "SELECT 1 FROM " + s.tripleTable(temporary) + where + " LIMIT 1"
	var one int
	err := s.db.QueryRow(query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("exists", err)
	}
	return true, nil
}

// Count returns the number of stored triples matching the given pattern.
func (s *Store) Count(subject, predicate, object, source id.Node, temporary bool) (int, error) {
	where, args := wildcardClause(subject, predicate, object, source)
	query := "SELECT count(*) FROM " + s.tripleTable(temporary) + where
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, wrapErr("count", err)
	}
	return n, nil
}

// Triple is a single (subject, predicate, object) statement, independent
// of what source asserted it.
type Triple struct {
	Subject   id.Node
	Predicate id.Node
	Object    id.Node
}

// Query returns every triple matching the pattern, drawn from the union
// of the persistent and transient tables (deduplicated, since UNION
// implies DISTINCT).
func (s *Store) Query(subject, predicate, object, source id.Node) ([]Triple, error) {
	whereP, argsP := wildcardClause(subject, predicate, object, source)
	whereC, argsC := wildcardClause(subject, predicate, object, source)
	query := "SELECT s, p, o FROM triple" + whereP +
		" UNION SELECT s, p, o FROM cache.triple" + whereC
	args := append(append([]interface{}{}, argsP...), argsC...)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr("query", err)
	}
	defer rows.Close()

	var out []Triple
	for rows.Next() {
		var sv, pv, ov int64
		if err := rows.Scan(&sv, &pv, &ov); err != nil {
			return nil, wrapErr("query", err)
		}
		out = append(out, Triple{id.Node(sv), id.Node(pv), id.Node(ov)})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("query", err)
	}
	return out, nil
}

// Sources returns every source node that has asserted a triple matching
// the given pattern, drawn from the persistent table only.
func (s *Store) Sources(subject, predicate, object id.Node) ([]id.Node, error) {
	where, args := wildcardClause(subject, predicate, object, id.Null)
	query := "SELECT DISTINCT src FROM triple" + where

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr("sources", err)
	}
	defer rows.Close()

	var out []id.Node
	for rows.Next() {
		var src int64
		if err := rows.Scan(&src); err != nil {
			return nil, wrapErr("sources", err)
		}
		out = append(out, id.Node(src))
	}
	return out, rows.Err()
}

// Add stores a triple asserted by source, in the transient table when
// temporary is true. It reports false (no error) if the triple already
// exists: a transient add checks both tables, matching piglet's "don't
// duplicate across the persistent/transient boundary" rule, while a
// persistent add checks only the persistent table.
func (s *Store) Add(t Triple, source id.Node, temporary bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if temporary {
		existsCache, err := s.Exists(t.Subject, t.Predicate, t.Object, source, true)
		if err != nil {
			return false, err
		}
		existsPersistent, err := s.Exists(t.Subject, t.Predicate, t.Object, source, false)
		if err != nil {
			return false, err
		}
		if existsCache || existsPersistent {
			return false, nil
		}
	} else if exists, err := s.Exists(t.Subject, t.Predicate, t.Object, source, false); err != nil {
		return false, err
	} else if exists {
		return false, nil
	}

	_, err := s.db.Exec("INSERT INTO "+s.tripleTable(temporary)+" VALUES (?, ?, ?, ?)",
		int64(t.Subject), int64(t.Predicate), int64(t.Object), int64(source))
	if err != nil {
		return false, wrapErr("add", err)
	}
	return true, nil
}

// addQuick inserts a triple into the transient table, silently doing
// nothing if it already exists in either table. It is used by
// AddPostProcess to assert schema-derivation triples without a source.
func (s *Store) addQuick(subject, predicate, object id.Node) error {
	_, err := s.Add(Triple{subject, predicate, object}, id.Null, true)
	return err
}

// AddPostProcess derives the rdf:type/rdfs:subClassOf closure triples
// piglet infers whenever a triple is added: every predicate is declared
// an rdf:Property, and every rdf:type/rdfs:subClassOf object is folded
// into the rdfs:Class/rdfs:Resource hierarchy. It reports whether any
// derivation applied.
func (s *Store) AddPostProcess(t Triple) (bool, error) {
	if err := s.addQuick(t.Predicate, NodeRDFType, NodeRDFProperty); err != nil {
		return false, err
	}
	switch t.Predicate {
	case NodeRDFType:
		if err := s.addQuick(t.Object, NodeRDFType, NodeRDFSClass); err != nil {
			return false, err
		}
		if err := s.addQuick(t.Object, NodeRDFSSubClassOf, NodeRDFSResource); err != nil {
			return false, err
		}
		return true, nil
	case NodeRDFSSubClassOf:
		if err := s.addQuick(t.Object, NodeRDFSSubClassOf, NodeRDFSResource); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// Del removes a triple asserted by source, reporting false (no error) if
// no matching triple was stored.
func (s *Store) Del(t Triple, source id.Node, temporary bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Exists(t.Subject, t.Predicate, t.Object, source, temporary)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	where, args := wildcardClause(t.Subject, t.Predicate, t.Object, source)
	query := "DELETE FROM " + s.tripleTable(temporary) + where
	if _, err := s.db.Exec(query, args...); err != nil {
		return false, wrapErr("del", err)
	}
	return true, nil
}

// Match returns every node whose stored string value contains pattern as
// a substring, the way piglet's LIKE '%pattern%' scan does.
func (s *Store) Match(pattern string) ([]id.Node, error) {
	rows, err := s.db.Query(`SELECT id FROM node WHERE str LIKE ? ESCAPE '\'`, "%"+escapeLike(pattern)+"%")
	if err != nil {
		return nil, wrapErr("match", err)
	}
	defer rows.Close()

	var out []id.Node
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, wrapErr("match", err)
		}
		out = append(out, id.Node(n))
	}
	return out, rows.Err()
}

func escapeLike(pattern string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(pattern)
}
