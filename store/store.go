package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/glebarez/go-sqlite"
	"github.com/sirupsen/logrus"

	"github.com/aqlgraph/aql/id"
)

// Well-known resource ids a fresh store is seeded with, matching piglet's
// DB.h constants — AddPostProcess depends on these exact values.
const (
	NodeRDFType        id.Node = 1
	NodeRDFProperty    id.Node = 2
	NodeRDFSResource   id.Node = 3
	NodeRDFSClass      id.Node = 4
	NodeRDFSSubClassOf id.Node = 5
)

// Store is a single RDF triplestore: a node dictionary plus a persistent
// and a transient (cache-schema) triple table. A single mutex serializes
// the mutating methods (Node, Literal, Add, Del, Load, AddNamespace,
// DelNamespace and the transaction boundaries, among others) the same way
// piglet::DB serializes access behind its own _mutex; the read-only
// pattern queries (Exists, Count, Query, Sources, Match) and the qname
// lookups (NodeQName, QName2URI) do not take it.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (or creates) a triplestore backed by the sqlite file at path.
// path may be ":memory:" for a transient, process-local store.
func Open(path string, log *logrus.Entry) (*Store, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapErr("open", err)
	}
	db.SetMaxOpenConns(1) // a single sqlite connection backs the cache ATTACH

	s := &Store{db: db, log: log}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("ATTACH ':memory:' AS cache"); err != nil {
		return wrapErr("attach cache", err)
	}
	if _, err := s.db.Exec(schemaCache); err != nil {
		return wrapErr("create cache schema", err)
	}

	var version string
	err := s.db.QueryRow(schemaVersion).Scan(&version)
	switch {
	case err == nil:
		s.log.Debugf("existing database, version %q", version)
	case schemaVersionTableMissing(err):
		s.log.Debug("creating a new database")
		if _, err := s.db.Exec(schemaCreate); err != nil {
			return wrapErr("create schema", err)
		}
	default:
		return wrapErr("probe schema version", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for read-only query execution (the
// AQL result adapter runs compiled SELECTs directly against it).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Node interns uri as a resource node, allocating a fresh anonymous
// resource when uri is empty. When bnode is true, uri (if non-empty) is a
// blank-node label scoped to the current load via cache.bnode.
func (s *Store) Node(uri string, bnode bool) (id.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bnode {
		if uri == "" {
			return s.newAnonymousResource()
		}
		return s.internBnode(uri)
	}
	if uri == "" {
		return s.newAnonymousResource()
	}
	return s.internResource(uri)
}

func (s *Store) internBnode(label string) (id.Node, error) {
	var n int64
	err := s.db.QueryRow("SELECT id FROM cache.bnode WHERE str = ?", label).Scan(&n)
	if err == sql.ErrNoRows {
		resource, err := s.newAnonymousResource()
		if err != nil {
			return 0, err
		}
		if _, err := s.db.Exec("INSERT INTO cache.bnode VALUES (?, ?)", int64(resource), label); err != nil {
			return 0, wrapErr("node", err)
		}
		return resource, nil
	}
	if err != nil {
		return 0, wrapErr("node", err)
	}
	return id.Node(n), nil
}

func (s *Store) newAnonymousResource() (id.Node, error) {
	next, err := s.nextNodeID()
	if err != nil {
		return 0, err
	}
	if _, err := s.db.Exec("INSERT INTO node VALUES (?, NULL, 0, NULL)", int64(next)); err != nil {
		return 0, wrapErr("node", err)
	}
	return next, nil
}

func (s *Store) internResource(uri string) (id.Node, error) {
	var n int64
	err := s.db.QueryRow("SELECT id FROM node WHERE str = ? AND id > 0", uri).Scan(&n)
	if err == sql.ErrNoRows {
		next, err := s.nextNodeID()
		if err != nil {
			return 0, err
		}
		if _, err := s.db.Exec("INSERT INTO node VALUES (?, ?, 0, NULL)", int64(next), uri); err != nil {
			return 0, wrapErr("node", err)
		}
		return next, nil
	}
	if err != nil {
		return 0, wrapErr("node", err)
	}
	return id.Node(n), nil
}

func (s *Store) nextNodeID() (id.Node, error) {
	var max sql.NullInt64
	if err := s.db.QueryRow("SELECT max(id) FROM node").Scan(&max); err != nil {
		return 0, wrapErr("node", err)
	}
	return id.NextResourceID(id.Node(max.Int64)), nil
}

func (s *Store) nextLiteralID() (id.Node, error) {
	var min sql.NullInt64
	if err := s.db.QueryRow("SELECT min(id) FROM node WHERE id < 0").Scan(&min); err != nil {
		return 0, wrapErr("literal", err)
	}
	return id.NextLiteralID(id.Node(min.Int64)), nil
}

// Literal interns str (with an optional datatype node and/or language
// tag) as a literal node.
func (s *Store) Literal(str string, datatype id.Node, lang string) (id.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		n   int64
		err error
	)
	switch {
	case datatype != id.Null:
		err = s.db.QueryRow("SELECT id FROM node WHERE str = ? AND id < 0 AND datatype = ?",
			str, int64(datatype)).Scan(&n)
	case lang != "":
		err = s.db.QueryRow("SELECT id FROM node WHERE str = ? AND id < 0 AND lang = ?",
			str, lang).Scan(&n)
	default:
		err = s.db.QueryRow("SELECT id FROM node WHERE str = ? AND id < 0 AND datatype = 0 AND lang IS NULL", str).Scan(&n)
	}

	if err == nil {
		return id.Node(n), nil
	}
	if err != sql.ErrNoRows {
		return 0, wrapErr("literal", err)
	}

	next, err := s.nextLiteralID()
	if err != nil {
		return 0, err
	}
	switch {
	case datatype != id.Null:
		_, err = s.db.Exec("INSERT INTO node VALUES (?, ?, ?, NULL)", int64(next), str, int64(datatype))
	case lang != "":
		_, err = s.db.Exec("INSERT INTO node VALUES (?, ?, 0, ?)", int64(next), str, lang)
	default:
		_, err = s.db.Exec("INSERT INTO node VALUES (?, ?, 0, NULL)", int64(next), str)
	}
	if err != nil {
		return 0, wrapErr("literal", err)
	}
	return next, nil
}

// AugmentLiteral sets literal's datatype, replacing any datatype it
// already carries, and leaves it unchanged if it already carries the same
// datatype. It reports false for a resource id.
func (s *Store) AugmentLiteral(literal, datatype id.Node) (bool, error) {
	if literal.IsResource() {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, oldDatatype, _, err := s.info(literal)
	if err != nil {
		return false, err
	}
	if oldDatatype == datatype {
		return true, nil
	}
	if _, err := s.db.Exec("UPDATE node SET datatype = ? WHERE id = ?",
		int64(datatype), int64(literal)); err != nil {
		return false, wrapErr("augmentLiteral", err)
	}
	return true, nil
}

// Info returns a node's stored string value along with its datatype (for
// literals) and language tag (for literals). For a resource it returns
// just the URI, with datatype/lang always Null/"".
func (s *Store) Info(n id.Node) (str string, datatype id.Node, lang string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(n)
}

func (s *Store) info(n id.Node) (str string, datatype id.Node, lang string, err error) {
	if n.IsLiteral() {
		var (
			nstr      sql.NullString
			ndatatype sql.NullInt64
			nlang     sql.NullString
		)
		err = s.db.QueryRow("SELECT str, datatype, lang FROM node WHERE id = ?", int64(n)).
			Scan(&nstr, &ndatatype, &nlang)
		if err == sql.ErrNoRows {
			return "", id.Null, "", nil
		}
		if err != nil {
			return "", id.Null, "", wrapErr("info", err)
		}
		return nstr.String, id.Node(ndatatype.Int64), nlang.String, nil
	}

	var nstr sql.NullString
	err = s.db.QueryRow("SELECT str FROM node WHERE id = ?", int64(n)).Scan(&nstr)
	if err == sql.ErrNoRows {
		return "", id.Null, "", nil
	}
	if err != nil {
		return "", id.Null, "", wrapErr("info", err)
	}
	return nstr.String, id.Null, "", nil
}

// ToString renders a node the way piglet's toString does: a literal value
// is shown as #"value", optionally suffixed with ^^datatype or @lang; a
// resource is shown with a leading "!", preferring a known qname, falling
// back to a quoted URI, falling back to its raw numeric id if it has
// neither (an anonymous blank node that was never interned with a URI).
func (s *Store) ToString(n id.Node) (string, error) {
	str, datatype, lang, err := s.Info(n)
	if err != nil {
		return "", err
	}

	if n.IsLiteral() {
		out := fmt.Sprintf("#%q", str)
		if datatype != id.Null {
			dtStr, err := s.ToString(datatype)
			if err != nil {
				return "", err
			}
			out += "^^" + strings.TrimPrefix(dtStr, "!")
		} else if lang != "" {
			out += "@" + lang
		}
		return out, nil
	}

	if str == "" {
		return fmt.Sprintf("!<%d>", int64(n)), nil
	}
	qname, err := s.NodeQName(n)
	if err != nil {
		return "", err
	}
	if qname != "" {
		return "!" + qname, nil
	}
	return fmt.Sprintf("!%q", str), nil
}

// TripleString renders a triple as "<s, p, o>" using ToString for each
// component.
func (s *Store) TripleString(subject, predicate, object id.Node) (string, error) {
	sstr, err := s.ToString(subject)
	if err != nil {
		return "", err
	}
	pstr, err := s.ToString(predicate)
	if err != nil {
		return "", err
	}
	ostr, err := s.ToString(object)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<%s, %s, %s>", sstr, pstr, ostr), nil
}
