package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aqlgraph/aql/id"
)

// AddNamespace registers prefix as shorthand for uri. It reports false
// without changing anything if prefix is already registered.
func (s *Store) AddNamespace(prefix, uri string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.prefix2namespace(prefix)
	if err != nil {
		return false, err
	}
	if existing != "" {
		return false, nil
	}
	if _, err := s.db.Exec("INSERT INTO namespace VALUES (?, ?, 1)", prefix, uri); err != nil {
		return false, wrapErr("addNamespace", err)
	}
	return true, nil
}

// DelNamespace removes prefix's registration, if any.
func (s *Store) DelNamespace(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM namespace WHERE prefix = ?", prefix); err != nil {
		return wrapErr("delNamespace", err)
	}
	return nil
}

func (s *Store) prefix2namespace(prefix string) (string, error) {
	var uri sql.NullString
	err := s.db.QueryRow("SELECT uri FROM namespace WHERE prefix = ?", prefix).Scan(&uri)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", wrapErr("prefix2namespace", err)
	}
	return uri.String, nil
}

func (s *Store) namespace2prefix(uri string) (string, error) {
	var prefix sql.NullString
	err := s.db.QueryRow("SELECT prefix FROM namespace WHERE uri = ?", uri).Scan(&prefix)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", wrapErr("namespace2prefix", err)
	}
	return prefix.String, nil
}

// NodeQName renders n's URI (if it has one) as a registered-namespace
// qname, returning "" if n has no URI or no registered namespace covers
// it.
func (s *Store) NodeQName(n id.Node) (string, error) {
	uri, _, _, err := s.Info(n)
	if err != nil {
		return "", err
	}
	if uri == "" {
		return "", nil
	}
	return s.uriQName(uri)
}

// uriQName splits uri at its last '/' or '#' and looks up the namespace
// part (including the separator) against the registered namespaces,
// returning "prefix:local" on a hit.
func (s *Store) uriQName(uri string) (string, error) {
	i := strings.LastIndexAny(uri, "/#")
	if i <= 6 {
		return "", nil
	}
	nsURI := uri[:i+1]
	prefix, err := s.namespace2prefix(nsURI)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return "", nil
	}
	return prefix + ":" + uri[i+1:], nil
}

// QName2URI expands "prefix:local" into its full URI using the registered
// namespace table, failing if prefix isn't registered or qname has no
// ':'.
func (s *Store) QName2URI(qname string) (string, error) {
	i := strings.IndexByte(qname, ':')
	if i < 0 {
		return "", wrapErr("qName2URI", fmt.Errorf("qname %q has no ':'", qname))
	}
	prefix, local := qname[:i], qname[i+1:]

	var uri sql.NullString
	err := s.db.QueryRow("SELECT uri || ? FROM namespace WHERE prefix = ?", local, prefix).Scan(&uri)
	if err == sql.ErrNoRows || (err == nil && !uri.Valid) {
		return "", wrapErr("qName2URI", fmt.Errorf("unregistered namespace prefix %q", prefix))
	}
	if err != nil {
		return "", wrapErr("qName2URI", err)
	}
	return uri.String, nil
}
