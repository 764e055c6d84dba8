package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/aqlgraph/aql/id"
)

// RemoteTimeFetcher obtains a source URI's last-modified time, the way
// piglet's libcurl::Curl::getFileTime drives the reload skip-policy. ok
// is false when the remote doesn't report a modification time at all.
type RemoteTimeFetcher interface {
	ModTime(ctx context.Context, uri string) (modTime time.Time, ok bool, err error)
}

// Ingestor parses source content into triples to be stored against
// source, replacing piglet's RaptorParser. script, when non-empty, names
// an external script that produces the content instead of fetching the
// source URI directly (piglet's parseFromScript path); args are passed
// to it.
type Ingestor interface {
	Ingest(ctx context.Context, source id.Node, uri string, script string, args []string) ([]Triple, error)
}

// LoadOptions configures a single Load call.
type LoadOptions struct {
	Append  bool
	Script  string
	Args    []string
	Fetcher RemoteTimeFetcher
	Parser  Ingestor
}

// Load fetches and stores the triples for source, following piglet's
// five-step load protocol: check whether the source is known, consult
// the fetcher (unless a script bypasses the time check), apply the
// skip-load policy, then ingest transactionally.
func (s *Store) Load(ctx context.Context, source id.Node, uri string, opts LoadOptions) (reloaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var createdAt int64
	known, err := s.sourceCreatedAt(source, &createdAt)
	if err != nil {
		return false, err
	}

	var remoteTime time.Time
	haveRemoteTime := false
	if opts.Script == "" {
		if opts.Fetcher == nil {
			return false, loadErr(uri, errNoFetcher)
		}
		remoteTime, haveRemoteTime, err = opts.Fetcher.ModTime(ctx, uri)
		if err != nil {
			return false, loadErr(uri, err)
		}
		if known && (!haveRemoteTime || remoteTime.Unix() <= createdAt) {
			return false, nil
		}
	}

	if _, err := s.db.Exec("BEGIN TRANSACTION"); err != nil {
		return false, wrapErr("load", err)
	}
	rollback := func(cause error) (bool, error) {
		s.db.Exec("ROLLBACK")
		return false, loadErr(uri, cause)
	}

	if _, err := s.db.Exec("DELETE FROM cache.bnode"); err != nil {
		return rollback(err)
	}
	if !opts.Append {
		if err := s.delSourceTriplesLocked(source); err != nil {
			return rollback(err)
		}
	}

	triples, err := opts.Parser.Ingest(ctx, source, uri, opts.Script, opts.Args)
	if err != nil {
		return rollback(err)
	}
	for _, t := range triples {
		if _, err := s.db.Exec("INSERT INTO triple VALUES (?, ?, ?, ?)",
			int64(t.Subject), int64(t.Predicate), int64(t.Object), int64(source)); err != nil {
			return rollback(err)
		}
	}

	var newCreated int64
	if haveRemoteTime {
		newCreated = remoteTime.Unix()
	}
	if known {
		if _, err := s.db.Exec("UPDATE source SET loaded = ?, created = ? WHERE src = ?",
			time.Now().Unix(), newCreated, int64(source)); err != nil {
			return rollback(err)
		}
	} else {
		// newCreated == 0 when the remote reports no modification time:
		// "0 means unknown", not "epoch".
		if _, err := s.db.Exec("INSERT INTO source VALUES (?, ?, ?)",
			int64(source), newCreated, time.Now().Unix()); err != nil {
			return rollback(err)
		}
	}

	if _, err := s.db.Exec("COMMIT"); err != nil {
		return false, wrapErr("load", err)
	}
	if _, err := s.db.Exec("DELETE FROM cache.bnode"); err != nil {
		return false, wrapErr("load", err)
	}
	return true, nil
}

func (s *Store) sourceCreatedAt(source id.Node, out *int64) (bool, error) {
	err := s.db.QueryRow("SELECT created FROM source WHERE src = ? LIMIT 1", int64(source)).Scan(out)
	if err == nil {
		return true, nil
	}
	if err == sql.ErrNoRows {
		return false, nil
	}
	return false, wrapErr("load", err)
}

var errNoFetcher = loadFetcherError{}

type loadFetcherError struct{}

func (loadFetcherError) Error() string { return "no RemoteTimeFetcher configured for a non-script load" }

// DelSourceTriples removes every triple (in both layers) asserted by
// source, without touching the source registry row itself.
func (s *Store) DelSourceTriples(source id.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delSourceTriplesLocked(source)
}

func (s *Store) delSourceTriplesLocked(source id.Node) error {
	where, args := wildcardClause(id.Null, id.Null, id.Null, source)
	if _, err := s.db.Exec("DELETE FROM cache.triple"+where, args...); err != nil {
		return wrapErr("delSourceTriples", err)
	}
	if _, err := s.db.Exec("DELETE FROM triple"+where, args...); err != nil {
		return wrapErr("delSourceTriples", err)
	}
	return nil
}

// DelSource removes source's registry row along with every triple it
// asserted, transactionally.
func (s *Store) DelSource(source id.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("BEGIN TRANSACTION"); err != nil {
		return wrapErr("delSource", err)
	}
	if err := s.delSourceTriplesLocked(source); err != nil {
		s.db.Exec("ROLLBACK")
		return err
	}
	if _, err := s.db.Exec("DELETE FROM source WHERE src = ?", int64(source)); err != nil {
		s.db.Exec("ROLLBACK")
		return wrapErr("delSource", err)
	}
	if _, err := s.db.Exec("COMMIT"); err != nil {
		return wrapErr("delSource", err)
	}
	return nil
}

// AllSources returns every source node with a registry row.
func (s *Store) AllSources() ([]id.Node, error) {
	rows, err := s.db.Query("SELECT src FROM source")
	if err != nil {
		return nil, wrapErr("allSources", err)
	}
	defer rows.Close()

	var out []id.Node
	for rows.Next() {
		var src int64
		if err := rows.Scan(&src); err != nil {
			return nil, wrapErr("allSources", err)
		}
		out = append(out, id.Node(src))
	}
	return out, rows.Err()
}

// Transaction begins an explicit transaction. Commit or Rollback ends it.
func (s *Store) Transaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("BEGIN"); err != nil {
		return wrapErr("transaction", err)
	}
	return nil
}

// Commit ends a transaction started with Transaction, making its changes
// permanent.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("COMMIT"); err != nil {
		return wrapErr("commit", err)
	}
	return nil
}

// Rollback ends a transaction started with Transaction, discarding its
// changes.
func (s *Store) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("ROLLBACK"); err != nil {
		return wrapErr("rollback", err)
	}
	return nil
}
