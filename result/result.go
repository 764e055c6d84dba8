// Package result adapts a raw SQL row cursor to the shape an AQL query
// result exposes: a fixed header of select labels, and a cursor that
// reports whether another row is available before the caller asks for it.
package result

import "database/sql"

// Row is one result row, indexed the same way as Header. A nil entry means
// the cell's triple component was NULL (no node stored for that query
// position); a non-nil entry is the stored node string value.
type Row []*string

// QueryFunc runs (or re-runs) the query backing a Rows cursor.
type QueryFunc func() (*sql.Rows, error)

// Rows is a forward-only cursor over an AQL query's result rows. It
// pre-fetches the next row as soon as it's constructed (and after every
// NextRow call), so HasNextRow never needs to touch the database.
type Rows struct {
	header  []string
	query   QueryFunc
	rows    *sql.Rows
	current Row
	hasNext bool
}

// New executes query and returns a cursor already positioned before the
// first row.
func New(header []string, query QueryFunc) (*Rows, error) {
	rows, err := query()
	if err != nil {
		return nil, err
	}
	r := &Rows{header: header, query: query, rows: rows}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the select labels, in column order.
func (r *Rows) Header() []string {
	return r.header
}

// HasNextRow reports whether NextRow has another row to return.
func (r *Rows) HasNextRow() bool {
	return r.hasNext
}

// NextRow returns the pre-fetched current row and advances the cursor.
// Calling it after HasNextRow returns false panics, the same way reading
// past the end of any other Go iterator does.
func (r *Rows) NextRow() (Row, error) {
	if !r.hasNext {
		panic("result: NextRow called with no row available")
	}
	row := r.current
	if err := r.advance(); err != nil {
		return nil, err
	}
	return row, nil
}

// Reset re-runs the underlying query and repositions the cursor before its
// first row, the way a debug printer that dumps raw rows and then hands
// the same query off to a second consumer needs to.
func (r *Rows) Reset() error {
	if err := r.rows.Close(); err != nil {
		return err
	}
	rows, err := r.query()
	if err != nil {
		return err
	}
	r.rows = rows
	return r.advance()
}

// Close releases the underlying SQL rows. It is safe to call more than
// once.
func (r *Rows) Close() error {
	return r.rows.Close()
}

func (r *Rows) advance() error {
	if !r.rows.Next() {
		r.hasNext = false
		return r.rows.Err()
	}

	raw := make([]sql.NullString, len(r.header))
	dest := make([]interface{}, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return err
	}

	row := make(Row, len(raw))
	for i, v := range raw {
		if v.Valid {
			s := v.String
			row[i] = &s
		}
	}
	r.current = row
	r.hasNext = true
	return nil
}
