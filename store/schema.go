package store

// Schema follows spec.md §6 exactly: column names and the cache attached
// schema are load-bearing, since the translator emits SQL directly against
// them (see translator/emit.go).
const (
	schemaCreate = `
CREATE TABLE info (version TEXT);
CREATE TABLE node (id INTEGER PRIMARY KEY, str TEXT, datatype INTEGER, lang TEXT);
CREATE TABLE triple (s INTEGER, p INTEGER, o INTEGER, src INTEGER);
CREATE TABLE namespace (prefix TEXT UNIQUE, uri TEXT, active INTEGER);
CREATE TABLE source (src INTEGER, created INTEGER, loaded INTEGER);
CREATE INDEX triple_s ON triple(s);
CREATE INDEX triple_p ON triple(p);
CREATE INDEX triple_o ON triple(o);
CREATE INDEX triple_src ON triple(src);
CREATE INDEX node_str ON node(str);
INSERT INTO info VALUES ('1');
INSERT INTO node VALUES (1, 'http://www.w3.org/1999/02/22-rdf-syntax-ns#type', 0, NULL);
INSERT INTO node VALUES (2, 'http://www.w3.org/1999/02/22-rdf-syntax-ns#Property', 0, NULL);
INSERT INTO node VALUES (3, 'http://www.w3.org/2000/01/rdf-schema#Resource', 0, NULL);
INSERT INTO node VALUES (4, 'http://www.w3.org/2000/01/rdf-schema#Class', 0, NULL);
INSERT INTO node VALUES (5, 'http://www.w3.org/2000/01/rdf-schema#subClassOf', 0, NULL);
`

	schemaCache = `
CREATE TABLE cache.triple (s INTEGER, p INTEGER, o INTEGER, src INTEGER);
CREATE TABLE cache.bnode (id INTEGER, str TEXT);
`

	schemaVersion = "SELECT version FROM info"
)

// schemaVersionTableMissing reports whether err is the "no such table"
// error sqlite returns when info hasn't been created yet — the same
// signal piglet's constructor uses to decide whether to run schemaCreate.
func schemaVersionTableMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return containsNoSuchTable(msg)
}

func containsNoSuchTable(msg string) bool {
	const needle = "no such table"
	for i := 0; i+len(needle) <= len(msg); i++ {
		if msg[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
