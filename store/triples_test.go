package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aqlgraph/aql/id"
	"github.com/aqlgraph/aql/store"
)

func node(t *testing.T, s *store.Store, uri string) id.Node {
	t.Helper()
	n, err := s.Node(uri, false)
	require.NoError(t, err)
	return n
}

func TestAddExistsAndDel(t *testing.T) {
	s := openTestStore(t)
	subj := node(t, s, "http://example.org/s")
	pred := node(t, s, "http://example.org/p")
	obj := node(t, s, "http://example.org/o")
	src := node(t, s, "http://example.org/src")

	tr := store.Triple{Subject: subj, Predicate: pred, Object: obj}

	added, err := s.Add(tr, src, false)
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.Add(tr, src, false)
	require.NoError(t, err)
	require.False(t, added)

	exists, err := s.Exists(subj, pred, obj, src, false)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Exists(subj, pred, id.Null, id.Null, false)
	require.NoError(t, err)
	require.True(t, exists)

	deleted, err := s.Del(tr, src, false)
	require.NoError(t, err)
	require.True(t, deleted)

	exists, err = s.Exists(subj, pred, obj, src, false)
	require.NoError(t, err)
	require.False(t, exists)

	deleted, err = s.Del(tr, src, false)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestAddTemporaryDoesNotDuplicateAcrossLayers(t *testing.T) {
	s := openTestStore(t)
	subj := node(t, s, "http://example.org/s")
	pred := node(t, s, "http://example.org/p")
	obj := node(t, s, "http://example.org/o")
	tr := store.Triple{Subject: subj, Predicate: pred, Object: obj}

	added, err := s.Add(tr, id.Null, false)
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.Add(tr, id.Null, true)
	require.NoError(t, err)
	require.False(t, added)
}

func TestCountAndQueryUnionBothLayers(t *testing.T) {
	s := openTestStore(t)
	subj := node(t, s, "http://example.org/s")
	pred := node(t, s, "http://example.org/p")
	obj1 := node(t, s, "http://example.org/o1")
	obj2 := node(t, s, "http://example.org/o2")

	_, err := s.Add(store.Triple{Subject: subj, Predicate: pred, Object: obj1}, id.Null, false)
	require.NoError(t, err)
	_, err = s.Add(store.Triple{Subject: subj, Predicate: pred, Object: obj2}, id.Null, true)
	require.NoError(t, err)

	n, err := s.Count(subj, pred, id.Null, id.Null, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = s.Count(subj, pred, id.Null, id.Null, true)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	triples, err := s.Query(subj, pred, id.Null, id.Null)
	require.NoError(t, err)
	require.Len(t, triples, 2)
}

func TestSourcesIsPersistentOnly(t *testing.T) {
	s := openTestStore(t)
	subj := node(t, s, "http://example.org/s")
	pred := node(t, s, "http://example.org/p")
	obj := node(t, s, "http://example.org/o")
	src := node(t, s, "http://example.org/src")

	_, err := s.Add(store.Triple{Subject: subj, Predicate: pred, Object: obj}, src, false)
	require.NoError(t, err)

	tempObj := node(t, s, "http://example.org/o2")
	_, err = s.Add(store.Triple{Subject: subj, Predicate: pred, Object: tempObj}, src, true)
	require.NoError(t, err)

	sources, err := s.Sources(subj, pred, id.Null)
	require.NoError(t, err)
	require.Equal(t, []id.Node{src}, sources)
}

func TestMatchFindsSubstring(t *testing.T) {
	s := openTestStore(t)
	node(t, s, "http://example.org/alpha")
	node(t, s, "http://example.org/beta")

	matches, err := s.Match("alpha")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestAddPostProcessDerivesTypeAndSubclass(t *testing.T) {
	s := openTestStore(t)
	p := node(t, s, "http://example.org/knows")
	o := node(t, s, "http://example.org/Person")

	derived, err := s.AddPostProcess(store.Triple{Predicate: p, Object: o})
	require.NoError(t, err)
	require.False(t, derived)

	exists, err := s.Exists(p, store.NodeRDFType, store.NodeRDFProperty, id.Null, true)
	require.NoError(t, err)
	require.True(t, exists)

	derived, err = s.AddPostProcess(store.Triple{Predicate: store.NodeRDFType, Object: o})
	require.NoError(t, err)
	require.True(t, derived)

	exists, err = s.Exists(o, store.NodeRDFType, store.NodeRDFSClass, id.Null, true)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Exists(o, store.NodeRDFSSubClassOf, store.NodeRDFSResource, id.Null, true)
	require.NoError(t, err)
	require.True(t, exists)
}
