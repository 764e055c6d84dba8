package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNamespaceRejectsDuplicatePrefix(t *testing.T) {
	s := openTestStore(t)
	ok, err := s.AddNamespace("ex", "http://example.org/")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.AddNamespace("ex", "http://other.org/")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDelNamespaceRemovesRegistration(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AddNamespace("ex", "http://example.org/")
	require.NoError(t, err)

	require.NoError(t, s.DelNamespace("ex"))

	uri, err := s.QName2URI("ex:thing")
	require.Error(t, err)
	require.Empty(t, uri)
}

func TestNodeQNameRoundTripsWithQName2URI(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AddNamespace("ex", "http://example.org/")
	require.NoError(t, err)

	n := node(t, s, "http://example.org/thing")
	qname, err := s.NodeQName(n)
	require.NoError(t, err)
	require.Equal(t, "ex:thing", qname)

	uri, err := s.QName2URI(qname)
	require.NoError(t, err)
	require.Equal(t, "http://example.org/thing", uri)
}

func TestNodeQNameEmptyWithoutRegisteredNamespace(t *testing.T) {
	s := openTestStore(t)
	n := node(t, s, "http://example.org/thing")

	qname, err := s.NodeQName(n)
	require.NoError(t, err)
	require.Empty(t, qname)
}

func TestQName2URIFailsWithoutColon(t *testing.T) {
	s := openTestStore(t)
	_, err := s.QName2URI("noprefix")
	require.Error(t, err)
}
