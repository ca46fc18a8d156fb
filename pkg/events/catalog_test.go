package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapCatalogAddGetPop(t *testing.T) {
	t.Parallel()

	catalog := NewMapCatalog()
	e := mustParseEvent(t, transferFragment)

	require.NoError(t, catalog.Add(e))

	got, err := catalog.Get(e.ID, 3)
	require.NoError(t, err)
	require.Equal(t, e.Sig, got.Sig)

	_, err = catalog.Get(e.ID, 2)
	require.ErrorIs(t, err, ErrNotFound)

	popped, err := catalog.Pop(e.ID, 3)
	require.NoError(t, err)
	require.Equal(t, e.Sig, popped.Sig)

	_, err = catalog.Pop(e.ID, 3)
	require.Error(t, err)
}

func TestMapCatalogAddDuplicateIsNoop(t *testing.T) {
	t.Parallel()

	catalog := NewMapCatalog()
	e := mustParseEvent(t, transferFragment)

	require.NoError(t, catalog.Add(e))
	require.NoError(t, catalog.Add(e))

	got, err := catalog.Get(e.ID, 3)
	require.NoError(t, err)
	require.Equal(t, e.Sig, got.Sig)
}

func TestMapCatalogAddSameDecodingKeepsFirst(t *testing.T) {
	t.Parallel()

	catalog := NewMapCatalog()
	first := mustParseEvent(t, transferFragment)
	second := mustParseEvent(t, `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"sender","type":"address"},
		{"indexed":true,"name":"recipient","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`)

	require.NoError(t, catalog.Add(first))
	require.NoError(t, catalog.Add(second))

	got, err := catalog.Get(first.ID, 3)
	require.NoError(t, err)
	require.Equal(t, "from", got.Inputs[0].Name)
}

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	require.NotNil(t, catalog)
	require.NotEmpty(t, catalog.m)
}
