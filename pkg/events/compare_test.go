package events

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func mustParseEvent(t *testing.T, fragment string) abi.Event {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(fragment))
	require.NoError(t, err)
	for _, e := range parsed.Events {
		return e
	}
	t.Fatal("fragment contained no event")
	return abi.Event{}
}

const transferFragment = `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
	{"indexed":true,"name":"from","type":"address"},
	{"indexed":true,"name":"to","type":"address"},
	{"indexed":false,"name":"value","type":"uint256"}]}]`

func TestCompareEventsReflexive(t *testing.T) {
	t.Parallel()

	e := mustParseEvent(t, transferFragment)
	require.Equal(t, ExactlyEqual, CompareEvents(e, e))
	require.True(t, CompareEvents(e, e).DecodesSame())
}

func TestCompareEventsSameDecodingOnNameChange(t *testing.T) {
	t.Parallel()

	a := mustParseEvent(t, transferFragment)
	b := mustParseEvent(t, `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"sender","type":"address"},
		{"indexed":true,"name":"recipient","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`)

	require.Equal(t, SameDecoding, CompareEvents(a, b))
	require.True(t, CompareEvents(a, b).DecodesSame())
}

func TestCompareEventsMismatchedIndexing(t *testing.T) {
	t.Parallel()

	a := mustParseEvent(t, transferFragment)
	b := mustParseEvent(t, `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":false,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`)

	require.Equal(t, MismatchedParamIndexing, CompareEvents(a, b))
	require.False(t, CompareEvents(a, b).DecodesSame())
}

func TestCompareEventsNoEquivalence(t *testing.T) {
	t.Parallel()

	a := mustParseEvent(t, transferFragment)
	b := mustParseEvent(t, `[{"type":"event","name":"Approval","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"spender","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`)

	require.Equal(t, NoEquivalence, CompareEvents(a, b))
	require.False(t, CompareEvents(a, b).DecodesSame())
}

func TestCompareEventsDifferentTypeIsNoEquivalence(t *testing.T) {
	t.Parallel()

	a := mustParseEvent(t, transferFragment)
	b := mustParseEvent(t, `[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint128"}]}]`)

	require.Equal(t, NoEquivalence, CompareEvents(a, b))
}
