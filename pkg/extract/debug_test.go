package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraceFromRawCall(t *testing.T) {
	t.Parallel()

	raw := rawTrace{
		Type:   "call",
		Action: json.RawMessage(`{"from":"0x0000000000000000000000000000000000000001","callType":"call","gas":"0x5208","input":"0x","to":"0x0000000000000000000000000000000000000002","value":"0x1"}`),
		Result: json.RawMessage(`{"gasUsed":"0x5208","output":"0x"}`),
	}

	trace, err := traceFromRaw(raw)
	require.NoError(t, err)
	require.Equal(t, TraceKindCall, trace.Kind)
	require.NotNil(t, trace.ActionCall)
	require.Equal(t, "call", trace.ActionCall.CallType)
	require.NotNil(t, trace.ResultCall)
}

func TestTraceFromRawReward(t *testing.T) {
	t.Parallel()

	raw := rawTrace{
		Type:   "reward",
		Action: json.RawMessage(`{"author":"0x0000000000000000000000000000000000000001","rewardType":"block","value":"0x1"}`),
	}

	trace, err := traceFromRaw(raw)
	require.NoError(t, err)
	require.Equal(t, TraceKindReward, trace.Kind)
	require.NotNil(t, trace.ActionReward)
	require.Nil(t, trace.TransactionHash)
}

func TestTraceFromRawUnknownType(t *testing.T) {
	t.Parallel()

	_, err := traceFromRaw(rawTrace{Type: "bogus"})
	require.Error(t, err)
}
