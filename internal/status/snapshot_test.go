package status

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONLines(t *testing.T) {
	in := `{"event": "SN1", "desc": "burning", "scores": [[1, 2], [3]], "accepts": [0.2], "progress": [5, 100]}
{"event": "SN1", "progress": [6, null], "acor": [10.5, 3.2, 40], "psrf": [1.1, 40], "messages": ["hello"]}
`
	snaps, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	first := snaps[0]
	assert.Equal(t, "SN1", first.EventName)
	assert.Equal(t, "burning", first.Description)
	assert.Equal(t, [][]float64{{1, 2}, {3}}, first.Scores)
	assert.Equal(t, []float64{0.2}, first.Accepts)
	assert.Equal(t, &Progress{Current: 5, Total: 100}, first.Progress)
	assert.Nil(t, first.Acor)

	second := snaps[1]
	assert.Equal(t, &Progress{Current: 6}, second.Progress)
	assert.Equal(t, &Acor{Tau: 10.5, Ratio: 3.2, MinIndex: 40}, second.Acor)
	assert.Equal(t, &PSRF{Value: 1.1, MinIndex: 40}, second.PSRF)
	assert.Equal(t, []string{"hello"}, second.Messages)
	assert.Nil(t, second.Scores)
}

func TestDecode_YAMLStream(t *testing.T) {
	in := `event: SN2
psrf: [.inf, 3]
estimate:
  primary: 120
  fracking_enabled: true
kmat:
  - [1, 0.5]
  - [0.5, 1]
---
event: SN2
make_space: true
`
	snaps, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	require.NotNil(t, snaps[0].PSRF)
	assert.True(t, math.IsInf(snaps[0].PSRF.Value, 1))
	assert.Equal(t, &Estimate{Primary: 120, FrackingEnabled: true}, snaps[0].Estimate)
	assert.Len(t, snaps[0].CorrelationMatrix, 2)
	assert.True(t, snaps[1].MakeSpace)
}

func TestDecode_MessagesMustBeList(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"messages": "not a list"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMessagesNotList)
}

func TestDecode_BadAcorArity(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"acor": [1, 2]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acor")
}

func TestDecode_Empty(t *testing.T) {
	snaps, err := Decode(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
