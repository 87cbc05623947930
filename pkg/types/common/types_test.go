package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.NoError(t, a.Validate())
	assert.Equal(t, string(a), a.String())

	assert.EqualError(t, ID("").Validate(), "empty run id")
	err := ID("run-7").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"run-7"`)
}

func TestTimestamp_JSON(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	ts := Timestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, cet))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T08:30:00Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Time().Equal(back.Time()))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`17`), &back))
}

func TestEnvelopes(t *testing.T) {
	ok := NewSuccessResponse([]int{1, 2})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	failed := NewErrorResponse("DAT_002", "column not found", "column=Smiles")
	failed.RequestID = "req-9"
	data, err := json.Marshal(failed)
	require.NoError(t, err)

	var decoded APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Success)
	assert.Nil(t, decoded.Data)
	assert.Equal(t, "req-9", decoded.RequestID)
	assert.Equal(t, &ErrorDetail{Code: "DAT_002", Message: "column not found", Detail: "column=Smiles"}, decoded.Error)
	assert.NotContains(t, string(data), `"data"`)
}

//Personal.AI order the ending
