package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Object(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success": true, "msg": "ok", "data": {"guid": "g-1"}}`))
	require.NoError(t, err)
	require.True(t, env.HasData())

	var out struct {
		GUID string `json:"guid"`
	}
	require.NoError(t, env.Object(&out))
	assert.Equal(t, "g-1", out.GUID)
}

func TestEnvelope_EmptyData(t *testing.T) {
	for _, raw := range []string{
		`{"success": true, "data": null}`,
		`{"success": true, "data": {}}`,
		`{"success": true, "data": []}`,
		`{"success": true}`,
	} {
		env, err := ParseEnvelope([]byte(raw))
		require.NoError(t, err, raw)
		assert.False(t, env.HasData(), raw)

		var out map[string]interface{}
		assert.ErrorIs(t, env.Object(&out), ErrEmptyData, raw)
	}
}

func TestEnvelope_ListWrapsLoneObject(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success": true, "data": {"guid": "g-1"}}`))
	require.NoError(t, err)

	var out []struct {
		GUID string `json:"guid"`
	}
	require.NoError(t, env.List(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "g-1", out[0].GUID)
}

func TestEnvelope_Malformed(t *testing.T) {
	_, err := ParseEnvelope([]byte(`<html>gateway timeout</html>`))
	assert.Error(t, err)
}

func TestAPIError_Conflict(t *testing.T) {
	err := &APIError{Status: 409, Path: PathAddAddress, Msg: "address already exists"}
	assert.True(t, IsConflict(err))
	assert.False(t, IsConflict(&APIError{Status: 500, Path: PathAddAddress}))
	assert.Contains(t, err.Error(), "409")
}
