package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTracksPresence(t *testing.T) {
	var req StatusUpsertRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"title":"X","description":null}`), &req))

	assert.True(t, req.ID.Present())
	assert.Equal(t, int64(4), req.ID.Value)
	assert.True(t, req.Title.Present())
	assert.Equal(t, "X", req.Title.Value)

	assert.True(t, req.Description.Set)
	assert.True(t, req.Description.Null)
	assert.False(t, req.Description.Present())

	assert.False(t, req.Section.Set)
	assert.False(t, req.Position.Set)
	assert.False(t, req.IsActive.Set)
}

func TestOptionalZeroValuesArePresent(t *testing.T) {
	var req StatusUpsertRequest
	require.NoError(t, json.Unmarshal([]byte(`{"position":0,"is_active":false,"description":""}`), &req))

	assert.True(t, req.Position.Present())
	assert.Equal(t, int64(0), req.Position.Value)
	assert.True(t, req.IsActive.Present())
	assert.False(t, bool(req.IsActive.Value))
	assert.True(t, req.Description.Present())
}

func TestBoolAcceptsIntegers(t *testing.T) {
	cases := map[string]bool{`true`: true, `false`: false, `1`: true, `0`: false}
	for in, want := range cases {
		var b Bool
		require.NoError(t, json.Unmarshal([]byte(in), &b), in)
		assert.Equal(t, want, bool(b), in)
	}

	for _, in := range []string{`2`, `"true"`, `1.0`} {
		var b Bool
		assert.Error(t, json.Unmarshal([]byte(in), &b), in)
	}

	out, err := json.Marshal(Bool(true))
	require.NoError(t, err)
	assert.Equal(t, "true", string(out))
}

func TestBoolWrongTypeNamesField(t *testing.T) {
	var req StatusUpsertRequest
	err := json.Unmarshal([]byte(`{"is_active":"yes"}`), &req)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "is_active", typeErr.Field)
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req StatusUpsertRequest
	assert.Error(t, json.Unmarshal([]byte(`{"position":"first"}`), &req))
}

func TestOptionalOmitsAbsentFields(t *testing.T) {
	b, err := json.Marshal(StatusUpsertRequest{
		ID:    Some(int64(7)),
		Title: Some("renamed"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"renamed"}`, string(b))
}

func TestSectionValid(t *testing.T) {
	assert.True(t, SectionBuilding.Valid())
	assert.True(t, SectionLearning.Valid())
	assert.False(t, Section("shipping").Valid())
	assert.False(t, Section("").Valid())
}
