package petid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicky struct{}

func (panicky) String() string { panic("boom") }

func TestNormalize_Forms(t *testing.T) {
	cases := []struct {
		name string
		raw  Raw
		want string
	}{
		{"empty", Raw{}, ""},
		{"plain string", FromString("abc123"), "abc123"},
		{"wrapped", Wrapped("6650f0c2"), "6650f0c2"},
		{"wrapped empty inner", Wrapped(""), ""},
		{"opaque int", Opaque(42), "42"},
		{"opaque bool", Opaque(true), "true"},
		{"opaque map", Opaque(map[string]any{"a": 1}), `{"a":1}`},
		{"opaque slice", Opaque([]int{1, 2}), "[1,2]"},
		{"stringer that panics", Opaque(panicky{}), "{}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"abc",
		map[string]any{"$oid": "6650f0c2"},
		map[string]any{"other": "x"},
		json.Number("12345678901234567890"),
		3.5,
		[]string{"a"},
		panicky{},
	}

	for _, in := range inputs {
		once := Normalize(Of(in))
		twice := Normalize(FromString(once))
		assert.Equal(t, once, twice, "input %#v", in)
	}
}

func TestOf_Classifies(t *testing.T) {
	assert.Equal(t, KindEmpty, Of(nil).Kind())
	assert.Equal(t, KindString, Of("x").Kind())
	assert.Equal(t, KindWrapped, Of(map[string]any{"$oid": "x"}).Kind())
	assert.Equal(t, KindWrapped, Of(map[string]string{"$oid": "x"}).Kind())
	assert.Equal(t, KindOpaque, Of(map[string]any{"$oid": 7}).Kind())
	assert.Equal(t, KindOpaque, Of(7).Kind())
	assert.Equal(t, KindString, Of(FromString("x")).Kind())
}

func TestRaw_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		want string
	}{
		{`"abc"`, KindString, "abc"},
		{`{"$oid":"6650f0c2"}`, KindWrapped, "6650f0c2"},
		{`12345678901234567890`, KindOpaque, "12345678901234567890"},
		{`{"x":1}`, KindOpaque, `{"x":1}`},
		{`null`, KindEmpty, ""},
		{`""`, KindEmpty, ""},
	}

	for _, tc := range cases {
		var r Raw
		require.NoError(t, json.Unmarshal([]byte(tc.in), &r), tc.in)
		assert.Equal(t, tc.kind, r.Kind(), tc.in)
		assert.Equal(t, tc.want, r.String(), tc.in)
	}
}

func TestRaw_UnmarshalInStruct(t *testing.T) {
	var doc struct {
		ID   Raw    `json:"_id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"_id":{"$oid":"abc"},"name":"Rex"}`), &doc))
	assert.Equal(t, "abc", doc.ID.String())
	assert.Equal(t, "Rex", doc.Name)
}

func TestRaw_MarshalJSON_KeepsShape(t *testing.T) {
	b, err := json.Marshal(Wrapped("abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$oid":"abc"}`, string(b))

	b, err = json.Marshal(FromString("abc"))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(b))

	b, err = json.Marshal(Raw{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}
