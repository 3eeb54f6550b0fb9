package petstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Token: "tok"})
	require.NoError(t, err)
	return c
}

func TestList_NormalizesHeterogeneousIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"_id": "a1", "name": "Rex", "breed": "labrador", "age": 4, "url": "https://x/rex.jpg"},
			{"_id": {"$oid": "b2"}, "name": "Mimi", "breed": "siamese", "age": "2"},
			{"id": 77, "name": "Fido", "breed": "beagle", "age": null}
		]`)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "a1", got[0].ID)
	require.NotNil(t, got[0].Age)
	assert.Equal(t, 4, *got[0].Age)
	assert.Equal(t, "https://x/rex.jpg", got[0].PictureURL)

	assert.Equal(t, "b2", got[1].ID)
	require.NotNil(t, got[1].Age)
	assert.Equal(t, 2, *got[1].Age)

	assert.Equal(t, "77", got[2].ID)
	assert.Nil(t, got[2].Age)
}

func TestList_AgeOutsideRangeBecomesNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id": "neg", "age": -4},
			{"_id": "huge", "age": 1e30},
			{"_id": "over", "age": 2147483648},
			{"_id": "frac", "age": "2.9"},
			{"_id": "nan", "age": "NaN"},
			{"_id": "inf", "age": "+Inf"},
			{"_id": "word", "age": "old"},
			{"_id": "whole", "age": 3.0},
			{"_id": "max", "age": 2147483647}
		]`)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 9)

	for _, p := range got[:7] {
		assert.Nil(t, p.Age, "age of %s should be dropped", p.ID)
	}
	require.NotNil(t, got[7].Age)
	assert.Equal(t, 3, *got[7].Age)
	require.NotNil(t, got[8].Age)
	assert.Equal(t, 2147483647, *got[8].Age)
}

func TestCreate_SendsWireFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Fido", in["name"])
		assert.Equal(t, "beagle", in["breed"])
		assert.EqualValues(t, 1, in["age"])
		assert.NotContains(t, in, "url")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id": {"$oid": "srv-1"}, "name": "Fido", "breed": "beagle", "age": 1}`)
	})

	age := 1
	p, err := c.Create(context.Background(), Fields{Name: "Fido", Breed: "beagle", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", p.ID)
}

func TestDelete_DeletedCountVariants(t *testing.T) {
	bodies := map[string]string{
		"/pets/one":     `{"deletedCount": 1}`,
		"/pets/zero":    `{"deletedCount": 0}`,
		"/pets/missing": `{"acknowledged": true}`,
		"/pets/empty":   ``,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = io.WriteString(w, bodies[r.URL.Path])
	})

	ctx := context.Background()

	res, err := c.Delete(ctx, "one")
	require.NoError(t, err)
	assert.True(t, res.Confirmed())

	res, err = c.Delete(ctx, "zero")
	require.NoError(t, err)
	assert.False(t, res.Confirmed())
	checkErr := res.Check()
	require.Error(t, checkErr)
	f, ok := AsFailure(checkErr)
	require.True(t, ok)
	assert.Equal(t, KindReconciliation, f.Kind)
	assert.Equal(t, MsgNotDeleted, FriendlyMessage(checkErr))

	res, err = c.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, res.DeletedCount)
	assert.True(t, res.Confirmed())

	res, err = c.Delete(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, res.Confirmed())
}

func TestErrors_FriendlyMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pets/with-message":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message": "breed is required"}`)
		case "/pets/bad-json":
			_, _ = io.WriteString(w, `{not json`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	_, err := c.Update(ctx, "with-message", Fields{Name: "x"})
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, f.Kind)
	assert.Equal(t, http.StatusBadRequest, f.Status)
	assert.Equal(t, "breed is required", FriendlyMessage(err))

	_, err = c.Get(ctx, "no-message")
	assert.Equal(t, MsgUnexpected, FriendlyMessage(err))

	_, err = c.Get(ctx, "bad-json")
	f, ok = AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, f.Kind)
	assert.Equal(t, 0, f.Status)
}

func TestErrors_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: base})
	require.NoError(t, err)

	_, err = c.List(context.Background())
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, f.Kind)
	assert.Equal(t, MsgNetwork, FriendlyMessage(err))
}

func TestUpdate_EscapesIDAndKeepsIt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pets/tmp%2F1", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{}`)
	})

	p, err := c.Update(context.Background(), "tmp/1", Fields{Name: "a", Breed: "b"})
	require.NoError(t, err)
	assert.Equal(t, "tmp/1", p.ID)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNew_RoutesThroughTransport(t *testing.T) {
	calls := 0
	c, err := New(Options{
		BaseURL: "http://pets.local",
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			assert.Equal(t, "/pets", r.URL.Path)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`[{"_id": "a1", "name": "Rex"}]`)),
				Header:     make(http.Header),
			}, nil
		}),
	})
	require.NoError(t, err)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}
