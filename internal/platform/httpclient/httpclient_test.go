package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_DecodesAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	require.NoError(t, err)
	c.Headers = map[string]string{"Authorization": "Bearer tok"}

	var out map[string]string
	err = c.DoJSON(context.Background(), http.MethodPost, "pets", nil, map[string]string{"name": "Rex"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Rex", out["echo"])
}

func TestDoJSON_Non2xxCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"name is required"}`))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodPost, "/pets", nil, map[string]string{}, nil)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.StatusCode)
	assert.Equal(t, "name is required", he.Message)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.False(t, IsTransport(err))
}

func TestDoJSON_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := NewWithBaseURL(base, time.Second)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusOf(err))
}

func TestNewWithBaseURL_Rejects(t *testing.T) {
	_, err := NewWithBaseURL("ftp://example.com", time.Second)
	assert.Error(t, err)

	_, err = NewWithBaseURL("not a url", time.Second)
	assert.Error(t, err)

	c, err := NewWithBaseURL("", time.Second)
	require.NoError(t, err)
	err = c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, nil, nil)
	assert.ErrorContains(t, err, "relative path requires BaseURL")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNewWithTransport_UsesGivenTransport(t *testing.T) {
	var seen string
	c := NewWithTransport(0, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"ok":"yes"}`)),
			Header:     make(http.Header),
		}, nil
	}))
	require.NoError(t, c.SetBaseURL("http://pets.local/"))
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	var out map[string]string
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, nil, &out))
	assert.Equal(t, "http://pets.local/pets", seen)
	assert.Equal(t, "yes", out["ok"])
}
