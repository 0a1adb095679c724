package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/scrapekit/pkg/errkind"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		verb    string
		want    Method
		wantErr bool
	}{
		{verb: "GET", want: MethodGet},
		{verb: "post", want: MethodPost},
		{verb: " Put ", want: MethodPut},
		{verb: "DELETE", want: MethodDelete},
		{verb: "head", want: MethodHead},
		{verb: "PATCH", wantErr: true},
		{verb: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			got, err := ParseMethod(tt.verb)
			if tt.wantErr {
				assert.ErrorIs(t, err, errkind.ErrUnsupportedMethod)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFetchJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"name": "ada"})
	}))
	defer server.Close()

	f := New(Config{
		BaseURL: server.URL,
		Headers: map[string]string{"Authorization": "token"},
	})

	var out struct {
		Name string `json:"name"`
	}
	err := f.FetchJSON(context.Background(), "/users", RequestOptions{
		Params: map[string]string{"id": "42"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ada", out.Name)
}

func TestFetchJSONPostBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "hello", in["msg"])
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	var out struct {
		OK bool `json:"ok"`
	}
	err := f.FetchJSON(context.Background(), "/echo", RequestOptions{
		Method: MethodPost,
		Body:   map[string]string{"msg": "hello"},
	}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestFetchJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	err := f.FetchJSON(context.Background(), "/missing", RequestOptions{}, nil)
	assert.ErrorIs(t, err, errkind.ErrTransport)
}

func TestFetchJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"broken":`)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	var out map[string]interface{}
	err := f.FetchJSON(context.Background(), "/bad", RequestOptions{}, &out)
	assert.ErrorIs(t, err, errkind.ErrFormat)
}

func TestFetchJSONUnknownMethod(t *testing.T) {
	f := New(Config{BaseURL: "http://localhost"})
	err := f.FetchJSON(context.Background(), "/x", RequestOptions{Method: Method(99)}, nil)
	assert.ErrorIs(t, err, errkind.ErrUnsupportedMethod)
}

func TestFetchHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("X-Total-Count", "120")
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	headers, err := f.FetchHeaders(context.Background(), "/items", nil)
	require.NoError(t, err)
	assert.Equal(t, "120", headers.Get("X-Total-Count"))
}

func TestFetchStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	status, err := f.FetchStatus(context.Background(), "/items", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
}
