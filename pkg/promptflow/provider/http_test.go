package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

type recordedCall struct {
	path string
	body map[string]any
}

// endpointServer answers every POST with the given response body and records
// what it received.
func endpointServer(t *testing.T, status int, response any) (*provider.HTTPClient, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, recordedCall{path: r.URL.Path, body: body})

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(ts.Close)

	return provider.NewHTTPClient(ts.URL + "/api"), &calls
}

// TestHTTPClient_EndpointMapping tests that each method hits its path and
// extracts its result field.
func TestHTTPClient_EndpointMapping(t *testing.T) {
	type call func(*provider.HTTPClient, context.Context, provider.Request) (string, error)

	tests := []struct {
		name        string
		invoke      call
		path        string
		resultField string
	}{
		{"enhance", (*provider.HTTPClient).Enhance, "/api/enhance", "enhanced"},
		{"translate", (*provider.HTTPClient).Translate, "/api/translate", "translation"},
		{"describe", (*provider.HTTPClient).DescribeImage, "/api/describe", "description"},
		{"grammar-fix", (*provider.HTTPClient).FixGrammar, "/api/grammar-fix", "fixed"},
		{"storyteller", (*provider.HTTPClient).GenerateStory, "/api/storyteller", "story"},
		{"compress", (*provider.HTTPClient).Compress, "/api/compress", "compressed"},
		{"inject-persona", (*provider.HTTPClient).InjectPersonas, "/api/inject-persona", "injected"},
		{"replace", (*provider.HTTPClient).ReplacePersonas, "/api/replace", "replaced"},
		{"generate-image", (*provider.HTTPClient).GenerateImage, "/api/generate-image", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := endpointServer(t, http.StatusOK,
				map[string]string{tt.resultField: "result-value"})

			got, err := tt.invoke(client, context.Background(), provider.Request{
				Text:       "input",
				ProviderID: "openai",
			})

			require.NoError(t, err)
			assert.Equal(t, "result-value", got)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.path, (*calls)[0].path)
			assert.Equal(t, "input", (*calls)[0].body["text"])
			assert.Equal(t, "openai", (*calls)[0].body["provider_id"])
		})
	}
}

// TestHTTPClient_RequestPayload tests the full request wire shape.
func TestHTTPClient_RequestPayload(t *testing.T) {
	client, calls := endpointServer(t, http.StatusOK, map[string]string{"injected": "out"})

	_, err := client.InjectPersonas(context.Background(), provider.Request{
		PromptText: "a scene",
		Personas: []provider.Persona{
			{Name: "Ada", Description: "an engineer"},
		},
		ProviderID: "openai",
		Model:      "gpt-4o",
		MaxTokens:  500,
	})
	require.NoError(t, err)

	body := (*calls)[0].body
	assert.Equal(t, "a scene", body["prompt_text"])
	assert.Equal(t, "gpt-4o", body["model"])
	assert.Equal(t, float64(500), body["max_tokens"])

	personas, ok := body["personas"].([]any)
	require.True(t, ok)
	require.Len(t, personas, 1)
	persona := personas[0].(map[string]any)
	assert.Equal(t, "Ada", persona["name"])
	assert.Equal(t, "an engineer", persona["description"])
}

// TestHTTPClient_ErrorBody tests that an error field wins over the payload.
func TestHTTPClient_ErrorBody(t *testing.T) {
	client, _ := endpointServer(t, http.StatusOK,
		map[string]string{"error": "model overloaded", "enhanced": "ignored"})

	_, err := client.Enhance(context.Background(), provider.Request{Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
	assert.Contains(t, err.Error(), "/enhance")
}

// TestHTTPClient_HTTPErrorStatus tests non-2xx handling without an error body.
func TestHTTPClient_HTTPErrorStatus(t *testing.T) {
	client, _ := endpointServer(t, http.StatusBadGateway, map[string]string{})

	_, err := client.Translate(context.Background(), provider.Request{Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

// TestHTTPClient_MissingResultField tests a well-formed but wrong response.
func TestHTTPClient_MissingResultField(t *testing.T) {
	client, _ := endpointServer(t, http.StatusOK, map[string]string{"unexpected": "x"})

	_, err := client.Compress(context.Background(), provider.Request{Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "compressed"`)
}

// TestHTTPClient_ContextCancelled tests that a cancelled context aborts the call.
func TestHTTPClient_ContextCancelled(t *testing.T) {
	client, _ := endpointServer(t, http.StatusOK, map[string]string{"enhanced": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Enhance(ctx, provider.Request{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
