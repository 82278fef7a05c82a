package aisearch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/projgrid/internal/project"
)

func projects() []project.Project {
	return []project.Project{
		{Name: "Uniswap", Description: "Decentralized\n exchange", Tags: []string{"DEX"}, Blockchain: "Ethereum"},
		{Name: "Aave", Description: "Lending"},
		{Name: "Uniswap", Description: "duplicate"},
	}
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_Disabled(t *testing.T) {
	for _, p := range []string{"", ProviderNone} {
		s, err := New(context.Background(), Options{Provider: p})
		require.NoError(t, err)
		assert.Nil(t, s)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "openai"})
	assert.ErrorContains(t, err, `unknown ai provider "openai"`)
}

func TestNew_HTTPRequiresEndpoint(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: ProviderHTTP})
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestNew_GenAIRequiresKey(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: ProviderGenAI})
	assert.ErrorContains(t, err, "API key is required")
}

func TestNew_HTTP(t *testing.T) {
	s, err := New(context.Background(), Options{Provider: ProviderHTTP, Endpoint: "http://localhost:1"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPSearcher{}, s)
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	s := Resolve("best dex?", projects(), &Result{Description: "Try Uniswap.", ItemName: "Uniswap"})
	require.NotNil(t, s)
	require.NotNil(t, s.Project)

	assert.Equal(t, "best dex?", s.Query)
	assert.Equal(t, "Try Uniswap.", s.Description)
	assert.Equal(t, "Decentralized\n exchange", s.Project.Description, "first match wins")
}

func TestResolve_UnknownItemKeepsDescription(t *testing.T) {
	s := Resolve("q", projects(), &Result{Description: "Nothing in the directory fits.", ItemName: "Compound"})
	require.NotNil(t, s)
	assert.Nil(t, s.Project)
	assert.Equal(t, "Nothing in the directory fits.", s.Description)
}

func TestResolve_CaseSensitive(t *testing.T) {
	s := Resolve("q", projects(), &Result{ItemName: "aave"})
	require.NotNil(t, s)
	assert.Nil(t, s.Project)
}

func TestResolve_Nothing(t *testing.T) {
	assert.Nil(t, Resolve("q", projects(), nil))
	assert.Nil(t, Resolve("q", projects(), &Result{Description: "  "}))
}

func TestSearcherFunc(t *testing.T) {
	var s Searcher = SearcherFunc(func(_ context.Context, q string) (*Result, error) {
		return &Result{ItemName: q}, nil
	})

	r, err := s.Search(context.Background(), "Aave")
	require.NoError(t, err)
	assert.Equal(t, "Aave", r.ItemName)
}

// ---------------------------------------------------------------------------
// HTTPSearcher
// ---------------------------------------------------------------------------

func TestHTTPSearcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "projgrid/")

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch body["query"] {
		case "nothing":
			w.WriteHeader(http.StatusNoContent)
		case "empty":
			_, _ = io.WriteString(w, "")
		case "broken":
			_, _ = io.WriteString(w, "{")
		case "fail":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = io.WriteString(w, `{"description":"A DEX.","itemName":"Uniswap"}`)
		}
	}))
	defer srv.Close()

	s, err := NewHTTPSearcher(srv.URL, srv.Client())
	require.NoError(t, err)

	r, err := s.Search(context.Background(), "dex")
	require.NoError(t, err)
	assert.Equal(t, &Result{Description: "A DEX.", ItemName: "Uniswap"}, r)

	for _, q := range []string{"nothing", "empty"} {
		r, err = s.Search(context.Background(), q)
		require.NoError(t, err, q)
		assert.Nil(t, r, q)
	}

	_, err = s.Search(context.Background(), "broken")
	assert.ErrorContains(t, err, "decoding search response")

	_, err = s.Search(context.Background(), "fail")
	assert.ErrorContains(t, err, "unexpected status 502")
}

func TestHTTPSearcher_Cancelled(t *testing.T) {
	s, err := NewHTTPSearcher("http://127.0.0.1:1", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Search(ctx, "q")
	require.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// GenAISearcher
// ---------------------------------------------------------------------------

func TestGenAISearcher(t *testing.T) {
	var gotModel, gotPrompt string

	s := newGenAISearcher("", projects(), func(_ context.Context, model, prompt string) (string, error) {
		gotModel, gotPrompt = model, prompt
		return "```json\n{\"description\": \"Swap tokens.\", \"itemName\": \"Uniswap\"}\n```", nil
	})

	r, err := s.Search(context.Background(), "  where do I swap?  ")
	require.NoError(t, err)
	assert.Equal(t, &Result{Description: "Swap tokens.", ItemName: "Uniswap"}, r)

	assert.Equal(t, DefaultModel, gotModel)
	assert.Equal(t, "genai:"+DefaultModel, s.Name())
	assert.Contains(t, gotPrompt, "- Uniswap: Decentralized exchange [DEX] (Ethereum)\n")
	assert.Contains(t, gotPrompt, "- Aave: Lending\n")
	assert.Contains(t, gotPrompt, "Question: where do I swap?\n")
}

func TestGenAISearcher_EmptyQuery(t *testing.T) {
	called := false
	s := newGenAISearcher("m", nil, func(context.Context, string, string) (string, error) {
		called = true
		return "", nil
	})

	r, err := s.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, called)
}

func TestGenAISearcher_NoMatch(t *testing.T) {
	s := newGenAISearcher("m", nil, func(context.Context, string, string) (string, error) {
		return `{"description": "", "itemName": ""}`, nil
	})

	r, err := s.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestGenAISearcher_Error(t *testing.T) {
	s := newGenAISearcher("m", nil, func(context.Context, string, string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	_, err := s.Search(context.Background(), "q")
	assert.ErrorContains(t, err, "GenAI search failed: quota exceeded")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(` {"a":1} `))
}
