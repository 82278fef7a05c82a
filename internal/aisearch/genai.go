package aisearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hupe1980/projgrid/internal/project"
)

const systemPrompt = `You help users find projects in a directory of DeFi and crypto projects.
Answer with a single JSON object {"description": string, "itemName": string}.
"description" briefly answers the question. "itemName" is the exact name of the
single best matching project from the directory, or "" when none fits.`

// generateFunc sends a prompt to a model and returns the response text.
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// GenAISearcher answers queries with a Gemini model that is given the
// project directory as context.
type GenAISearcher struct {
	model    string
	catalog  string
	generate generateFunc
}

// NewGenAISearcher creates a Gemini-backed searcher over projects.
func NewGenAISearcher(ctx context.Context, apiKey, model string, projects []project.Project) (*GenAISearcher, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required (set ai-api-key or PROJGRID_AI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	generate := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
		if err != nil {
			return "", err
		}

		return resp.Text(), nil
	}

	return newGenAISearcher(model, projects, generate), nil
}

func newGenAISearcher(model string, projects []project.Project, generate generateFunc) *GenAISearcher {
	if model == "" {
		model = DefaultModel
	}

	return &GenAISearcher{
		model:    model,
		catalog:  catalogPrompt(projects),
		generate: generate,
	}
}

// Search implements Searcher.
func (s *GenAISearcher) Search(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	prompt := s.catalog + "\nQuestion: " + query + "\n"

	text, err := s.generate(ctx, s.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("GenAI search failed: %w", err)
	}

	return decodeResult([]byte(stripCodeFence(text)))
}

// Name returns the provider and model.
func (s *GenAISearcher) Name() string {
	return fmt.Sprintf("genai:%s", s.model)
}

// catalogPrompt lists the directory one project per line.
func catalogPrompt(projects []project.Project) string {
	var b strings.Builder

	b.WriteString("Directory:\n")

	for _, p := range projects {
		fmt.Fprintf(&b, "- %s: %s", p.Name, strings.Join(strings.Fields(p.Description), " "))

		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(p.Tags, ", "))
		}

		if p.Blockchain != "" {
			fmt.Fprintf(&b, " (%s)", p.Blockchain)
		}

		b.WriteString("\n")
	}

	return b.String()
}

// stripCodeFence removes a ```json fence some models wrap JSON answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
