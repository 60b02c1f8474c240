package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// maxExcerptChars bounds how much document text goes into a prompt.
	maxExcerptChars = 4000

	titleSystemPrompt = `You choose the best title for a scanned document.
You are given a text excerpt and a numbered list of candidate titles.
Reply with the single best candidate, verbatim, and nothing else.
If none of the candidates fits, reply with a short title of at most six words.`

	enrichSystemPrompt = `You label documents for a personal archive.
Given a document title and text excerpt, reply with a JSON object:
{"category": "...", "keywords_resume": "...", "tags": ["...", "..."]}
category is one or two words, keywords_resume is one sentence, tags has
at most five short lowercase entries. Reply with JSON only.`
)

// OpenAIAssistant implements TitleSuggester and MetadataEnricher
// against any OpenAI-compatible chat endpoint, including local model
// servers.
type OpenAIAssistant struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIAssistant creates an assistant for the given endpoint.
// baseURL may point at a local server; apiKey may be a dummy value for
// servers that do not check it.
func NewOpenAIAssistant(baseURL, apiKey, model string, logger *slog.Logger) *OpenAIAssistant {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(opts...)

	return &OpenAIAssistant{client: &client, model: model, logger: logger}
}

// SuggestTitle asks the model to pick among the heuristic candidates.
func (a *OpenAIAssistant) SuggestTitle(ctx context.Context, excerpt string, candidates []string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Candidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, c)
	}
	prompt.WriteString("\nExcerpt:\n")
	prompt.WriteString(clip(excerpt, maxExcerptChars))

	reply, err := a.complete(ctx, titleSystemPrompt, prompt.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Enrich asks the model for category, keyword resume and tags.
func (a *OpenAIAssistant) Enrich(ctx context.Context, title, excerpt string) (*Enrichment, error) {
	prompt := fmt.Sprintf("Title: %s\n\nExcerpt:\n%s", title, clip(excerpt, maxExcerptChars))

	reply, err := a.complete(ctx, enrichSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var enrichment Enrichment
	if err := json.Unmarshal([]byte(stripFences(reply)), &enrichment); err != nil {
		return nil, fmt.Errorf("parse enrichment response: %w", err)
	}
	return &enrichment, nil
}

func (a *OpenAIAssistant) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: a.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
