// Package assistant answers questions about processed deal submission data
// through an OpenAI chat completion grounded in a compact dataset digest.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// promptColumnLimit caps how many column names the digest lists.
	promptColumnLimit = 10
	// promptRowLimit caps how many sample rows the digest embeds.
	promptRowLimit = 5
)

// Assistant wraps the chat completion client with the dataset-digest prompt.
type Assistant struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
	logger      logging.Logger
}

// New builds an assistant. The API key comes from configuration; model,
// temperature and token budget are tunable there too.
func New(apiKey, model string, temperature float64, maxTokens int, logger logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Assistant{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
		logger:      logger,
	}
}

// Ask answers one question about the standardized data for a company.
func (a *Assistant) Ask(ctx context.Context, company, question string, rows []models.OutputRow, headers []string) (string, error) {
	system, err := dataDigest(company, rows, headers)
	if err != nil {
		return "", err
	}

	a.logger.Info("Sending chat completion request",
		logging.Field{Key: logging.FieldCompany, Value: company},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
		Model:       openai.ChatModel(a.model),
		Temperature: openai.Float(a.temperature),
		MaxTokens:   openai.Int(a.maxTokens),
	})
	if err != nil {
		a.logger.WithError(err).Error("Chat completion request failed")
		return "", fmt.Errorf("error in chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// dataDigest builds the system prompt: row count, leading column names and a
// small sample of rows, enough context to answer questions without shipping
// the whole dataset.
func dataDigest(company string, rows []models.OutputRow, headers []string) (string, error) {
	columns := headers
	ellipsis := ""
	if len(columns) > promptColumnLimit {
		columns = columns[:promptColumnLimit]
		ellipsis = "..."
	}

	sample := rows
	if len(sample) > promptRowLimit {
		sample = sample[:promptRowLimit]
	}
	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		return "", fmt.Errorf("error encoding sample rows: %w", err)
	}

	return fmt.Sprintf(`You are analyzing standardized deal submission data for %s.

Dataset Overview:
- Total rows: %d
- Columns: %s%s

Sample data (first %d rows):
%s

Please answer questions about this data accurately and concisely.`,
		company, len(rows), strings.Join(columns, ", "), ellipsis, promptRowLimit, sampleJSON), nil
}
