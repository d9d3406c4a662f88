package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"counselfinder/internal/config"
	apierrors "counselfinder/internal/errors"
	"counselfinder/internal/extract"
)

// promptWindowChars bounds how much filing text goes into the prompt.
const promptWindowChars = 15000

var jsonFenceRe = regexp.MustCompile("```json\\s*|\\s*```")

// chatCompleter is the slice of the OpenAI client the extractor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor pulls law firms and lawyers out of filing text with an LLM,
// complementing the structural regex patterns. Responses pass through the
// same validators as regex matches so a hallucinated title or company
// name never reaches a result row.
type Extractor struct {
	client     chatCompleter
	model      string
	maxRetries int
	logger     *slog.Logger
}

// NewExtractor builds an Extractor. Without an API key the extractor is
// disabled and Extract returns ErrExtractionDisabled.
func NewExtractor(cfg config.OpenAIConfig, logger *slog.Logger) *Extractor {
	e := &Extractor{
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}
		e.client = openai.NewClientWithConfig(clientCfg)
	}
	return e
}

// Enabled reports whether an API key was configured.
func (e *Extractor) Enabled() bool {
	return e.client != nil
}

// Extract asks the model for external counsel named in the filing text.
func (e *Extractor) Extract(ctx context.Context, text, companyName string) (extract.FirmLawyers, error) {
	if e.client == nil {
		return nil, apierrors.ErrExtractionDisabled
	}

	if len(text) > promptWindowChars {
		text = text[:promptWindowChars]
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text, companyName)},
		},
		Temperature: 0,
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := e.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			e.logger.WarnContext(ctx, "llm completion failed",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("completion returned no choices")
			continue
		}

		parsed, err := parseResponse(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			continue
		}
		return e.filter(parsed, text, companyName), nil
	}

	return nil, fmt.Errorf("llm extraction failed after %d attempts: %w", e.maxRetries+1, lastErr)
}

// parseResponse strips markdown fences the model sometimes wraps around
// its JSON and decodes the firm-to-lawyers object.
func parseResponse(content string) (map[string][]string, error) {
	content = strings.TrimSpace(jsonFenceRe.ReplaceAllString(content, ""))

	var parsed map[string][]string
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("completion is not valid JSON: %w", err)
	}
	return parsed, nil
}

// filter revalidates every firm and lawyer the model returned. Lawyers
// that appear in the source text get an in-house check against the
// surrounding context.
func (e *Extractor) filter(parsed map[string][]string, text, companyName string) extract.FirmLawyers {
	results := make(extract.FirmLawyers)

	for firm, lawyers := range parsed {
		switch strings.ToLower(firm) {
		case "firm a", "firm b", "example firm":
			continue
		}

		cleaned := extract.CleanFirmName(firm)
		if cleaned == "" || !extract.IsValidFirmName(cleaned, companyName) {
			continue
		}
		normalizedFirm := extract.NormalizeFirmName(cleaned)

		for _, lawyer := range lawyers {
			lawyer = strings.TrimSpace(lawyer)
			if lawyer == "" || !extract.IsValidPersonName(lawyer, companyName) {
				continue
			}

			if idx := strings.Index(text, lawyer); idx != -1 {
				end := idx + 200
				if end > len(text) {
					end = len(text)
				}
				if extract.IsInternalEmployee(lawyer, text[idx:end]) {
					continue
				}
			}

			results.Add(normalizedFirm, extract.NormalizeLawyerName(lawyer))
		}
	}

	return results
}

func buildPrompt(text, companyName string) string {
	return fmt.Sprintf(`Extract ONLY EXTERNAL law firm names and EXTERNAL lawyers from this SEC filing for %[1]s.

CRITICAL RULES:
1. ONLY extract PEOPLE'S NAMES - first and last names like "John Smith" or "Jane K. Doe"
2. DO NOT extract:
   - Titles like "Legal Officer", "General Counsel", "Chief Legal Officer"
   - Company names like "%[1]s" or "Corporation"
   - Generic terms like "Attorney", "Counsel", "Lawyer"
   - Phrases like "The Company", "The Registrant"
3. Find law firms ending in LLP, LLC, or P.C.
4. EXCLUDE: Accounting firms (Deloitte, PwC, KPMG, EY)
5. EXCLUDE: Investment banks (Goldman Sachs, Cantor Fitzgerald, etc.)
6. ONLY include lawyers who work AT the law firm, NOT company employees

WHAT A VALID NAME LOOKS LIKE:
- "John Smith" - first + last name
- "Jane K. Doe" - first + middle initial + last name
- "Robert Johnson III" - first + last + suffix

WHAT IS NOT A VALID NAME:
- "Legal Officer" - this is a TITLE
- "%[1]s" - this is a COMPANY NAME
- "Chief Legal Officer" - this is a TITLE
- "General Counsel" - this is a TITLE
- "Corporate Secretary" - this is a TITLE

PATTERNS TO LOOK FOR:
"Carlos Ramirez and Nicholaus Johnson of Cooley LLP"
-> {"Cooley LLP": ["Carlos Ramirez", "Nicholaus Johnson"]}

"First Name Last Name
Law Firm Name LLP"
-> {"Law Firm Name LLP": ["First Name Last Name"]}

Text:
%[2]s

Return JSON with law firms and ONLY PERSON NAMES (not titles, not company names):
{"Cooley LLP": ["John Smith", "Jane Doe"]}`, companyName, text)
}
