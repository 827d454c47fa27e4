// Package llm calls the Groq chat-completions API to propose a structured
// field extraction from raw OCR text. The proposal is untrusted input for
// the validation engine, never a verdict by itself.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MedbouZZ004/Smart-Assurance-ValidatorX/pkg/validator"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
	maxPromptText  = 3000
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// New builds a client. A missing API key is a construction-time error: the
// service must refuse to start rather than degrade every request later.
func New(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("llm: GROQ_API_KEY is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	if v := os.Getenv("GROQ_BASE_URL"); v != "" {
		c.baseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		c.model = v
	}
	return c, nil
}

// FromEnv builds a client from GROQ_API_KEY.
func FromEnv() (*Client, error) {
	return New(os.Getenv("GROQ_API_KEY"))
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat respFormat    `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Propose asks the model for a proposed-result JSON object for one
// document. Any transport or shape failure is returned as an error; the
// caller is responsible for converting it into a REVIEW result, not for
// surfacing it as a fault.
func (c *Client) Propose(ctx context.Context, rawText string, docType validator.DocType, tech validator.TechReport) ([]byte, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(rawText, docType, tech)},
		},
		ResponseFormat: respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("llm: empty completion")
	}
	content := cr.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("llm: completion is not valid JSON")
	}
	return []byte(content), nil
}

// buildPrompt keeps the request compact: truncated OCR text, the expected
// field keys for the declared type, and the tech report as context.
func buildPrompt(rawText string, docType validator.DocType, tech validator.TechReport) string {
	if len(rawText) > maxPromptText {
		rawText = rawText[:maxPromptText]
	}
	keys := validator.FieldKeys(docType)
	var b strings.Builder
	b.WriteString("Audit this Moroccan insurance claim document.\n")
	fmt.Fprintf(&b, "DOC_TYPE: %s\n", docType)
	fmt.Fprintf(&b, "TECH_REPORT: editor=%q font_count=%d tampering=%t\n", tech.EditorDetected, tech.FontCount, tech.PotentialTampering)
	fmt.Fprintf(&b, "TEXT: %s\n\n", rawText)
	b.WriteString("Return a single JSON object: {\"decision\": \"ACCEPT|REVIEW\", \"score\": int, ")
	b.WriteString("\"doc_type\": str, \"country\": str, \"fraud_suspected\": bool, \"fraud_signals\": [str], ")
	fmt.Fprintf(&b, "\"extracted_data\": {string values only, keys among %s}, \"reason\": str}.\n", strings.Join(keys, ", "))
	b.WriteString("Leave a field blank rather than guessing; never swap insured and beneficiary.")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
