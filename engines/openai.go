package engines

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-3.5-turbo"
)

// GPTConfig is read once by NewGPTEngine. Zero fields fall back to
// DefaultEndpoint, DefaultModel and http.DefaultClient. Timeouts belong
// on HTTPClient.
type GPTConfig struct {
	APIToken   string
	Endpoint   string
	Model      string
	HTTPClient *http.Client
}

type GPT struct {
	config GPTConfig
}

type ChatCompletionRequest struct {
	Model       string         `json:"model"`
	Messages    []*ChatMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
}

// ChatCompletionResponse keeps content as a pointer so that a missing or
// null content field is not mistaken for an empty reply.
type ChatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Role    ConvRole `json:"role"`
			Content *string  `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (gpt *GPT) Model() string {
	return gpt.config.Model
}

func (gpt *GPT) Endpoint() string {
	return gpt.config.Endpoint
}

func (gpt *GPT) Chat(prompt *ChatPrompt) (*ChatMessage, error) {
	bodyJSON, err := json.Marshal(ChatCompletionRequest{
		Model:       gpt.config.Model,
		Messages:    prompt.History,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequest(
		http.MethodPost,
		gpt.config.Endpoint,
		bytes.NewBuffer(bodyJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+gpt.config.APIToken)
	req.Header.Add("Content-Type", "application/json")
	log.Debugf("sending chat completion request to %s (model %s, %d messages)", gpt.config.Endpoint, gpt.config.Model, len(prompt.History))
	res, err := gpt.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, bytes.TrimSpace(body))
	}
	return gpt.parseResponseBody(res.Body)
}

func (gpt *GPT) parseResponseBody(body io.Reader) (*ChatMessage, error) {
	var buf bytes.Buffer
	tee := io.TeeReader(body, &buf)
	var response ChatCompletionResponse
	err := json.NewDecoder(tee).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response: %s", buf.String())
	}
	message := response.Choices[0].Message
	if message == nil {
		return nil, fmt.Errorf("first choice has no message: %s", buf.String())
	}
	if message.Content == nil {
		return nil, fmt.Errorf("first choice has no content: %s", buf.String())
	}
	return &ChatMessage{
		Role: message.Role,
		Text: *message.Content,
	}, nil
}

func NewGPTEngine(config GPTConfig) *GPT {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &GPT{
		config: config,
	}
}
