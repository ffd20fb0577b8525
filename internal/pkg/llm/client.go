package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"

	appcfg "github.com/trendscope/core/internal/config"
	"github.com/trendscope/core/internal/pkg/sse"
)

const (
	defaultSyncTimeout   = 60 * time.Second
	defaultStreamTimeout = 120 * time.Second
)

// Generate performs a single non-streaming generation with an optional
// system prompt and returns the raw text output.
func Generate(ctx context.Context, provider *appcfg.AIProvider, systemPrompt, prompt string, maxTokens int) (string, error) {
	if provider == nil {
		return "", errors.New("AI provider is nil")
	}
	if isOpenAICompatibleProviderType(provider.Type) {
		messages := make([]Message, 0, 2)
		if strings.TrimSpace(systemPrompt) != "" {
			messages = append(messages, Message{Role: "system", Content: systemPrompt})
		}
		messages = append(messages, Message{Role: "user", Content: prompt})
		return chatCompletions(ctx, provider, messages, maxTokens)
	}

	model, _, err := buildLanguageModel(provider)
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(systemPrompt, prompt),
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

// StreamChat sends the full message history to the provider's streaming
// chat-completions endpoint and invokes onFrame for every decoded frame in
// arrival order. It returns the accumulated assistant text.
//
// Providers without an OpenAI-compatible streaming surface degrade to a
// single synchronous generation surfaced as one synthetic frame.
func StreamChat(ctx context.Context, provider *appcfg.AIProvider, messages []Message, maxTokens int, onFrame func(sse.Frame)) (string, error) {
	if provider == nil {
		return "", errors.New("AI provider is nil")
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errors.New("AI provider api key is empty")
	}

	if isAnthropicProviderType(provider.Type) {
		return streamViaSingleShot(ctx, provider, messages, maxTokens, onFrame)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":      resolveModel(provider, "gpt-4o-mini"),
		"messages":   messages,
		"max_tokens": maxTokens,
		"stream":     true,
	})

	endpoint := normalizeOpenAICompatibleEndpoint(provider.Endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	client := &http.Client{Timeout: defaultStreamTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &TransportError{Status: resp.StatusCode, Message: extractErrorMessage(respBody)}
	}
	if resp.Body == nil {
		return "", &TransportError{Status: resp.StatusCode}
	}

	decoder := sse.NewDecoder()
	var full strings.Builder
	buf := make([]byte, 4096)
	done := false

	emit := func(frames []sse.Frame) {
		for _, frame := range frames {
			if done {
				return
			}
			if frame.Done {
				done = true
			} else if token := DeltaContent(frame); token != "" {
				full.WriteString(token)
			}
			if onFrame != nil {
				onFrame(frame)
			}
		}
	}

	for !done {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			emit(decoder.Feed(buf[:n]))
		}
		if readErr == io.EOF {
			emit(decoder.Flush())
			break
		}
		if readErr != nil {
			return "", &TransportError{Message: readErr.Error()}
		}
	}

	result := full.String()
	if strings.TrimSpace(result) == "" {
		return "", errors.New("empty response from AI")
	}
	return result, nil
}

// DeltaContent extracts the incremental token from a data frame shaped
// {choices:[{delta:{content}}]}. Absent fields yield "".
func DeltaContent(frame sse.Frame) string {
	if frame.Done || len(frame.Data) == 0 {
		return ""
	}
	var event struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(frame.Data, &event); err != nil {
		return ""
	}
	if len(event.Choices) == 0 {
		return ""
	}
	return event.Choices[0].Delta.Content
}

// chatCompletions performs a non-streaming OpenAI-compatible request.
func chatCompletions(ctx context.Context, provider *appcfg.AIProvider, messages []Message, maxTokens int) (string, error) {
	if strings.TrimSpace(provider.APIKey) == "" {
		return "", errors.New("AI provider api key is empty")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":      resolveModel(provider, "gpt-4o-mini"),
		"messages":   messages,
		"max_tokens": maxTokens,
	})

	endpoint := normalizeOpenAICompatibleEndpoint(provider.Endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(provider.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: defaultSyncTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Message: err.Error()}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &TransportError{Status: resp.StatusCode, Message: extractErrorMessage(respBody)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ParseError{Raw: string(respBody), Err: err}
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", &TransportError{Status: resp.StatusCode, Message: result.Error.Message}
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}
	return result.Choices[0].Message.Content, nil
}

func streamViaSingleShot(ctx context.Context, provider *appcfg.AIProvider, messages []Message, maxTokens int, onFrame func(sse.Frame)) (string, error) {
	systemPrompt, prompt := flattenConversation(messages)
	result, err := Generate(ctx, provider, systemPrompt, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	if onFrame != nil && result != "" {
		payload, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"delta": map[string]string{"content": result}},
			},
		})
		onFrame(sse.Frame{Raw: string(payload), Data: payload})
		onFrame(sse.Frame{Done: true})
	}
	return result, nil
}

// flattenConversation folds a message history into one prompt for
// providers that only accept a system + user pair.
func flattenConversation(messages []Message) (systemPrompt, prompt string) {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case "system":
			if systemPrompt == "" {
				systemPrompt = m.Content
			}
		case "assistant":
			b.WriteString("Assistant: " + m.Content + "\n")
		default:
			b.WriteString("User: " + m.Content + "\n")
		}
	}
	return systemPrompt, strings.TrimSpace(b.String())
}

func resolveModel(provider *appcfg.AIProvider, fallback string) string {
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		return fallback
	}
	return model
}

func extractErrorMessage(body []byte) string {
	var payload struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != nil && strings.TrimSpace(payload.Error.Message) != "" {
			return payload.Error.Message
		}
		if strings.TrimSpace(payload.Message) != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func buildPromptMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from AI")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}
