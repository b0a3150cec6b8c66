package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spec-kit/audit-chat-service/internal/config"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// ChatBotClient calls the RAG agent backing the chat endpoints.
type ChatBotClient struct {
	baseURL string
	http    *http.Client
}

// NewChatBotClient builds a client with the configured deadline.
func NewChatBotClient(cfg config.ChatBotConfig) *ChatBotClient {
	return &ChatBotClient{
		baseURL: cfg.RAGAPIURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

// AskAgent forwards the question to the agent and returns its answer map.
func (c *ChatBotClient) AskAgent(ctx context.Context, message string) (map[string]string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, apperrors.NewInternalError("Internal error occurred while encoding chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/agent/respond", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("Internal error occurred while building chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewRequestTimeout("Chat agent did not respond in time")
		}
		return nil, apperrors.NewInternalError("Chat agent unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewInternalError(
			fmt.Sprintf("Chat agent returned status %d", resp.StatusCode), nil)
	}

	var answer map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, apperrors.NewInternalError("Internal error occurred while decoding chat response", err)
	}
	return answer, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
