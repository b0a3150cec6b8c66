package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/audit-chat-service/internal/client"
	"github.com/spec-kit/audit-chat-service/internal/config"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

func TestChatBotClient_AskAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/agent/respond", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["message"])

		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "hi there"})
	}))
	defer server.Close()

	c := client.NewChatBotClient(config.ChatBotConfig{RAGAPIURL: server.URL, TimeoutSeconds: 5})

	answer, err := c.AskAgent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", answer["answer"])
}

func TestChatBotClient_AgentErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := client.NewChatBotClient(config.ChatBotConfig{RAGAPIURL: server.URL, TimeoutSeconds: 5})

	_, err := c.AskAgent(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestChatBotClient_DeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "too late"})
	}))
	defer server.Close()

	c := client.NewChatBotClient(config.ChatBotConfig{RAGAPIURL: server.URL, TimeoutSeconds: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.AskAgent(ctx, "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRequestTimeout, apperrors.KindOf(err))
}

func TestChatBotClient_Unreachable(t *testing.T) {
	c := client.NewChatBotClient(config.ChatBotConfig{RAGAPIURL: "http://127.0.0.1:1", TimeoutSeconds: 5})

	_, err := c.AskAgent(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}
