package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/events"
)

// AgentClient asks the chat agent a question.
type AgentClient interface {
	AskAgent(ctx context.Context, message string) (map[string]string, error)
}

// ChatService proxies questions to the chat agent, caching answers in redis
// and auditing every question asked.
type ChatService struct {
	agent      AgentClient
	cache      *redis.Client
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewChatService builds the service. The cache client may be nil, in which
// case every question goes to the agent.
func NewChatService(agent AgentClient, cache *redis.Client, cacheTTL time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *ChatService {
	return &ChatService{
		agent:      agent,
		cache:      cache,
		cacheTTL:   cacheTTL,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Ask answers a user's question, serving repeated questions from the cache.
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, message string) (map[string]string, error) {
	key := answerKey(message)

	if answer, ok := s.cachedAnswer(ctx, key); ok {
		s.audit(ctx, userID, "cache")
		return answer, nil
	}

	answer, err := s.agent.AskAgent(ctx, message)
	if err != nil {
		return nil, err
	}

	s.storeAnswer(ctx, key, answer)
	s.audit(ctx, userID, "agent")
	return answer, nil
}

func (s *ChatService) cachedAnswer(ctx context.Context, key string) (map[string]string, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var answer map[string]string
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, false
	}
	return answer, true
}

func (s *ChatService) storeAnswer(ctx context.Context, key string, answer map[string]string) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("failed to cache chat answer", zap.Error(err))
	}
}

func (s *ChatService) audit(ctx context.Context, userID uuid.UUID, source string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventChatQuestion, userID, map[string]string{"source": source}))
}

func answerKey(message string) string {
	digest := sha256.Sum256([]byte(message))
	return "chatbot:answer:" + hex.EncodeToString(digest[:])
}
