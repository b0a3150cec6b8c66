package worker_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/events"
	"github.com/spec-kit/audit-chat-service/internal/worker"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

type recordingAuditRepo struct {
	inserted []events.Event
	err      error
}

func (r *recordingAuditRepo) Insert(_ context.Context, event events.Event) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func TestAuditWorker_PersistsPublishedEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	repo := &recordingAuditRepo{}
	worker.StartAuditWorker(dispatcher, repo, zap.NewNop())

	subject := uuid.New()
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventUserLogin, subject, nil)))
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventChatQuestion, subject, map[string]string{"source": "agent"})))
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventAuthRejected, uuid.Nil, map[string]string{
			"path":    "/api/v1/chat-bot/ask/agent",
			"outcome": "no_credential",
		})))

	require.Len(t, repo.inserted, 3)
	assert.Equal(t, events.EventUserLogin, repo.inserted[0].Type)
	assert.Equal(t, subject, repo.inserted[0].SubjectID)
	assert.Equal(t, events.EventChatQuestion, repo.inserted[1].Type)
	assert.Equal(t, "agent", repo.inserted[1].Detail["source"])
	assert.Equal(t, events.EventAuthRejected, repo.inserted[2].Type)
	assert.Equal(t, uuid.Nil, repo.inserted[2].SubjectID)
	assert.Equal(t, "no_credential", repo.inserted[2].Detail["outcome"])
}

func TestAuditWorker_PersistenceFailureDoesNotPropagate(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	repo := &recordingAuditRepo{err: apperrors.NewInternalError("connection refused", nil)}
	worker.StartAuditWorker(dispatcher, repo, zap.NewNop())

	err := dispatcher.Publish(context.Background(),
		events.New(events.EventUserRegistered, uuid.New(), nil))
	assert.NoError(t, err)
}
