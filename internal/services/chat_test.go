package services

import (
  "context"
  "errors"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

type fakeGemini struct {
  reply     string
  err       error
  embedding []float64
}

func (f *fakeGemini) GetChatResponse(ctx context.Context, history []Content, message string) (string, error) {
  return f.reply, f.err
}

func (f *fakeGemini) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
  return f.embedding, nil
}

type recordingBroadcaster struct {
  channels []string
  events   []string
}

func (r *recordingBroadcaster) Broadcast(channel string, event string, payload interface{}) {
  r.channels = append(r.channels, channel)
  r.events = append(r.events, event)
}

func TestSendMessagePersistsExactlyTwoMessages(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  sessionRepo := repos.NewSessionRepo(db, log)
  messageRepo := repos.NewMessageRepo(db, log)
  resolver := NewSessionResolver(db, log, userRepo, sessionRepo, nil)
  broadcaster := &recordingBroadcaster{}

  chat := NewChatService(db, log, resolver, messageRepo, &fakeGemini{reply: "I'm here for you."}, nil, broadcaster)

  reply, sessionID, err := chat.SendMessage(context.Background(), nil, nil, nil, "I feel overwhelmed")
  require.NoError(t, err)
  assert.Equal(t, "I'm here for you.", reply)

  msgs, err := messageRepo.GetBySessionID(context.Background(), nil, sessionID)
  require.NoError(t, err)
  require.Len(t, msgs, 2, "one user row and one assistant row per turn")
  assert.Equal(t, types.MessageRoleUser, msgs[0].Role)
  assert.Equal(t, "I feel overwhelmed", msgs[0].Content)
  assert.Equal(t, types.MessageRoleAssistant, msgs[1].Role)
  assert.Equal(t, "I'm here for you.", msgs[1].Content)

  require.Len(t, broadcaster.channels, 1)
  assert.Equal(t, "chat:"+sessionID.String(), broadcaster.channels[0])
  assert.Equal(t, "chat_turn", broadcaster.events[0])
}

func TestSendMessageModelFailurePersistsNothing(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  sessionRepo := repos.NewSessionRepo(db, log)
  messageRepo := repos.NewMessageRepo(db, log)
  resolver := NewSessionResolver(db, log, userRepo, sessionRepo, nil)

  chat := NewChatService(db, log, resolver, messageRepo, &fakeGemini{err: errors.New("model unavailable")}, nil, nil)

  _, sessionID, err := chat.SendMessage(context.Background(), nil, nil, nil, "hello")
  require.Error(t, err)

  var count int64
  require.NoError(t, db.Model(&types.Message{}).Where("session_id = ?", sessionID).Count(&count).Error)
  assert.EqualValues(t, 0, count, "failed turns must not leave partial rows")
}

func TestHistoryMapsRoles(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  userRepo := repos.NewUserRepo(db, log)
  sessionRepo := repos.NewSessionRepo(db, log)
  messageRepo := repos.NewMessageRepo(db, log)
  resolver := NewSessionResolver(db, log, userRepo, sessionRepo, nil)

  chat := NewChatService(db, log, resolver, messageRepo, &fakeGemini{reply: "hi"}, nil, nil)
  _, sessionID, err := chat.SendMessage(context.Background(), nil, nil, nil, "hey")
  require.NoError(t, err)

  history, err := chat.History(context.Background(), sessionID)
  require.NoError(t, err)
  require.Len(t, history, 2)
  assert.Equal(t, "user", history[0].Role)
  assert.Equal(t, "model", history[1].Role)
}
