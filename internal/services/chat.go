package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// Broadcaster pushes live events to connected clients. The socket hub
// satisfies this; services treat it as optional.
type Broadcaster interface {
  Broadcast(channel string, event string, payload interface{})
}

type ChatService interface {
  // SendMessage runs one full conversational turn: resolve a usable session,
  // persist the user message, ask the model for a reply, persist the reply.
  // The returned session ID may differ from the requested one when the
  // session had to be healed.
  SendMessage(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, history []Content, message string) (string, uuid.UUID, error)

  // History returns the stored turns of a session oldest-first, in the wire
  // shape the chat model consumes.
  History(ctx context.Context, sessionID uuid.UUID) ([]Content, error)
}

type chatService struct {
  db              *gorm.DB
  log             *logger.Logger
  resolver        SessionResolver
  messageRepo     repos.MessageRepo
  gemini          GeminiService
  notifier        NotifierService
  broadcaster     Broadcaster
}

func NewChatService(db *gorm.DB, log *logger.Logger, resolver SessionResolver, messageRepo repos.MessageRepo, gemini GeminiService, notifier NotifierService, broadcaster Broadcaster) ChatService {
  return &chatService{
    db:          db,
    log:         log.With("service", "ChatService"),
    resolver:    resolver,
    messageRepo: messageRepo,
    gemini:      gemini,
    notifier:    notifier,
    broadcaster: broadcaster,
  }
}

func (cs *chatService) SendMessage(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, history []Content, message string) (string, uuid.UUID, error) {
  session, err := cs.resolver.Resolve(ctx, nil, sessionID, userID)
  if err != nil {
    return "", uuid.Nil, err
  }

  reply, err := cs.gemini.GetChatResponse(ctx, history, message)
  if err != nil {
    return "", session.ID, fmt.Errorf("failed to get chat response: %w", err)
  }

  msgs := []*types.Message{
    {SessionID: session.ID, Role: types.MessageRoleUser, Content: message},
    {SessionID: session.ID, Role: types.MessageRoleAssistant, Content: reply},
  }
  if _, err := cs.messageRepo.CreateMessages(ctx, nil, msgs); err != nil {
    return "", session.ID, fmt.Errorf("failed to persist chat turn: %w", err)
  }

  if cs.notifier != nil {
    go cs.notifier.NotifyIfCrisis(context.Background(), session.ID.String(), message)
  }
  if cs.broadcaster != nil {
    cs.broadcaster.Broadcast("chat:"+session.ID.String(), "chat_turn", map[string]interface{}{
      "sessionId": session.ID,
      "message":   message,
      "reply":     reply,
    })
  }
  cs.log.Debug("completed chat turn", "sessionID", session.ID)
  return reply, session.ID, nil
}

func (cs *chatService) History(ctx context.Context, sessionID uuid.UUID) ([]Content, error) {
  msgs, err := cs.messageRepo.GetBySessionID(ctx, nil, sessionID)
  if err != nil {
    return nil, fmt.Errorf("failed to load session history: %w", err)
  }
  history := make([]Content, 0, len(msgs))
  for _, m := range msgs {
    role := "user"
    if m.Role == types.MessageRoleAssistant {
      role = "model"
    }
    history = append(history, Content{Role: role, Parts: []Part{{Text: m.Content}}})
  }
  return history, nil
}
