package services

import (
  "context"
  "encoding/json"
  "fmt"
  "math"
  "sort"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// Context retrieval tuning. Messages below the similarity floor are noise;
// more than a handful of matches dilutes the prompt.
const (
  similarityThreshold   = 0.78
  maxContextMessages    = 5
)

type AssistantService interface {
  // Ask answers a message using only the semantically closest prior turns of
  // the session as context, instead of the full transcript.
  Ask(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, message string) (string, uuid.UUID, error)
}

type assistantService struct {
  db            *gorm.DB
  log           *logger.Logger
  resolver      SessionResolver
  messageRepo   repos.MessageRepo
  gemini        GeminiService
}

func NewAssistantService(db *gorm.DB, log *logger.Logger, resolver SessionResolver, messageRepo repos.MessageRepo, gemini GeminiService) AssistantService {
  return &assistantService{
    db:          db,
    log:         log.With("service", "AssistantService"),
    resolver:    resolver,
    messageRepo: messageRepo,
    gemini:      gemini,
  }
}

type scoredMessage struct {
  msg     *types.Message
  score   float64
}

func (as *assistantService) Ask(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, message string) (string, uuid.UUID, error) {
  session, err := as.resolver.Resolve(ctx, nil, sessionID, userID)
  if err != nil {
    return "", uuid.Nil, err
  }

  queryVec, err := as.gemini.GetEmbedding(ctx, message)
  if err != nil {
    return "", session.ID, fmt.Errorf("failed to embed message: %w", err)
  }

  stored, err := as.messageRepo.GetBySessionID(ctx, nil, session.ID)
  if err != nil {
    return "", session.ID, err
  }
  relevant := rankBySimilarity(stored, queryVec)

  history := make([]Content, 0, len(relevant))
  for _, sm := range relevant {
    role := "user"
    if sm.msg.Role == types.MessageRoleAssistant {
      role = "model"
    }
    history = append(history, Content{Role: role, Parts: []Part{{Text: sm.msg.Content}}})
  }

  reply, err := as.gemini.GetChatResponse(ctx, history, message)
  if err != nil {
    return "", session.ID, fmt.Errorf("failed to get assistant response: %w", err)
  }

  replyVec, err := as.gemini.GetEmbedding(ctx, reply)
  if err != nil {
    as.log.Warn("failed to embed assistant reply; storing without embedding", "error", err)
    replyVec = nil
  }
  msgs := []*types.Message{
    {SessionID: session.ID, Role: types.MessageRoleUser, Content: message, Embedding: marshalEmbedding(queryVec)},
    {SessionID: session.ID, Role: types.MessageRoleAssistant, Content: reply, Embedding: marshalEmbedding(replyVec)},
  }
  if _, err := as.messageRepo.CreateMessages(ctx, nil, msgs); err != nil {
    return "", session.ID, fmt.Errorf("failed to persist assistant turn: %w", err)
  }
  return reply, session.ID, nil
}

// rankBySimilarity keeps messages whose stored embedding clears the
// similarity floor, ordered oldest-first so the prompt reads naturally.
func rankBySimilarity(msgs []*types.Message, query []float64) []scoredMessage {
  scored := make([]scoredMessage, 0, len(msgs))
  for _, m := range msgs {
    vec := unmarshalEmbedding(m.Embedding)
    if len(vec) == 0 {
      continue
    }
    score := cosineSimilarity(query, vec)
    if score >= similarityThreshold {
      scored = append(scored, scoredMessage{msg: m, score: score})
    }
  }
  if len(scored) > maxContextMessages {
    sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
    scored = scored[:maxContextMessages]
  }
  sort.SliceStable(scored, func(i, j int) bool {
    return scored[i].msg.CreatedAt.Before(scored[j].msg.CreatedAt)
  })
  return scored
}

func cosineSimilarity(a, b []float64) float64 {
  if len(a) != len(b) || len(a) == 0 {
    return 0
  }
  var dot, normA, normB float64
  for i := range a {
    dot += a[i] * b[i]
    normA += a[i] * a[i]
    normB += b[i] * b[i]
  }
  if normA == 0 || normB == 0 {
    return 0
  }
  return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func marshalEmbedding(vec []float64) datatypes.JSON {
  if len(vec) == 0 {
    return nil
  }
  raw, err := json.Marshal(vec)
  if err != nil {
    return nil
  }
  return datatypes.JSON(raw)
}

func unmarshalEmbedding(raw datatypes.JSON) []float64 {
  if len(raw) == 0 {
    return nil
  }
  var vec []float64
  if err := json.Unmarshal(raw, &vec); err != nil {
    return nil
  }
  return vec
}
