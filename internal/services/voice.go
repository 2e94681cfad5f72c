package services

import (
  "context"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

// ClarificationReply is returned verbatim when a recording produces no
// transcript. That turn is never persisted; the user simply retries.
const ClarificationReply = "I didn't quite catch that. Could you please say it again?"

const signedURLTTL = 5 * time.Minute

// VoiceTurn is the outcome of one voice interaction.
type VoiceTurn struct {
  SessionID      uuid.UUID   `json:"sessionId"`
  Transcript     string      `json:"transcript"`
  ChatResponse   string      `json:"chatResponse"`
}

type VoicePipeline interface {
  // ProcessVoice turns a stored (or directly reachable) recording into a
  // chat turn: fetch audio, transcribe, converse, persist. audioRef is
  // either an absolute http(s) URL or an object path inside bucket.
  ProcessVoice(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, bucket, audioRef string) (*VoiceTurn, error)
}

type voicePipeline struct {
  log               *logger.Logger
  bucketService     BucketService
  transcription     TranscriptionService
  chatService       ChatService
  httpClient        *http.Client
}

func NewVoicePipeline(log *logger.Logger, bucketService BucketService, transcription TranscriptionService, chatService ChatService) VoicePipeline {
  return &voicePipeline{
    log:           log.With("service", "VoicePipeline"),
    bucketService: bucketService,
    transcription: transcription,
    chatService:   chatService,
    httpClient:    &http.Client{Timeout: 60 * time.Second},
  }
}

func (vp *voicePipeline) ProcessVoice(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, bucket, audioRef string) (*VoiceTurn, error) {
  audioURL := audioRef
  if !strings.HasPrefix(audioRef, "http://") && !strings.HasPrefix(audioRef, "https://") {
    signed, err := vp.bucketService.GetSignedURL(ctx, bucket, audioRef, signedURLTTL)
    if err != nil {
      return nil, fmt.Errorf("failed to sign audio URL for %q in bucket %q: %w", audioRef, bucket, err)
    }
    audioURL = signed
  }

  audio, err := vp.download(ctx, audioURL)
  if err != nil {
    return nil, err
  }

  transcript, err := vp.transcription.Transcribe(ctx, audio, "audio/webm")
  if err != nil {
    return nil, fmt.Errorf("failed to transcribe audio: %w", err)
  }

  if transcript == "" {
    vp.log.Info("empty transcript, returning clarification prompt")
    turn := &VoiceTurn{Transcript: "", ChatResponse: ClarificationReply}
    if sessionID != nil {
      turn.SessionID = *sessionID
    }
    return turn, nil
  }

  var history []Content
  if sessionID != nil {
    history, err = vp.chatService.History(ctx, *sessionID)
    if err != nil {
      vp.log.Warn("failed to load session history, continuing without it", "sessionID", *sessionID, "error", err)
      history = nil
    }
  }

  reply, resolvedSessionID, err := vp.chatService.SendMessage(ctx, sessionID, userID, history, transcript)
  if err != nil {
    return nil, err
  }
  return &VoiceTurn{
    SessionID:    resolvedSessionID,
    Transcript:   transcript,
    ChatResponse: reply,
  }, nil
}

func (vp *voicePipeline) download(ctx context.Context, audioURL string) ([]byte, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
  if err != nil {
    return nil, err
  }
  resp, err := vp.httpClient.Do(req)
  if err != nil {
    return nil, fmt.Errorf("failed to download audio: %w", err)
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    return nil, fmt.Errorf("failed to download audio: HTTP %d", resp.StatusCode)
  }
  data, err := io.ReadAll(resp.Body)
  if err != nil {
    return nil, fmt.Errorf("failed to read audio body: %w", err)
  }
  if len(data) == 0 {
    return nil, fmt.Errorf("downloaded audio is empty")
  }
  return data, nil
}
