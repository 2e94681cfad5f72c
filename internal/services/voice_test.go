package services

import (
  "context"
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

type fakeTranscription struct {
  transcript    string
  err           error
  gotAudio      []byte
}

func (f *fakeTranscription) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
  f.gotAudio = audio
  return f.transcript, f.err
}

type fakeChat struct {
  reply        string
  sessionID    uuid.UUID
  calls        int
  gotMessage   string
  history      []Content
  gotHistory   []Content
  historyCalls int
}

func (f *fakeChat) SendMessage(ctx context.Context, sessionID *uuid.UUID, userID *uuid.UUID, history []Content, message string) (string, uuid.UUID, error) {
  f.calls++
  f.gotMessage = message
  f.gotHistory = history
  return f.reply, f.sessionID, nil
}

func (f *fakeChat) History(ctx context.Context, sessionID uuid.UUID) ([]Content, error) {
  f.historyCalls++
  return f.history, nil
}

type fakeBucket struct {
  signedURL string
  signErr   error
}

func (f *fakeBucket) EnsureBucket(ctx context.Context, name string, cfg BucketConfig) error {
  return nil
}

func (f *fakeBucket) UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) error {
  return nil
}

func (f *fakeBucket) GetPublicURL(bucket, path string) string {
  return "https://example.com/" + bucket + "/" + path
}

func (f *fakeBucket) GetSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
  return f.signedURL, f.signErr
}

func newTestPipeline(transcription TranscriptionService, chat ChatService, bucket BucketService) VoicePipeline {
  return NewVoicePipeline(logger.NewNop(), bucket, transcription, chat)
}

func TestProcessVoiceFullTurn(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte("fake-webm-audio-bytes"))
  }))
  defer server.Close()

  sessionID := uuid.New()
  transcription := &fakeTranscription{transcript: "I had a rough day"}
  chat := &fakeChat{reply: "That sounds hard. Want to talk about it?", sessionID: sessionID}

  pipeline := newTestPipeline(transcription, chat, &fakeBucket{})
  turn, err := pipeline.ProcessVoice(context.Background(), nil, nil, "moodmate-audio", server.URL)
  require.NoError(t, err)

  assert.Equal(t, "I had a rough day", turn.Transcript)
  assert.Equal(t, "That sounds hard. Want to talk about it?", turn.ChatResponse)
  assert.Equal(t, sessionID, turn.SessionID)
  assert.Equal(t, 1, chat.calls)
  assert.Equal(t, "I had a rough day", chat.gotMessage)
  assert.Equal(t, []byte("fake-webm-audio-bytes"), transcription.gotAudio)
}

func TestProcessVoiceEmptyTranscriptShortCircuits(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte("static-noise"))
  }))
  defer server.Close()

  chat := &fakeChat{reply: "should never be used"}
  pipeline := newTestPipeline(&fakeTranscription{transcript: ""}, chat, &fakeBucket{})

  requested := uuid.New()
  turn, err := pipeline.ProcessVoice(context.Background(), &requested, nil, "moodmate-audio", server.URL)
  require.NoError(t, err)

  assert.Equal(t, ClarificationReply, turn.ChatResponse)
  assert.Empty(t, turn.Transcript)
  assert.Equal(t, requested, turn.SessionID)
  assert.Equal(t, 0, chat.calls, "an empty transcript must not reach the chat model")
}

func TestProcessVoiceEmptyDownloadFails(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    // 200 with no body
  }))
  defer server.Close()

  pipeline := newTestPipeline(&fakeTranscription{}, &fakeChat{}, &fakeBucket{})
  _, err := pipeline.ProcessVoice(context.Background(), nil, nil, "moodmate-audio", server.URL)
  require.Error(t, err)
  assert.Contains(t, err.Error(), "downloaded audio is empty")
}

func TestProcessVoiceDownloadHTTPErrorFails(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusForbidden)
  }))
  defer server.Close()

  pipeline := newTestPipeline(&fakeTranscription{}, &fakeChat{}, &fakeBucket{})
  _, err := pipeline.ProcessVoice(context.Background(), nil, nil, "moodmate-audio", server.URL)
  require.Error(t, err)
  assert.Contains(t, err.Error(), "HTTP 403")
}

func TestProcessVoiceLoadsHistoryForKnownSession(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte("fake-webm-audio-bytes"))
  }))
  defer server.Close()

  sessionID := uuid.New()
  prior := []Content{
    {Role: "user", Parts: []Part{{Text: "yesterday was rough"}}},
    {Role: "model", Parts: []Part{{Text: "I'm sorry to hear that."}}},
  }
  chat := &fakeChat{reply: "ok", sessionID: sessionID, history: prior}
  pipeline := newTestPipeline(&fakeTranscription{transcript: "still feeling low"}, chat, &fakeBucket{})

  _, err := pipeline.ProcessVoice(context.Background(), &sessionID, nil, "moodmate-audio", server.URL)
  require.NoError(t, err)
  assert.Equal(t, 1, chat.historyCalls)
  assert.Equal(t, prior, chat.gotHistory, "prior turns must reach the model")
}

func TestProcessVoiceSkipsHistoryWithoutSession(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte("fake-webm-audio-bytes"))
  }))
  defer server.Close()

  chat := &fakeChat{reply: "ok", sessionID: uuid.New()}
  pipeline := newTestPipeline(&fakeTranscription{transcript: "hello"}, chat, &fakeBucket{})

  _, err := pipeline.ProcessVoice(context.Background(), nil, nil, "moodmate-audio", server.URL)
  require.NoError(t, err)
  assert.Equal(t, 0, chat.historyCalls)
  assert.Nil(t, chat.gotHistory)
}

func TestProcessVoiceSignsStoragePaths(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte("fake-webm-audio-bytes"))
  }))
  defer server.Close()

  bucket := &fakeBucket{signedURL: server.URL + "/signed"}
  chat := &fakeChat{reply: "ok", sessionID: uuid.New()}
  pipeline := newTestPipeline(&fakeTranscription{transcript: "hello"}, chat, bucket)

  turn, err := pipeline.ProcessVoice(context.Background(), nil, nil, "moodmate-audio", "user/session/123.webm")
  require.NoError(t, err)
  assert.Equal(t, "hello", turn.Transcript)
}
