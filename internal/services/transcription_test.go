package services

import (
  "context"
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

func newTestDeepgram(baseURL string) *deepgramService {
  return &deepgramService{
    log:     logger.NewNop(),
    client:  &http.Client{Timeout: 5 * time.Second},
    baseURL: baseURL,
    apiKey:  "test-key",
  }
}

func TestTranscribeEmptyAudioSkipsNetwork(t *testing.T) {
  called := false
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    called = true
  }))
  defer server.Close()

  ds := newTestDeepgram(server.URL)
  transcript, err := ds.Transcribe(context.Background(), nil, "audio/webm")
  require.NoError(t, err)
  assert.Empty(t, transcript)
  assert.False(t, called, "empty audio must not hit the API")
}

func TestTranscribeParsesTranscript(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
    assert.Equal(t, "true", r.URL.Query().Get("punctuate"))
    w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"  hello there  "}]}]}}`))
  }))
  defer server.Close()

  ds := newTestDeepgram(server.URL)
  transcript, err := ds.Transcribe(context.Background(), []byte("audio"), "audio/webm")
  require.NoError(t, err)
  assert.Equal(t, "hello there", transcript)
}

func TestTranscribeNoAlternativesYieldsEmpty(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.Write([]byte(`{"results":{"channels":[]}}`))
  }))
  defer server.Close()

  ds := newTestDeepgram(server.URL)
  transcript, err := ds.Transcribe(context.Background(), []byte("audio"), "")
  require.NoError(t, err)
  assert.Empty(t, transcript)
}

func TestTranscribeHTTPErrorSurfacesStatus(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusUnauthorized)
    w.Write([]byte("bad key"))
  }))
  defer server.Close()

  ds := newTestDeepgram(server.URL)
  _, err := ds.Transcribe(context.Background(), []byte("audio"), "audio/webm")
  require.Error(t, err)
  assert.Contains(t, err.Error(), "deepgram transcription failed: 401")
}
