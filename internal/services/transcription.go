package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "os"
  "strings"
  "time"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

type TranscriptionService interface {
  // Transcribe converts spoken audio into text. A zero-byte payload yields
  // an empty transcript without touching the network.
  Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type deepgramService struct {
  log         *logger.Logger
  client      *http.Client
  baseURL     string
  apiKey      string
}

func NewDeepgramService(log *logger.Logger) (TranscriptionService, error) {
  serviceLog := log.With("service", "DeepgramService")
  apiKey := os.Getenv("DEEPGRAM_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing DEEPGRAM_API_KEY environment variable")
  }
  baseURL := os.Getenv("DEEPGRAM_API_URL")
  if baseURL == "" {
    baseURL = "https://api.deepgram.com"
  }
  httpClient := &http.Client{
    Timeout: 60 * time.Second,
  }
  return &deepgramService{
    log:     serviceLog,
    client:  httpClient,
    baseURL: baseURL,
    apiKey:  apiKey,
  }, nil
}

type deepgramResponse struct {
  Results struct {
    Channels []struct {
      Alternatives []struct {
        Transcript string `json:"transcript"`
      } `json:"alternatives"`
    } `json:"channels"`
  } `json:"results"`
}

func (ds *deepgramService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
  if len(audio) == 0 {
    ds.log.Warn("audio payload is empty, returning empty transcript")
    return "", nil
  }
  if mimeType == "" {
    mimeType = "audio/webm"
  }

  reqURL := fmt.Sprintf("%s/v1/listen?punctuate=true", ds.baseURL)
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(audio))
  if err != nil {
    ds.log.Warn("failed to build transcription request", "error", err)
    return "", err
  }
  req.Header.Set("Authorization", "Token "+ds.apiKey)
  req.Header.Set("Content-Type", mimeType)

  resp, err := ds.client.Do(req)
  if err != nil {
    ds.log.Warn("failed to call deepgram", "error", err)
    return "", err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    ds.log.Warn("deepgram responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return "", fmt.Errorf("deepgram transcription failed: %d %s", resp.StatusCode, string(bodyBytes))
  }
  bodyBytes, err := io.ReadAll(resp.Body)
  if err != nil {
    ds.log.Warn("failed to read deepgram response body", "error", err)
    return "", err
  }
  var out deepgramResponse
  if err := json.Unmarshal(bodyBytes, &out); err != nil {
    return "", fmt.Errorf("failed to decode deepgram response: %w", err)
  }
  if len(out.Results.Channels) == 0 || len(out.Results.Channels[0].Alternatives) == 0 {
    return "", nil
  }
  return strings.TrimSpace(out.Results.Channels[0].Alternatives[0].Transcript), nil
}
