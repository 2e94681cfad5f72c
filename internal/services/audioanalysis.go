package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "os"
  "sort"
  "time"
  "unicode/utf8"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

// Hume batch jobs are slow but small; polling every couple of seconds with a
// hard cap keeps the request bounded.
const (
  humePollInterval    = 2 * time.Second
  humeMaxPolls        = 60
  maxTranscriptChars  = 5000
)

type ToneScore struct {
  Name    string    `json:"name"`
  Score   float64   `json:"score"`
}

type ToneAnalysis struct {
  Transcript    string        `json:"transcript"`
  TopEmotions   []ToneScore   `json:"topEmotions"`
}

type AudioAnalysisService interface {
  // Analyze runs vocal tone analysis on a reachable audio URL, asks the chat
  // model for an empathetic reply grounded in transcript and tone, and
  // persists the result.
  Analyze(ctx context.Context, userID uuid.UUID, audioURL string) (*types.AudioAnalysis, error)
  ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.AudioAnalysis, error)
}

type audioAnalysisService struct {
  db                  *gorm.DB
  log                 *logger.Logger
  client              *http.Client
  baseURL             string
  apiKey              string
  gemini              GeminiService
  audioAnalysisRepo   repos.AudioAnalysisRepo
}

func NewAudioAnalysisService(db *gorm.DB, log *logger.Logger, gemini GeminiService, audioAnalysisRepo repos.AudioAnalysisRepo) (AudioAnalysisService, error) {
  serviceLog := log.With("service", "AudioAnalysisService")
  apiKey := os.Getenv("HUME_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing HUME_API_KEY environment variable")
  }
  baseURL := os.Getenv("HUME_API_URL")
  if baseURL == "" {
    baseURL = "https://api.hume.ai"
  }
  return &audioAnalysisService{
    db:                db,
    log:               serviceLog,
    client:            &http.Client{Timeout: 30 * time.Second},
    baseURL:           baseURL,
    apiKey:            apiKey,
    gemini:            gemini,
    audioAnalysisRepo: audioAnalysisRepo,
  }, nil
}

func (aas *audioAnalysisService) Analyze(ctx context.Context, userID uuid.UUID, audioURL string) (*types.AudioAnalysis, error) {
  tone, err := aas.runToneAnalysis(ctx, audioURL)
  if err != nil {
    return nil, err
  }

  transcript := truncateTranscript(tone.Transcript, maxTranscriptChars)
  toneJSON, _ := json.Marshal(tone.TopEmotions)
  prompt := fmt.Sprintf("Transcript: %s\nTone analysis: %s\nTask: respond empathetically to what the speaker said, acknowledging how they sound.", transcript, string(toneJSON))

  reply, err := aas.gemini.GetChatResponse(ctx, nil, prompt)
  if err != nil {
    return nil, fmt.Errorf("failed to get empathetic reply: %w", err)
  }

  record := &types.AudioAnalysis{
    UserID:     userID,
    Transcript: transcript,
    Sentiment:  datatypes.JSON(toneJSON),
    Reply:      reply,
  }
  saved, err := aas.audioAnalysisRepo.Create(ctx, nil, record)
  if err != nil {
    return nil, fmt.Errorf("failed to persist audio analysis: %w", err)
  }
  return saved, nil
}

func (aas *audioAnalysisService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.AudioAnalysis, error) {
  return aas.audioAnalysisRepo.GetByUserID(ctx, nil, userID)
}

type humeJobResponse struct {
  JobID string `json:"job_id"`
}

type humeJobStatus struct {
  State struct {
    Status string `json:"status"`
  } `json:"state"`
}

type humePrediction struct {
  Results struct {
    Predictions []struct {
      Models struct {
        Language struct {
          GroupedPredictions []struct {
            Predictions []struct {
              Text      string `json:"text"`
              Emotions  []ToneScore `json:"emotions"`
            } `json:"predictions"`
          } `json:"grouped_predictions"`
        } `json:"language"`
      } `json:"models"`
    } `json:"predictions"`
  } `json:"results"`
}

func (aas *audioAnalysisService) runToneAnalysis(ctx context.Context, audioURL string) (*ToneAnalysis, error) {
  jobID, err := aas.startJob(ctx, audioURL)
  if err != nil {
    return nil, err
  }
  if err := aas.waitForJob(ctx, jobID); err != nil {
    return nil, err
  }
  return aas.fetchPredictions(ctx, jobID)
}

func (aas *audioAnalysisService) startJob(ctx context.Context, audioURL string) (string, error) {
  body, _ := json.Marshal(map[string]interface{}{
    "models": map[string]interface{}{"language": map[string]interface{}{}},
    "urls":   []string{audioURL},
  })
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, aas.baseURL+"/v0/batch/jobs", bytes.NewReader(body))
  if err != nil {
    return "", err
  }
  req.Header.Set("Content-Type", "application/json")
  req.Header.Set("X-Hume-Api-Key", aas.apiKey)

  resp, err := aas.client.Do(req)
  if err != nil {
    return "", fmt.Errorf("failed to start tone analysis job: %w", err)
  }
  defer resp.Body.Close()
  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    raw, _ := io.ReadAll(resp.Body)
    return "", fmt.Errorf("hume HTTP %d: %s", resp.StatusCode, string(raw))
  }
  var out humeJobResponse
  if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
    return "", err
  }
  if out.JobID == "" {
    return "", fmt.Errorf("hume returned no job id")
  }
  return out.JobID, nil
}

func (aas *audioAnalysisService) waitForJob(ctx context.Context, jobID string) error {
  for i := 0; i < humeMaxPolls; i++ {
    status, err := aas.jobStatus(ctx, jobID)
    if err != nil {
      return err
    }
    switch status {
    case "COMPLETED":
      return nil
    case "FAILED":
      return fmt.Errorf("tone analysis job %s failed", jobID)
    }
    select {
    case <-ctx.Done():
      return ctx.Err()
    case <-time.After(humePollInterval):
    }
  }
  return fmt.Errorf("tone analysis job %s did not finish in time", jobID)
}

func (aas *audioAnalysisService) jobStatus(ctx context.Context, jobID string) (string, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, aas.baseURL+"/v0/batch/jobs/"+jobID, nil)
  if err != nil {
    return "", err
  }
  req.Header.Set("X-Hume-Api-Key", aas.apiKey)
  resp, err := aas.client.Do(req)
  if err != nil {
    return "", err
  }
  defer resp.Body.Close()
  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    raw, _ := io.ReadAll(resp.Body)
    return "", fmt.Errorf("hume HTTP %d: %s", resp.StatusCode, string(raw))
  }
  var out humeJobStatus
  if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
    return "", err
  }
  return out.State.Status, nil
}

func (aas *audioAnalysisService) fetchPredictions(ctx context.Context, jobID string) (*ToneAnalysis, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, aas.baseURL+"/v0/batch/jobs/"+jobID+"/predictions", nil)
  if err != nil {
    return nil, err
  }
  req.Header.Set("X-Hume-Api-Key", aas.apiKey)
  resp, err := aas.client.Do(req)
  if err != nil {
    return nil, err
  }
  defer resp.Body.Close()
  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    raw, _ := io.ReadAll(resp.Body)
    return nil, fmt.Errorf("hume HTTP %d: %s", resp.StatusCode, string(raw))
  }
  var preds []humePrediction
  if err := json.NewDecoder(resp.Body).Decode(&preds); err != nil {
    return nil, err
  }

  analysis := &ToneAnalysis{}
  emotionTotals := make(map[string]float64)
  emotionCounts := make(map[string]int)
  for _, p := range preds {
    for _, pred := range p.Results.Predictions {
      for _, group := range pred.Models.Language.GroupedPredictions {
        for _, segment := range group.Predictions {
          if analysis.Transcript != "" {
            analysis.Transcript += " "
          }
          analysis.Transcript += segment.Text
          for _, e := range segment.Emotions {
            emotionTotals[e.Name] += e.Score
            emotionCounts[e.Name]++
          }
        }
      }
    }
  }
  analysis.TopEmotions = topAveragedEmotions(emotionTotals, emotionCounts, 5)
  return analysis, nil
}

// truncateTranscript caps the transcript at max bytes without splitting a
// UTF-8 rune.
func truncateTranscript(s string, max int) string {
  if len(s) <= max {
    return s
  }
  cut := max
  for cut > 0 && !utf8.RuneStart(s[cut]) {
    cut--
  }
  return s[:cut]
}

func topAveragedEmotions(totals map[string]float64, counts map[string]int, n int) []ToneScore {
  scores := make([]ToneScore, 0, len(totals))
  for name, total := range totals {
    scores = append(scores, ToneScore{Name: name, Score: total / float64(counts[name])})
  }
  sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
  if len(scores) > n {
    scores = scores[:n]
  }
  return scores
}
