package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "math/rand"
  "mime/multipart"
  "net/http"
  "os"
  "time"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

type EmotionService interface {
  // Detect sends a photo to the face-emotion API and returns the raw
  // response payload.
  Detect(ctx context.Context, photo []byte, filename string) (json.RawMessage, error)
}

type luxandService struct {
  log         *logger.Logger
  client      *http.Client
  baseURL     string
  apiKey      string
}

func NewLuxandService(log *logger.Logger) (EmotionService, error) {
  serviceLog := log.With("service", "LuxandService")
  apiKey := os.Getenv("LUXAND_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing LUXAND_API_KEY environment variable")
  }
  baseURL := os.Getenv("LUXAND_API_URL")
  if baseURL == "" {
    baseURL = "https://api.luxand.cloud"
  }
  httpClient := &http.Client{
    Timeout: 30 * time.Second,
  }
  return &luxandService{
    log:     serviceLog,
    client:  httpClient,
    baseURL: baseURL,
    apiKey:  apiKey,
  }, nil
}

func (ls *luxandService) Detect(ctx context.Context, photo []byte, filename string) (json.RawMessage, error) {
  if len(photo) == 0 {
    return nil, fmt.Errorf("no photo provided")
  }
  if filename == "" {
    filename = "photo.jpg"
  }

  var form bytes.Buffer
  writer := multipart.NewWriter(&form)
  part, err := writer.CreateFormFile("photo", filename)
  if err != nil {
    return nil, err
  }
  if _, err := part.Write(photo); err != nil {
    return nil, err
  }
  if err := writer.Close(); err != nil {
    return nil, err
  }

  reqURL := fmt.Sprintf("%s/photo/emotions", ls.baseURL)
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &form)
  if err != nil {
    ls.log.Warn("failed to build emotion request", "error", err)
    return nil, err
  }
  req.Header.Set("token", ls.apiKey)
  req.Header.Set("Content-Type", writer.FormDataContentType())

  resp, err := ls.client.Do(req)
  if err != nil {
    ls.log.Warn("failed to call luxand", "error", err)
    return nil, err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    ls.log.Warn("luxand responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return nil, fmt.Errorf("luxand HTTP %d: %s", resp.StatusCode, string(bodyBytes))
  }
  bodyBytes, err := io.ReadAll(resp.Body)
  if err != nil {
    ls.log.Warn("failed to read luxand response body", "error", err)
    return nil, err
  }
  return json.RawMessage(bodyBytes), nil
}

// EmotionScoresFromResponse pulls the per-emotion confidence map out of a
// face-emotion API response. Both the single-object and the faces-array
// shapes are accepted.
func EmotionScoresFromResponse(raw json.RawMessage) (map[string]float64, error) {
  var withFaces struct {
    Faces []struct {
      Emotions map[string]float64 `json:"emotions"`
    } `json:"faces"`
  }
  if err := json.Unmarshal(raw, &withFaces); err == nil && len(withFaces.Faces) > 0 && len(withFaces.Faces[0].Emotions) > 0 {
    return withFaces.Faces[0].Emotions, nil
  }
  var asArray []struct {
    Emotions map[string]float64 `json:"emotions"`
  }
  if err := json.Unmarshal(raw, &asArray); err == nil && len(asArray) > 0 && len(asArray[0].Emotions) > 0 {
    return asArray[0].Emotions, nil
  }
  return nil, fmt.Errorf("no face detected in image")
}

// DominantEmotion returns the emotion with the highest confidence score.
// An empty score map falls back to "neutral".
func DominantEmotion(scores map[string]float64) string {
  maxEmotion := "neutral"
  maxScore := -1.0
  for emotion, score := range scores {
    if score > maxScore {
      maxScore = score
      maxEmotion = emotion
    }
  }
  return maxEmotion
}

var emotionSummaries = map[string][]string{
  "happy": {
    "You're radiating joy today!",
    "You look cheerful and bright!",
    "Your smile is contagious!",
  },
  "sad": {
    "You seem a bit down today. Take care of yourself.",
    "Looks like you're feeling melancholic.",
    "Remember, it's okay to have tough days.",
  },
  "angry": {
    "You seem a bit tense. Take a deep breath!",
    "Looks like something's bothering you.",
    "Try to find some calm in your day.",
  },
  "surprised": {
    "You look surprised! Something exciting happen?",
    "Your expression shows amazement!",
    "You seem caught off guard!",
  },
  "neutral": {
    "You're looking calm and composed.",
    "A peaceful, neutral expression today.",
    "You seem relaxed and centered.",
  },
  "fearful": {
    "You seem a bit anxious. Everything okay?",
    "Your expression shows some worry.",
    "Take a moment to relax and breathe.",
  },
}

// EmotionSummary picks a friendly one-liner for the dominant emotion.
// Unknown emotions get a neutral summary.
func EmotionSummary(emotion string) string {
  messages, ok := emotionSummaries[emotion]
  if !ok {
    messages = emotionSummaries["neutral"]
  }
  return messages[rand.Intn(len(messages))]
}
