package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "os"
  "time"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

// Content is one prior turn of a conversation in the wire shape the chat
// model expects. Role is "user" or "model".
type Content struct {
  Role    string    `json:"role"`
  Parts   []Part    `json:"parts"`
}

type Part struct {
  Text    string    `json:"text"`
}

const moodMateSystemPrompt = `
You are MoodMate, an empathetic emotional support companion.
Your goal is to listen deeply, validate feelings, and gently guide the user toward clarity and calm.

Guidelines:
- Be warm, non-judgmental, and supportive.
- Actively listen: reflect or rephrase what the user says to show understanding.
- Validate emotions without minimizing them. Normalize feelings.
- Ask gentle, open-ended questions that encourage self-reflection.
- Offer simple coping strategies, mindfulness practices, or grounding techniques if relevant.
- Encourage but never pressure the user to share more.
- Do not provide medical or diagnostic advice.
- If the user mentions self-harm, suicidal thoughts, or crisis, respond compassionately and suggest reaching out to a professional or a trusted helpline.
- Always prioritize empathy and companionship over solutions.
`

type GeminiService interface {
  GetChatResponse(ctx context.Context, history []Content, message string) (string, error)
  GetEmbedding(ctx context.Context, text string) ([]float64, error)
}

type geminiService struct {
  log               *logger.Logger
  client            *http.Client
  baseURL           string
  apiKey            string
  chatModel         string
  embeddingModel    string
}

func NewGeminiService(log *logger.Logger) (GeminiService, error) {
  serviceLog := log.With("service", "GeminiService")
  apiKey := os.Getenv("GEMINI_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing GEMINI_API_KEY environment variable")
  }
  baseURL := os.Getenv("GEMINI_API_URL")
  if baseURL == "" {
    baseURL = "https://generativelanguage.googleapis.com/v1beta"
  }
  chatModel := os.Getenv("GEMINI_CHAT_MODEL")
  if chatModel == "" {
    chatModel = "gemini-2.5-flash"
  }
  httpClient := &http.Client{
    Timeout: 30 * time.Second,
  }
  return &geminiService{
    log:            serviceLog,
    client:         httpClient,
    baseURL:        baseURL,
    apiKey:         apiKey,
    chatModel:      chatModel,
    embeddingModel: "embedding-001",
  }, nil
}

type generateRequest struct {
  SystemInstruction   *Content            `json:"system_instruction,omitempty"`
  Contents            []Content           `json:"contents"`
  GenerationConfig    generationConfig    `json:"generationConfig"`
  SafetySettings      []safetySetting     `json:"safetySettings,omitempty"`
}

type generationConfig struct {
  Temperature       float64   `json:"temperature"`
  TopK              int       `json:"topK"`
  TopP              float64   `json:"topP"`
  MaxOutputTokens   int       `json:"maxOutputTokens"`
}

type safetySetting struct {
  Category    string    `json:"category"`
  Threshold   string    `json:"threshold"`
}

type generateResponse struct {
  Candidates []struct {
    Content struct {
      Parts []Part `json:"parts"`
    } `json:"content"`
  } `json:"candidates"`
}

func defaultSafetySettings() []safetySetting {
  categories := []string{
    "HARM_CATEGORY_HARASSMENT",
    "HARM_CATEGORY_HATE_SPEECH",
    "HARM_CATEGORY_SEXUALLY_EXPLICIT",
    "HARM_CATEGORY_DANGEROUS_CONTENT",
  }
  settings := make([]safetySetting, 0, len(categories))
  for _, c := range categories {
    settings = append(settings, safetySetting{Category: c, Threshold: "BLOCK_MEDIUM_AND_ABOVE"})
  }
  return settings
}

func (gs *geminiService) GetChatResponse(ctx context.Context, history []Content, message string) (string, error) {
  contents := make([]Content, 0, len(history)+1)
  contents = append(contents, history...)
  contents = append(contents, Content{Role: "user", Parts: []Part{{Text: message}}})

  body := generateRequest{
    SystemInstruction: &Content{Role: "user", Parts: []Part{{Text: moodMateSystemPrompt}}},
    Contents:          contents,
    GenerationConfig: generationConfig{
      Temperature:     0.9,
      TopK:            1,
      TopP:            1,
      MaxOutputTokens: 8192,
    },
    SafetySettings: defaultSafetySettings(),
  }
  reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", gs.baseURL, gs.chatModel, gs.apiKey)

  var out generateResponse
  if err := gs.postJSON(ctx, reqURL, body, &out); err != nil {
    return "", err
  }
  if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
    return "", fmt.Errorf("chat model returned no candidates")
  }
  return out.Candidates[0].Content.Parts[0].Text, nil
}

type embedRequest struct {
  Content   Content   `json:"content"`
}

type embedResponse struct {
  Embedding struct {
    Values []float64 `json:"values"`
  } `json:"embedding"`
}

func (gs *geminiService) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
  body := embedRequest{
    Content: Content{Parts: []Part{{Text: text}}},
  }
  reqURL := fmt.Sprintf("%s/models/%s:embedContent?key=%s", gs.baseURL, gs.embeddingModel, gs.apiKey)

  var out embedResponse
  if err := gs.postJSON(ctx, reqURL, body, &out); err != nil {
    return nil, err
  }
  if len(out.Embedding.Values) == 0 {
    return nil, fmt.Errorf("embedding model returned an empty vector")
  }
  return out.Embedding.Values, nil
}

func (gs *geminiService) postJSON(ctx context.Context, reqURL string, body interface{}, out interface{}) error {
  payload, err := json.Marshal(body)
  if err != nil {
    return err
  }
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
  if err != nil {
    gs.log.Warn("failed to build gemini request", "error", err)
    return err
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := gs.client.Do(req)
  if err != nil {
    gs.log.Warn("failed to call gemini", "error", err)
    return err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    gs.log.Warn("gemini responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return fmt.Errorf("gemini HTTP %d: %s", resp.StatusCode, string(bodyBytes))
  }
  bodyBytes, err := io.ReadAll(resp.Body)
  if err != nil {
    gs.log.Warn("failed to read gemini response body", "error", err)
    return err
  }
  return json.Unmarshal(bodyBytes, out)
}
