package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "image/color"
  "math/rand"
  "os"
  "strings"

  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

const avatarBucket = "moodmate-avatars"

type AvatarService interface {
  CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
  GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
  log             *logger.Logger
  bucketService   BucketService
  bgColors        []color.NRGBA
  fontFace        font.Face
}

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  colorsJSONPath := os.Getenv("AVATAR_COLORS_JSON_PATH")
  if colorsJSONPath == "" {
    return nil, fmt.Errorf("env var AVATAR_COLORS_JSON_PATH is empty")
  }
  serviceLog.Info("Loading avatar colors from JSON file", "path", colorsJSONPath)
  bgColors, err := loadColorsFromFile(colorsJSONPath)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar colors: %w", err)
  }

  fontPath := os.Getenv("AVATAR_FONT")
  if fontPath == "" {
    return nil, fmt.Errorf("env var AVATAR_FONT is empty")
  }
  serviceLog.Info("Loading avatar font from TTF file", "font", fontPath)
  face, err := loadFontFace(fontPath, 206)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar font: %w", err)
  }

  return &avatarService{
    log:           serviceLog,
    bucketService: bucketService,
    bgColors:      bgColors,
    fontFace:      face,
  }, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
  buf, err := as.GenerateUserAvatar(user)
  if err != nil {
    return err
  }
  if err := as.bucketService.EnsureBucket(ctx, avatarBucket, BucketConfig{Public: true, AllowedContentTypes: []string{"image/png"}}); err != nil {
    return err
  }
  bucketKey := fmt.Sprintf("user_avatars/%s.png", user.ID.String())
  if err := as.bucketService.UploadFile(ctx, avatarBucket, bucketKey, buf.Bytes(), "image/png"); err != nil {
    return fmt.Errorf("Failed to upload user avatar: %w", err)
  }
  if user.AvatarBucketKey != bucketKey {
    user.AvatarBucketKey = bucketKey
  }
  finalURL := as.bucketService.GetPublicURL(avatarBucket, bucketKey)
  if user.AvatarURL != finalURL {
    user.AvatarURL = finalURL
  }
  return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
  const size = 512

  dc := gg.NewContext(size, size)

  // Circular mask so the final image is round
  dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
  dc.Clip()

  base := as.bgColors[rand.Intn(len(as.bgColors))]
  dc.SetColor(base)
  dc.DrawRectangle(0, 0, float64(size), float64(size))
  dc.Fill()

  initials := computeInitials(user.DisplayName)

  dc.SetFontFace(as.fontFace)
  tw, th := dc.MeasureString(initials)
  cx, cy := float64(size)/2, float64(size)/2

  dc.SetColor(color.White)
  dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return buf, fmt.Errorf("failed to encode PNG: %w", err)
  }
  return buf, nil
}

// computeInitials derives up to two uppercase initials from a display name.
func computeInitials(displayName string) string {
  fields := strings.Fields(displayName)
  switch len(fields) {
  case 0:
    return "??"
  case 1:
    return strings.ToUpper(fields[0][:1]) + "?"
  default:
    return strings.ToUpper(fields[0][:1]) + strings.ToUpper(fields[len(fields)-1][:1])
  }
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
  data, err := os.ReadFile(jsonPath)
  if err != nil {
    return nil, fmt.Errorf("read file error: %w", err)
  }
  var colors []color.NRGBA
  if err := json.Unmarshal(data, &colors); err != nil {
    return nil, fmt.Errorf("json unmarshal error: %w", err)
  }
  if len(colors) == 0 {
    return nil, fmt.Errorf("no avatar colors in %s", jsonPath)
  }
  return colors, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
  fontBytes, err := os.ReadFile(fontPath)
  if err != nil {
    return nil, fmt.Errorf("failed to read font file: %w", err)
  }
  parsedFont, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("failed to parse TTF: %w", err)
  }
  face := truetype.NewFace(parsedFont, &truetype.Options{
    Size:     size,
    DPI:      72,
    Hinting:  font.HintingNone,
  })
  return face, nil
}
