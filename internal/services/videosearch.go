package services

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "time"

  "github.com/redis/go-redis/v9"
  "google.golang.org/api/option"
  "google.golang.org/api/youtube/v3"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

const (
  videoSearchMaxResults   = 5
  videoSearchCacheTTL     = 15 * time.Minute
)

type Video struct {
  ID            string    `json:"id"`
  Title         string    `json:"title"`
  ChannelTitle  string    `json:"channelTitle"`
  Thumbnail     string    `json:"thumbnail"`
}

type VideoSearchService interface {
  Search(ctx context.Context, query string) ([]Video, error)
}

type videoSearchService struct {
  log       *logger.Logger
  yt        *youtube.Service
  cache     *redis.Client
}

// NewVideoSearchService builds the YouTube-backed search. The Redis cache is
// optional; without it every query hits the API quota.
func NewVideoSearchService(log *logger.Logger, cache *redis.Client) (VideoSearchService, error) {
  serviceLog := log.With("service", "VideoSearchService")
  apiKey := os.Getenv("YOUTUBE_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing YOUTUBE_API_KEY environment variable")
  }
  yt, err := youtube.NewService(context.Background(), option.WithAPIKey(apiKey))
  if err != nil {
    return nil, fmt.Errorf("failed to create youtube client: %w", err)
  }
  if cache == nil {
    serviceLog.Warn("no redis cache wired; video searches will not be cached")
  }
  return &videoSearchService{
    log:   serviceLog,
    yt:    yt,
    cache: cache,
  }, nil
}

func (vs *videoSearchService) Search(ctx context.Context, query string) ([]Video, error) {
  if query == "" {
    return nil, fmt.Errorf("search query is empty")
  }
  cacheKey := "ytsearch:" + query
  if vs.cache != nil {
    if raw, err := vs.cache.Get(ctx, cacheKey).Result(); err == nil {
      var cached []Video
      if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
        vs.log.Debug("video search cache hit", "query", query)
        return cached, nil
      }
    }
  }

  call := vs.yt.Search.List([]string{"snippet"}).
    Q(query).
    Type("video").
    MaxResults(videoSearchMaxResults).
    Context(ctx)
  resp, err := call.Do()
  if err != nil {
    return nil, fmt.Errorf("youtube search failed: %w", err)
  }

  videos := make([]Video, 0, len(resp.Items))
  for _, item := range resp.Items {
    if item.Id == nil || item.Snippet == nil {
      continue
    }
    v := Video{
      ID:           item.Id.VideoId,
      Title:        item.Snippet.Title,
      ChannelTitle: item.Snippet.ChannelTitle,
    }
    if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
      v.Thumbnail = item.Snippet.Thumbnails.Medium.Url
    }
    videos = append(videos, v)
  }

  if vs.cache != nil {
    if raw, jerr := json.Marshal(videos); jerr == nil {
      if serr := vs.cache.Set(ctx, cacheKey, raw, videoSearchCacheTTL).Err(); serr != nil {
        vs.log.Warn("failed to cache video search results", "error", serr)
      }
    }
  }
  return videos, nil
}
