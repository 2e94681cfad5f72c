package services

import (
  "context"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/gorm"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/repos"
  "github.com/moodmate-org/moodmate-backend/internal/types"
)

func newTestMusicLogService(t *testing.T) (MusicLogService, *recordingBroadcaster, *gorm.DB) {
  t.Helper()
  db := newTestDB(t)
  log := logger.NewNop()
  broadcaster := &recordingBroadcaster{}
  return NewMusicLogService(db, log, repos.NewMusicLogRepo(db, log), broadcaster), broadcaster, db
}

func TestLogRequiresAllFields(t *testing.T) {
  svc, _, db := newTestMusicLogService(t)
  ctx := context.Background()

  cases := []struct {
    name      string
    emotion   string
    weather   string
    songTitle string
    songID    string
  }{
    {"missing emotion", "", "rainy", "Blue in Green", "yt123"},
    {"missing weather", "calm", "", "Blue in Green", "yt123"},
    {"missing song title", "calm", "rainy", "", "yt123"},
    {"missing song id", "calm", "rainy", "Blue in Green", ""},
    {"all missing", "", "", "", ""},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := svc.Log(ctx, tc.emotion, tc.weather, tc.songTitle, tc.songID, nil)
      require.Error(t, err)
      assert.Contains(t, err.Error(), "required")
    })
  }

  var count int64
  require.NoError(t, db.Model(&types.MusicLog{}).Count(&count).Error)
  assert.EqualValues(t, 0, count, "rejected logs must not be persisted")
}

func TestLogPersistsAndBroadcasts(t *testing.T) {
  svc, broadcaster, _ := newTestMusicLogService(t)

  saved, err := svc.Log(context.Background(), "calm", "rainy", "Blue in Green", "yt123", nil)
  require.NoError(t, err)
  assert.Equal(t, "calm", saved.Emotion)
  assert.Equal(t, "rainy", saved.Weather)
  assert.Equal(t, "Blue in Green", saved.SongTitle)
  assert.Equal(t, "yt123", saved.SongID)
  assert.False(t, saved.PlayedAt.IsZero())

  require.Len(t, broadcaster.channels, 1)
  assert.Equal(t, "logs", broadcaster.channels[0])
  assert.Equal(t, "music_log_created", broadcaster.events[0])
}
