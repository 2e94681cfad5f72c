package services

import (
  "context"
  "fmt"
  "os"
  "regexp"
  "time"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
  "github.com/moodmate-org/moodmate-backend/internal/templates"
)

// crisisPattern flags user messages that should be surfaced to a human.
// Matching is best-effort; the chat reply itself already handles crisis
// language per the assistant guidelines.
var crisisPattern = regexp.MustCompile(`(?i)\b(suicide|suicidal|self[\s-]?harm|kill myself|end my life|hurt myself|want to die)\b`)

type NotifierService interface {
  // NotifyIfCrisis scans a user message and, on a match, alerts the
  // configured counselor contacts. It never returns an error to the caller;
  // alerting is strictly best-effort.
  NotifyIfCrisis(ctx context.Context, sessionID string, message string)
}

type notifierService struct {
  log             *logger.Logger
  emailService    EmailService
  textService     TextService
  alertEmail      string
  alertPhone      string
}

func NewNotifierService(log *logger.Logger, emailService EmailService, textService TextService) NotifierService {
  serviceLog := log.With("service", "NotifierService")
  alertEmail := os.Getenv("CRISIS_ALERT_EMAIL")
  alertPhone := os.Getenv("CRISIS_ALERT_PHONE")
  if alertEmail == "" && alertPhone == "" {
    serviceLog.Warn("No CRISIS_ALERT_EMAIL or CRISIS_ALERT_PHONE configured; crisis alerting is disabled")
  }
  return &notifierService{
    log:          serviceLog,
    emailService: emailService,
    textService:  textService,
    alertEmail:   alertEmail,
    alertPhone:   alertPhone,
  }
}

func (ns *notifierService) NotifyIfCrisis(ctx context.Context, sessionID string, message string) {
  if !crisisPattern.MatchString(message) {
    return
  }
  excerpt := message
  if len(excerpt) > 280 {
    excerpt = excerpt[:280] + "..."
  }
  ns.log.Info("crisis keywords detected in user message", "sessionID", sessionID)

  if ns.emailService != nil && ns.alertEmail != "" {
    html, err := templates.RenderCrisisAlertEmail(templates.CrisisAlertEmailData{
      Excerpt:    excerpt,
      SessionID:  sessionID,
      DetectedAt: time.Now(),
    })
    if err != nil {
      ns.log.Warn("failed to render crisis alert email", "error", err)
    } else {
      plain := fmt.Sprintf("A MoodMate conversation may need attention.\n\nSession: %s\nExcerpt: %s", sessionID, excerpt)
      if err := ns.emailService.SendEmail(ctx, ns.alertEmail, "MoodMate crisis alert", plain, html, "alert"); err != nil {
        ns.log.Warn("failed to send crisis alert email", "error", err)
      }
    }
  }
  if ns.textService != nil && ns.alertPhone != "" {
    body := fmt.Sprintf("MoodMate crisis alert for session %s. Check your inbox for details.", sessionID)
    if err := ns.textService.SendText(ctx, ns.alertPhone, body); err != nil {
      ns.log.Warn("failed to send crisis alert text", "error", err)
    }
  }
}
