package services

import (
  "context"
  "fmt"
  "os"

  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/moodmate-org/moodmate-backend/internal/logger"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error
}

type emailService struct {
  log                   *logger.Logger
  client                *sendgrid.Client
  fromSupportEmail      string
  fromAlertEmail        string
}

func NewEmailService(log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("service", "EmailService")
  apiKey := os.Getenv("SENDGRID_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("Missing SENDGRID_API_KEY environment variable")
  }
  fromSupport := os.Getenv("SENDGRID_SUPPORT_EMAIL")
  if fromSupport == "" {
    serviceLog.Warn("SENDGRID_SUPPORT_EMAIL not set; using fallback no-reply@moodmate.app")
    fromSupport = "no-reply@moodmate.app"
  }
  fromAlert := os.Getenv("SENDGRID_ALERT_EMAIL")
  if fromAlert == "" {
    serviceLog.Warn("SENDGRID_ALERT_EMAIL not set; using fallback alerts@moodmate.app")
    fromAlert = "alerts@moodmate.app"
  }
  client := sendgrid.NewSendClient(apiKey)

  return &emailService{
    log:              serviceLog,
    client:           client,
    fromSupportEmail: fromSupport,
    fromAlertEmail:   fromAlert,
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error {
  var fromName = "MoodMate"
  var fromEmail = es.fromSupportEmail
  switch emailType {
  case "alert":
    fromName = "MoodMate Alerts"
    fromEmail = es.fromAlertEmail
  case "support":
    fromName = "MoodMate Support"
    fromEmail = es.fromSupportEmail
  }

  from := mail.NewEmail(fromName, fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

  resp, err := es.client.Send(message)
  if err != nil {
    es.log.Warn("Failed to send email via SendGrid", "error", err)
    return err
  }
  if resp.StatusCode >= 400 {
    es.log.Warn("SendGrid responded with an error status", "statusCode", resp.StatusCode, "body", resp.Body)
    return fmt.Errorf("sendgrid HTTP %d: %s", resp.StatusCode, resp.Body)
  }
  es.log.Info("Successfully sent email via SendGrid", "toEmail", toEmail, "statusCode", resp.StatusCode)
  return nil
}
