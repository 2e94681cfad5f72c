package templates

import (
	"bytes"
	"html/template"
	"time"
)

type CrisisAlertEmailData struct {
	Excerpt			string
	SessionID		string
	DetectedAt	time.Time
}

const crisisAlertHTML = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8"/>
  <title>MoodMate Crisis Alert</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      background-color: #f5f5f5;
      color: #333;
    }
    .email-container {
      width: 100%;
      max-width: 600px;
      margin: 24px auto;
      background-color: #ffffff;
      border-radius: 8px;
      padding: 24px;
    }
    .banner {
      background-color: #b00020;
      color: #ffffff;
      padding: 12px 16px;
      border-radius: 6px;
      font-size: 16px;
      font-weight: bold;
    }
    .excerpt {
      margin: 20px 0;
      padding: 16px;
      background-color: #fafafa;
      border-left: 4px solid #b00020;
      font-style: italic;
    }
    .meta {
      font-size: 12px;
      color: #777;
    }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="banner">A MoodMate conversation may need attention</div>
    <p>
      A user message matched the crisis keyword list. Please review and reach
      out through the appropriate support channel.
    </p>
    <div class="excerpt">{{.Excerpt}}</div>
    <p class="meta">
      Session: {{.SessionID}}<br/>
      Detected at: {{.DetectedAt.Format "2006-01-02 15:04:05 MST"}}
    </p>
  </div>
</body>
</html>
`

var crisisAlertTemplate = template.Must(template.New("crisisAlert").Parse(crisisAlertHTML))

func RenderCrisisAlertEmail(data CrisisAlertEmailData) (string, error) {
	var buf bytes.Buffer
	if err := crisisAlertTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
