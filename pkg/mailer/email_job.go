package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// EmailJob is the JSON payload put on the RabbitMQ queue at signup.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Name    string `json:"name,omitempty"`
}

var welcomeHTML = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: sans-serif">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your account is ready. Sign in and share your first post.</p>
</body>
</html>`))

// RenderWelcome produces the text and HTML bodies for the welcome email.
func RenderWelcome(job EmailJob) (text string, html string, err error) {
	text = fmt.Sprintf("Welcome, %s! Your account is ready.", job.Name)
	var buf bytes.Buffer
	if err := welcomeHTML.Execute(&buf, job); err != nil {
		return "", "", err
	}
	return text, buf.String(), nil
}
