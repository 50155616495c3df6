// Package email renders templated messages and delivers them over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xyz-asif/gotours/internal/config"
)

var templates = template.Must(template.New("emails").Parse(`
{{define "welcome"}}
<h1>Hi {{.FirstName}},</h1>
<p>Welcome to GoTours, we're glad to have you!</p>
<p>We're all a big family here, so make sure to upload your user photo so we
get to know you a bit better.</p>
<p><a href="{{.URL}}">Visit your account page</a></p>
<p>If you need any help with booking your next tour, please don't hesitate
to contact us.</p>
{{end}}

{{define "passwordReset"}}
<h1>Hi {{.FirstName}},</h1>
<p>Forgot your password? Submit a PATCH request with your new password to:
<a href="{{.URL}}">{{.URL}}</a></p>
<p>If you didn't forget your password, please ignore this email.</p>
<p>The link is only valid for 10 minutes.</p>
{{end}}
`))

type templateData struct {
	FirstName string
	URL       string
}

// Sender delivers rendered messages; narrow so handlers and tests can swap
// the transport out.
type Sender interface {
	SendWelcome(to, firstName, url string) error
	SendPasswordReset(to, firstName, url string) error
}

// Mailer renders the named template and sends it through an SMTP dialer.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
}

func (m *Mailer) send(to, subject, templateName string, data templateData) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to render email template %q: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) SendWelcome(to, firstName, url string) error {
	return m.send(to, "Welcome to the GoTours family!", "welcome", templateData{
		FirstName: firstName,
		URL:       url,
	})
}

func (m *Mailer) SendPasswordReset(to, firstName, url string) error {
	return m.send(to, "Your password reset token (valid for 10 minutes)", "passwordReset", templateData{
		FirstName: firstName,
		URL:       url,
	})
}
