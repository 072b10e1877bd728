package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	verifyTemplate = template.Must(template.New("verify").Parse(
		`<p>Hi {{.Name}},</p>
<p>Welcome to WorkConnect PH. Please confirm your email address:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>This link expires in 24 hours.</p>`))

	resetTemplate = template.Must(template.New("reset").Parse(
		`<p>Hi {{.Name}},</p>
<p>We received a request to reset your WorkConnect PH password.</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>This link expires in 1 hour. If you did not ask for it, ignore this email.</p>`))
)

type linkData struct {
	Name string
	Link string
}

func render(t *template.Template, data linkData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s mail: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func VerificationEmail(to string, name string, link string) (Message, error) {
	html, err := render(verifyTemplate, linkData{Name: name, Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Verify your WorkConnect PH email",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s, verify your email: %s", name, link),
		Kind:    "verify_email",
	}, nil
}

func PasswordResetEmail(to string, name string, link string) (Message, error) {
	html, err := render(resetTemplate, linkData{Name: name, Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Reset your WorkConnect PH password",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s, reset your password: %s", name, link),
		Kind:    "password_reset",
	}, nil
}
