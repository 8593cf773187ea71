package email

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("ASL Market", "no-reply@example.com", "u@example.com", "سلام", "<p>x</p>"))

	assert.Contains(t, msg, "To: u@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>x</p>"))
}

func TestNotificationBody_Escapes(t *testing.T) {
	body := NotificationBody("<b>", "t", "a & b", "https://x/y?a=1&b=2")
	assert.Contains(t, body, "&lt;b&gt;")
	assert.Contains(t, body, "a &amp; b")
	assert.Contains(t, body, `href="https://x/y?a=1&amp;b=2"`)
	assert.Contains(t, body, `dir="rtl"`)
}

func TestSendWithoutSMTP_IsNoop(t *testing.T) {
	svc := NewEmailService(SMTPConfig{BaseURL: "https://app.example"}, zerolog.Nop())
	assert.NoError(t, svc.SendNotificationEmail("u@example.com", "U", "t", "m", "/matching"))
	assert.NoError(t, svc.SendWelcomeEmail("u@example.com", "U"))
}

func TestAbsoluteURL(t *testing.T) {
	s := &EmailServiceImpl{config: SMTPConfig{BaseURL: "https://app.example/"}}
	assert.Equal(t, "https://app.example/matching/requests/3", s.absoluteURL("/matching/requests/3"))
	assert.Equal(t, "https://other/x", s.absoluteURL("https://other/x"))
	assert.Equal(t, "", s.absoluteURL(""))
}
