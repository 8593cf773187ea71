package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendNotificationEmail(toEmail, toName, title, message, actionURL string) error
	SendWelcomeEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Public site URL used for relative action links
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendNotificationEmail delivers an admin notification over email
func (s *EmailServiceImpl) SendNotificationEmail(toEmail, toName, title, message, actionURL string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("title", title).
			Msg("SMTP not configured - notification email not sent")
		return nil
	}

	return s.sendHTMLEmail(toEmail, title, NotificationBody(toName, title, message, s.absoluteURL(actionURL)))
}

// SendWelcomeEmail sends a welcome email to a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Debug().
			Str("toEmail", toEmail).
			Msg("SMTP not configured - welcome email not sent")
		return nil
	}

	body := NotificationBody(toName, "به ASL Market خوش آمدید",
		"حساب کاربری شما ایجاد شد. اکنون می‌توانید به عنوان تامین‌کننده یا ویزیتور ثبت‌نام کنید.", s.config.BaseURL)
	return s.sendHTMLEmail(toEmail, "خوش آمدید - ASL Market", body)
}

func (s *EmailServiceImpl) absoluteURL(actionURL string) string {
	if actionURL == "" || strings.HasPrefix(actionURL, "http://") || strings.HasPrefix(actionURL, "https://") {
		return actionURL
	}
	return strings.TrimRight(s.config.BaseURL, "/") + "/" + strings.TrimLeft(actionURL, "/")
}

// NotificationBody renders the right-to-left HTML body of a notification email
func NotificationBody(toName, title, message, actionURL string) string {
	var b strings.Builder
	b.WriteString(`<html><body dir="rtl"><div style="font-family: Tahoma, sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">%s</h2>`, html.EscapeString(title))
	if toName != "" {
		fmt.Fprintf(&b, `<p>%s عزیز،</p>`, html.EscapeString(toName))
	}
	fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(message))
	if actionURL != "" {
		fmt.Fprintf(&b, `<p style="text-align: center; margin: 30px 0;"><a href="%s" style="background-color: #e0a526; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">مشاهده</a></p>`,
			html.EscapeString(actionURL))
	}
	b.WriteString(`<p>ASL Market</p></div></body></html>`)
	return b.String()
}

// BuildMessage assembles the raw RFC 822 message
func BuildMessage(fromName, fromEmail, toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), fromEmail),
		"To":           toEmail,
		"Subject":      mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := BuildMessage(s.config.FromName, s.config.FromEmail, toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
