package services

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

// ResetEmailStats is the activity summary shown in the reset email.
type ResetEmailStats struct {
	VideosProcessed int
	HoursSaved      int
	QuizzesCreated  int
	NotesCreated    int
}

func (s *EmailService) SendPasswordResetEmail(to, name, token string, stats ResetEmailStats) error {
	resetURL := fmt.Sprintf("%s/password-reset/%s", s.frontendURL, token)
	if name == "" {
		name = "User"
	}

	subject := "NoteNexus - Password Reset Request"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">NoteNexus Password Reset</h2>
    <p>Hi %s,</p>
    <p>We've received a request to reset your password.</p>
    <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0;">Your NoteNexus Stats</h3>
      <table style="width: 100%%; font-size: 14px;">
        <tr>
          <td><strong>%d</strong><br><span style="color: #6b7280; font-size: 12px;">Videos Processed</span></td>
          <td><strong>%d</strong><br><span style="color: #6b7280; font-size: 12px;">Hours Saved</span></td>
        </tr>
        <tr>
          <td><strong>%d</strong><br><span style="color: #6b7280; font-size: 12px;">Notes Created</span></td>
          <td><strong>%d</strong><br><span style="color: #6b7280; font-size: 12px;">Quizzes Created</span></td>
        </tr>
      </table>
    </div>
    <p>To reset your password, click the button below:</p>
    <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #2563eb; color: white; text-decoration: none; border-radius: 6px;">
      Reset Password
    </a>
    <p>This link will expire in 1 hour. If you didn't request this, you can safely ignore this email.</p>
  </div>
</body>
</html>`, html.EscapeString(name), stats.VideosProcessed, stats.HoursSaved, stats.NotesCreated, stats.QuizzesCreated, resetURL)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		log.Printf("📧 Body:\n%s", htmlBody)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
