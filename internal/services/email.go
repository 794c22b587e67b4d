package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// EmailService delivers transactional mail through the Resend HTTP API.
type EmailService struct {
	client  *resend.Client
	apiKey  string
	from    string
	replyTo string
}

func NewEmailService(apiKey, from, replyTo string) *EmailService {
	if apiKey == "" {
		log.Println("⚠ RESEND_API_KEY not set. Email delivery will fail until it is configured.")
	}
	return &EmailService{
		client:  resend.NewClient(apiKey),
		apiKey:  apiKey,
		from:    from,
		replyTo: replyTo,
	}
}

func (s *EmailService) send(ctx context.Context, to, subject, html, text string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not set")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	if s.replyTo != "" {
		params.ReplyTo = s.replyTo
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

// formatCodeForHTML spaces an OTP code for readability.
func formatCodeForHTML(code string) string {
	var digits strings.Builder
	for _, ch := range code {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	c := digits.String()
	switch len(c) {
	case 6:
		return c[:3] + "&nbsp;&nbsp;" + c[3:]
	case 8:
		return c[:4] + "&nbsp;&nbsp;" + c[4:]
	}
	return c
}

// sendCode is the shared sender for all code intents (login/verify/reset/delete).
func (s *EmailService) sendCode(ctx context.Context, to, subject, code string) error {
	html := fmt.Sprintf(`
    <div style="font-family:system-ui,-apple-system,Segoe UI,Roboto,sans-serif;line-height:1.45">
      <h2 style="margin:0 0 12px 0">%s</h2>
      <p style="margin:0 0 12px 0">Enter this code in the app. It expires in a few minutes.</p>
      <div style="font-size:28px;font-weight:700;letter-spacing:6px;margin:12px 0 16px 0">
        %s
      </div>
      <p style="color:#666;font-size:12px;margin:12px 0 0 0">
        If you didn't request this, you can safely ignore this email.
      </p>
    </div>`, subject, formatCodeForHTML(code))

	text := fmt.Sprintf("%s\nYour code: %s\nIf you didn't request this, ignore this email.", subject, code)

	return s.send(ctx, to, subject, html, text)
}

func (s *EmailService) SendLoginCode(ctx context.Context, to, code string) error {
	return s.sendCode(ctx, to, "Your MyCabinet code", code)
}

func (s *EmailService) SendVerifyCode(ctx context.Context, to, code string) error {
	return s.sendCode(ctx, to, "Verify your email — code", code)
}

func (s *EmailService) SendResetCode(ctx context.Context, to, code string) error {
	return s.sendCode(ctx, to, "Reset code", code)
}

func (s *EmailService) SendDeleteCode(ctx context.Context, to, code string) error {
	return s.sendCode(ctx, to, "Confirm deletion code", code)
}

func (s *EmailService) SendPasswordChangedNotice(ctx context.Context, to string) error {
	subject := "MyCabinet: Your password was changed"
	html := `
    <div style="font-family:system-ui,-apple-system,Segoe UI,Roboto,sans-serif;line-height:1.45">
      <h2 style="margin:0 0 12px 0">Password changed</h2>
      <p style="margin:0">Your MyCabinet password was just changed.
      If this wasn't you, reset it immediately.</p>
    </div>`
	text := "Your MyCabinet password was changed. If this wasn't you, reset it immediately."
	return s.send(ctx, to, subject, html, text)
}

func (s *EmailService) SendAccountDeletedNotice(ctx context.Context, to string) error {
	subject := "MyCabinet: Your account has been deleted"
	html := `
    <div style="font-family:system-ui,-apple-system,Segoe UI,Roboto,sans-serif;line-height:1.45">
      <h2 style="margin:0 0 12px 0">Account Deleted</h2>
      <p style="margin:0 0 12px 0">Your MyCabinet account has been permanently deleted.</p>
      <p style="margin:0 0 12px 0">All your data has been removed from our servers.</p>
      <p style="color:#666;font-size:12px;margin:12px 0 0 0">
        If you didn't request this, please contact support immediately.
      </p>
    </div>`
	text := "Your MyCabinet account has been deleted.\nAll your data has been removed.\nIf you didn't request this, please contact support."
	return s.send(ctx, to, subject, html, text)
}
