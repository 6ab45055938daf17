package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// SMTPConfig holds the submission endpoint and sender credentials.
type SMTPConfig struct {
	Sender   string
	Password string
	Server   string
	Port     int
}

// SMTPMailer submits reports through a STARTTLS SMTP endpoint.
type SMTPMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) (*SMTPMailer, error) {
	if config.Sender == "" {
		return nil, errors.New("sender address not configured")
	}
	if config.Password == "" {
		return nil, errors.New("sender password not configured")
	}
	if config.Server == "" {
		return nil, errors.New("smtp server not configured")
	}
	return &SMTPMailer{config: config}, nil
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, r Report) error {
	if len(r.PrimaryRecipients) == 0 {
		return errors.New("no primary recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := BuildMessage(m.config.Sender, r)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	auth := smtp.PlainAuth("", m.config.Sender, m.config.Password, m.config.Server)
	recipients := append(append([]string(nil), r.PrimaryRecipients...), r.CCRecipients...)

	if err := smtp.SendMail(addr, auth, m.config.Sender, recipients, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	slog.InfoContext(ctx, "Campaign report email sent",
		"recipients", len(recipients),
		"report_date", r.Date)
	return nil
}

// BuildMessage assembles the MIME message: plaintext body in the first
// part, the document report attached when present.
func BuildMessage(sender string, r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(r.PrimaryRecipients, ", "))
	if len(r.CCRecipients) > 0 {
		fmt.Fprintf(&buf, "CC: %s\r\n", strings.Join(r.CCRecipients, ", "))
	}
	fmt.Fprintf(&buf, "Subject: Campaign Status Report - %s\r\n", r.Date)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/plain; charset=utf-8")
	body, err := w.CreatePart(bodyHeader)
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(r.Body)); err != nil {
		return nil, err
	}

	if len(r.Attachment) > 0 {
		attachHeader := textproto.MIMEHeader{}
		attachHeader.Set("Content-Type", "application/octet-stream")
		attachHeader.Set("Content-Transfer-Encoding", "base64")
		attachHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.AttachmentName))
		attach, err := w.CreatePart(attachHeader)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(r.Attachment)
		if _, err := attach.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
