// Package email delivers generated report PDFs over SMTP.
//
// The standard library is used directly: the message is a small multipart
// MIME document (HTML body plus one base64 PDF attachment) sent with
// STARTTLS and plain auth, which net/smtp covers without a dependency.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"

	"github.com/companyintel/research-api/internal/config"
	"go.uber.org/zap"
)

// MaxAttachmentSize is the largest PDF attached inline. Most providers cap
// messages at 25MB; larger reports go out with a storage link only.
const MaxAttachmentSize = 25 * 1024 * 1024

// Sender delivers report emails.
type Sender interface {
	// SendReport emails the PDF at pdfPath to the recipient. When the file is
	// missing or over the size cap, the mail is sent without the attachment.
	SendReport(ctx context.Context, to, companyName, pdfPath, pdfFilename, storageLink string) error
	// IsConfigured reports whether credentials are present.
	IsConfigured() bool
}

// SMTPSender implements Sender over net/smtp.
type SMTPSender struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewSMTPSender creates a new SMTP report sender.
func NewSMTPSender(cfg *config.EmailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: *cfg, logger: logger}
}

// IsConfigured reports whether credentials are present.
func (s *SMTPSender) IsConfigured() bool {
	return s != nil && s.cfg.Username != "" && s.cfg.Password != ""
}

// SendReport emails the PDF report to the recipient.
func (s *SMTPSender) SendReport(ctx context.Context, to, companyName, pdfPath, pdfFilename, storageLink string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Company Research Report - %s", companyName)
	body := reportBody(companyName, storageLink)

	attachment, err := s.loadAttachment(pdfPath)
	if err != nil {
		return err
	}

	msg, err := buildMessage(s.cfg.From, to, subject, body, pdfFilename, attachment)
	if err != nil {
		return fmt.Errorf("failed to build email message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	// smtp.SendMail negotiates STARTTLS when the server advertises it
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Report email sent",
		zap.String("to", to),
		zap.String("company", companyName),
		zap.Bool("attached", attachment != nil),
	)

	return nil
}

// loadAttachment reads the PDF when it exists and is under the size cap.
// Returns nil (no attachment, no error) otherwise; a storage link in the body
// covers the oversized case.
func (s *SMTPSender) loadAttachment(pdfPath string) ([]byte, error) {
	if pdfPath == "" {
		return nil, nil
	}

	info, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("PDF file not found, sending without attachment",
				zap.String("path", pdfPath),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat pdf: %w", err)
	}

	if info.Size() >= MaxAttachmentSize {
		s.logger.Warn("PDF too large to attach, sending link only",
			zap.String("path", pdfPath),
			zap.Int64("size", info.Size()),
		)
		return nil, nil
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return data, nil
}

// buildMessage assembles a multipart/mixed MIME message with an HTML body
// and an optional base64-encoded PDF attachment.
func buildMessage(from, to, subject, htmlBody, pdfFilename string, attachment []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%q\r\n\r\n",
		from, to, subject, writer.Boundary())

	var out bytes.Buffer
	out.WriteString(headers)

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", "text/html; charset=UTF-8")
	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if attachment != nil {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "application/pdf")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfFilename))
		attPart, err := writer.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(attachment)
		// Wrap base64 at 76 characters per RFC 2045
		for len(encoded) > 76 {
			if _, err := attPart.Write([]byte(encoded[:76] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[76:]
		}
		if _, err := attPart.Write([]byte(encoded + "\r\n")); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}
