package email

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/companyintel/research-api/internal/config"
)

func testSender(t *testing.T) *SMTPSender {
	t.Helper()
	return NewSMTPSender(&config.EmailConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Username: "bot@example.com",
		Password: "secret",
		From:     "bot@example.com",
	}, zap.NewNop())
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, testSender(t).IsConfigured())

	empty := NewSMTPSender(&config.EmailConfig{SMTPHost: "smtp.example.com"}, zap.NewNop())
	assert.False(t, empty.IsConfigured())

	var nilSender *SMTPSender
	assert.False(t, nilSender.IsConfigured())
}

func TestBuildMessageWithAttachment(t *testing.T) {
	pdf := bytes.Repeat([]byte("%PDF"), 50)

	msg, err := buildMessage("bot@example.com", "user@example.com", "Company Research Report - Acme",
		"<html><body>report</body></html>", "Acme_multi_source_report_20250102_150405.pdf", pdf)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "From: bot@example.com\r\n")
	assert.Contains(t, text, "To: user@example.com\r\n")
	assert.Contains(t, text, "Subject: Company Research Report - Acme\r\n")
	assert.Contains(t, text, "MIME-Version: 1.0\r\n")
	assert.Contains(t, text, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, text, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, text, "Content-Type: application/pdf")
	assert.Contains(t, text, "Content-Transfer-Encoding: base64")
	assert.Contains(t, text, `Content-Disposition: attachment; filename="Acme_multi_source_report_20250102_150405.pdf"`)

	// Base64 lines are wrapped at 76 characters per RFC 2045.
	encoded := base64.StdEncoding.EncodeToString(pdf)
	assert.NotContains(t, text, encoded)
	assert.Contains(t, text, encoded[:76]+"\r\n"+encoded[76:152])
}

func TestBuildMessageWithoutAttachment(t *testing.T) {
	msg, err := buildMessage("bot@example.com", "user@example.com", "Subject",
		"<html><body>report</body></html>", "report.pdf", nil)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, text, "application/pdf")
	assert.NotContains(t, text, "Content-Disposition")
}

func TestLoadAttachment(t *testing.T) {
	sender := testSender(t)

	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

		data, err := sender.loadAttachment(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), data)
	})

	t.Run("missing file sends without attachment", func(t *testing.T) {
		data, err := sender.loadAttachment(filepath.Join(t.TempDir(), "missing.pdf"))
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("empty path sends without attachment", func(t *testing.T) {
		data, err := sender.loadAttachment("")
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestReportBody(t *testing.T) {
	body := reportBody("Acme Corp", "https://drive.google.com/file/d/abc/view")
	assert.Contains(t, body, "Report Ready: Acme Corp")
	assert.Contains(t, body, `href="https://drive.google.com/file/d/abc/view"`)
	assert.Contains(t, body, "Cloud Storage Access")

	noLink := reportBody("Acme Corp", "")
	assert.Contains(t, noLink, "Report Ready: Acme Corp")
	assert.NotContains(t, noLink, "Cloud Storage Access")

	// Company names come from vendor payloads; markup in them must not reach
	// the recipient unescaped.
	hostile := reportBody("Acme <script>alert(1)</script>", "")
	assert.NotContains(t, hostile, "<script>")
	assert.Contains(t, hostile, "Acme &lt;script&gt;")
}
