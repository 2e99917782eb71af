package eml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMultipartMessage(t *testing.T) {
	raw := strings.Join([]string{
		"From: Alice <alice@example.com>",
		"To: bob@example.com",
		"Subject: quarterly report",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="outer"`,
		"",
		"--outer",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Plain text body.",
		"--outer",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>HTML body.</p>",
		"--outer",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"%PDF-1.4 fake content",
		"--outer--",
		"",
	}, "\r\n")

	parsed := Parse([]byte(raw))

	assert.Equal(t, "Plain text body.", strings.TrimSpace(parsed.TextBody))
	assert.Contains(t, parsed.HTMLBody, "<p>HTML body.</p>")

	require.Len(t, parsed.Attachments, 1)
	assert.Equal(t, "report.pdf", parsed.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", parsed.Attachments[0].MIMEType)
	assert.Equal(t, int64(len("%PDF-1.4 fake content")), parsed.Attachments[0].Size)
}

func TestParseUnparseableFallsBackToPlainText(t *testing.T) {
	raw := []byte("not a mime message at all")
	parsed := Parse(raw)
	assert.Equal(t, "not a mime message at all", parsed.TextBody)
	assert.Empty(t, parsed.Attachments)
}

func TestDisplayBodyPrefersPlainText(t *testing.T) {
	p := &Parsed{TextBody: "plain", HTMLBody: "<b>html</b>"}
	assert.Equal(t, "plain", p.DisplayBody())

	p = &Parsed{HTMLBody: "<b>html only</b>"}
	assert.Equal(t, "html only", p.DisplayBody())
}

func TestStripHTML(t *testing.T) {
	html := "<div><p>Hello &amp; welcome,</p><p>line two&nbsp;here</p></div>"
	assert.Equal(t, "Hello & welcome,\nline two here", StripHTML(html))
}

func TestStripHTMLCollapsesBlankRuns(t *testing.T) {
	html := "<p>a</p><br><br><br><p>b</p>"
	assert.Equal(t, "a\n\nb", StripHTML(html))
}

func TestStripHTMLEmpty(t *testing.T) {
	assert.Empty(t, StripHTML(""))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "2.0 KB", FormatSize(2048))
	assert.Equal(t, "1.5 MB", FormatSize(3*1024*1024/2))
}
