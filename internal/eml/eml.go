// Package eml parses raw RFC 822 message exports into displayable bodies
// and attachment metadata for the message source view.
package eml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

// Attachment is metadata about one attached file.
type Attachment struct {
	Filename string
	Size     int64
	MIMEType string
}

// Parsed is the result of parsing a raw message export.
type Parsed struct {
	// TextBody is the text/plain body, empty when absent.
	TextBody string

	// HTMLBody is the text/html body, empty when absent.
	HTMLBody string

	// Attachments lists attachment metadata; content is not retained.
	Attachments []Attachment
}

// DisplayBody returns the plain-text body, falling back to a stripped
// rendering of the HTML body.
func (p *Parsed) DisplayBody() string {
	if p.TextBody != "" {
		return p.TextBody
	}
	return StripHTML(p.HTMLBody)
}

// Parse reads a raw RFC 822 message and extracts the text/plain body,
// text/html body, and attachment metadata. A message that cannot be
// parsed as MIME is treated as plain text in its entirety.
func Parse(raw []byte) *Parsed {
	parsed := &Parsed{}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		parsed.TextBody = string(raw)
		return parsed
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}

			switch {
			case strings.HasPrefix(contentType, "text/plain"):
				parsed.TextBody = string(body)
			case strings.HasPrefix(contentType, "text/html"):
				parsed.HTMLBody = string(body)
			}

		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			contentType, _, _ := h.ContentType()

			// Read to get size without storing content.
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}

			parsed.Attachments = append(parsed.Attachments, Attachment{
				Filename: filename,
				Size:     int64(len(body)),
				MIMEType: contentType,
			})
		}
	}

	return parsed
}

// StripHTML removes HTML tags from a string and decodes common entities,
// providing a basic plain-text rendering.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	var sb strings.Builder
	inTag := false
	for _, r := range result {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	result = sb.String()

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	result = replacer.Replace(result)

	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}

// FormatSize formats a byte size into a human-readable string.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
