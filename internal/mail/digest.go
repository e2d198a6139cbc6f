package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/nwert/folio/internal/store"
)

// Digest is a rendered daily summary of contact submissions.
type Digest struct {
	Subject string
	HTML    string
	Text    string
}

// RenderDigest formats the day's submissions into an HTML and plain-text
// summary. Submission fields are escaped in the HTML body; they are
// caller-provided text.
func RenderDigest(submissions []store.Submission) Digest {
	n := len(submissions)
	plural := ""
	if n != 1 {
		plural = "s"
	}

	var htmlBody strings.Builder
	htmlBody.WriteString("<h2>Daily Contact Form Summary</h2>\n")
	fmt.Fprintf(&htmlBody, "<p>You received <strong>%d</strong> new contact form submission%s today.</p>\n", n, plural)
	for i, sub := range submissions {
		fmt.Fprintf(&htmlBody, `<div style="border: 1px solid #e0e0e0; padding: 16px; margin: 16px 0; border-radius: 8px;">`+"\n")
		fmt.Fprintf(&htmlBody, "<h3>Submission #%d</h3>\n", i+1)
		fmt.Fprintf(&htmlBody, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(sub.Name))
		fmt.Fprintf(&htmlBody, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(sub.Email))
		htmlBody.WriteString("<p><strong>Message:</strong></p>\n")
		fmt.Fprintf(&htmlBody, `<p style="background: #f5f5f5; padding: 12px; border-radius: 4px; white-space: pre-wrap;">%s</p>`+"\n", html.EscapeString(sub.Message))
		fmt.Fprintf(&htmlBody, "<p><strong>Received:</strong> %s</p>\n", sub.CreatedAt.UTC().Format("Jan 2, 2006 15:04 MST"))
		htmlBody.WriteString("</div>\n")
	}
	htmlBody.WriteString(`<hr style="margin: 24px 0;" />` + "\n")
	htmlBody.WriteString(`<p style="color: #666; font-size: 14px;">This is an automated summary from your portfolio contact form.</p>`)

	var text strings.Builder
	text.WriteString("Daily Contact Form Summary\n\n")
	fmt.Fprintf(&text, "You received %d new contact form submission%s today.\n\n", n, plural)
	for i, sub := range submissions {
		fmt.Fprintf(&text, "Submission #%d\n", i+1)
		fmt.Fprintf(&text, "Name: %s\n", sub.Name)
		fmt.Fprintf(&text, "Email: %s\n", sub.Email)
		fmt.Fprintf(&text, "Message: %s\n", sub.Message)
		fmt.Fprintf(&text, "Received: %s\n\n---\n\n", sub.CreatedAt.UTC().Format("Jan 2, 2006 15:04 MST"))
	}
	text.WriteString("This is an automated summary from your portfolio contact form.\n")

	return Digest{
		Subject: fmt.Sprintf("Portfolio Contact Summary - %d new submission%s", n, plural),
		HTML:    htmlBody.String(),
		Text:    text.String(),
	}
}
