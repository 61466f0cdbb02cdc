package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/starford/folio/internal/contact"
)

// Body formats.
const (
	FormatHTML = "html"
	FormatText = "text"
)

var htmlBody = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<div style="font-family: Arial, sans-serif; color: #333333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f7f7f7; border-radius: 10px;">
  <table cellpadding="0" cellspacing="0" style="width: 100%;">
    <tr>
      <td style="background-color: #4a90e2; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1 style="color: #ffffff; font-size: 24px; margin: 0;">{{.Subject}}</h1>
      </td>
    </tr>
    <tr>
      <td style="background-color: #ffffff; padding: 20px; border-radius: 0 0 10px 10px;">
        <p style="font-size: 16px; line-height: 1.5; margin-bottom: 15px;">You've received a new message from your website's contact form:</p>
        <table cellpadding="0" cellspacing="0" style="width: 100%; margin-bottom: 15px;">
          <tr>
            <td style="padding: 10px; background-color: #f0f0f0; font-weight: bold;">Name:</td>
            <td style="padding: 10px; background-color: #f9f9f9;">{{.Name}}</td>
          </tr>
          <tr>
            <td style="padding: 10px; background-color: #f0f0f0; font-weight: bold;">Email:</td>
            <td style="padding: 10px; background-color: #f9f9f9;">{{.Email}}</td>
          </tr>
        </table>
        <p style="font-size: 16px; line-height: 1.5; margin-bottom: 15px;"><strong>Message:</strong></p>
        <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; font-size: 16px; line-height: 1.5; white-space: pre-wrap;">{{.Message}}</div>
      </td>
    </tr>
    <tr>
      <td style="text-align: center; padding: 20px;">
        <p style="font-size: 14px; color: #888888; margin: 0;">This is an automated email. Please do not reply directly to this message.</p>
      </td>
    </tr>
  </table>
</div>
`))

var textBody = texttemplate.Must(texttemplate.New("contact.txt").Parse(`{{.Subject}}

Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}
`))

type bodyData struct {
	contact.Submission
	Subject string
}

// Render renders sub in the given format. User input is escaped in the HTML form.
func Render(format string, sub contact.Submission) (string, error) {
	data := bodyData{Submission: sub, Subject: contact.Subject}
	var buf bytes.Buffer
	switch format {
	case FormatHTML, "":
		if err := htmlBody.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("mail: render html: %w", err)
		}
	case FormatText:
		if err := textBody.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("mail: render text: %w", err)
		}
	default:
		return "", fmt.Errorf("mail: unknown body format %q", format)
	}
	return buf.String(), nil
}
