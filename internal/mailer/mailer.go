// Package mailer sends the deal submission summary email: the HTML summary
// card, a preview table of the standardized data, and the CSV exports as
// attachments.
package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"rehub/dealsub/internal/export"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/transform"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DefaultSender is used when no sender address is configured.
const DefaultSender = "noreply@rehub.com"

// previewLimit caps the rows and columns shown inline in the email body; the
// complete data travels as an attachment.
const previewLimit = 10

// Message is everything one summary email carries.
type Message struct {
	Recipient   string
	TextSummary string
	HTMLSummary string
	DealHeader  *models.DealHeader
	Rows        []models.OutputRow
	Headers     []string
}

// Mailer sends summary emails through SendGrid.
type Mailer struct {
	client *sendgrid.Client
	sender string
	logger logging.Logger
}

// New builds a mailer. An empty sender falls back to the default address.
func New(apiKey, sender string, logger logging.Logger) *Mailer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if sender == "" {
		sender = DefaultSender
	}
	return &Mailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
		logger: logger,
	}
}

// SendSummary sends one summary email. A non-2xx response from SendGrid is
// an error.
func (m *Mailer) SendSummary(ctx context.Context, msg Message) error {
	email, err := m.build(msg)
	if err != nil {
		return err
	}

	m.logger.Info("Sending summary email",
		logging.Field{Key: logging.FieldRecipient, Value: msg.Recipient},
		logging.Field{Key: logging.FieldCount, Value: len(msg.Rows)})

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		m.logger.WithError(err).Error("Failed to send summary email")
		return fmt.Errorf("error sending summary email: %w", err)
	}
	if resp.StatusCode != 200 && resp.StatusCode != 202 {
		return fmt.Errorf("sending summary email: SendGrid responded with status %d", resp.StatusCode)
	}
	return nil
}

func (m *Mailer) build(msg Message) (*mail.SGMailV3, error) {
	email := mail.NewSingleEmail(
		mail.NewEmail("", m.sender),
		Subject(msg.DealHeader),
		mail.NewEmail("", msg.Recipient),
		msg.TextSummary,
		bodyHTML(msg),
	)

	if len(msg.Rows) > 0 && len(msg.Headers) > 0 {
		data, err := export.DataCSV(msg.Headers, msg.Rows)
		if err != nil {
			return nil, err
		}
		email.AddAttachment(csvAttachment(export.DataFileName, data))
	}

	if msg.DealHeader != nil {
		summary, err := export.SummaryCSV(msg.DealHeader)
		if err != nil {
			return nil, err
		}
		email.AddAttachment(csvAttachment(export.SummaryFileName, summary))
	}

	return email, nil
}

// Subject derives the email subject from the deal name when one was
// extracted.
func Subject(header *models.DealHeader) string {
	if header != nil && header.DealName != "" {
		return "Deal Submission Summary - " + header.DealName
	}
	return "Deal Submission Summary"
}

func csvAttachment(name string, content []byte) *mail.Attachment {
	a := mail.NewAttachment()
	a.SetContent(base64.StdEncoding.EncodeToString(content))
	a.SetType("text/csv")
	a.SetFilename(name)
	a.SetDisposition("attachment")
	return a
}

// bodyHTML wraps the summary card and the preview table in the email shell.
func bodyHTML(msg Message) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">`)
	b.WriteString(`<div style="max-width: 1000px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">`)
	b.WriteString(`<h1 style="color: #1f2937; margin-bottom: 20px;">Deal Submission Summary</h1>`)
	b.WriteString(msg.HTMLSummary)
	b.WriteString(previewTable(msg.Headers, msg.Rows))
	b.WriteString(`<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 12px;">`)
	b.WriteString(`<p>This is an automated email from ReHUB Deal Submissions Platform.</p>`)
	b.WriteString(`<p>Complete data is attached as CSV files.</p>`)
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

func previewTable(headers []string, rows []models.OutputRow) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	shown := headers
	if len(shown) > previewLimit {
		shown = shown[:previewLimit]
	}

	var b strings.Builder
	b.WriteString(`<div style="margin-top: 30px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #1f2937; font-size: 18px; margin-bottom: 16px;">Standardized Data Preview (First %d rows)</h2>`, previewLimit)
	b.WriteString(`<div style="overflow-x: auto;"><table style="width: 100%; border-collapse: collapse; font-size: 12px;">`)
	b.WriteString(`<thead><tr style="background-color: #f3f4f6;">`)
	for _, h := range shown {
		fmt.Fprintf(&b, `<th style="padding: 8px; text-align: left; border: 1px solid #e5e7eb;">%s</th>`, template.HTMLEscapeString(h))
	}
	b.WriteString(`</tr></thead><tbody>`)

	for i, row := range rows {
		if i == previewLimit {
			break
		}
		bg := "#ffffff"
		if i%2 == 1 {
			bg = "#f9fafb"
		}
		fmt.Fprintf(&b, `<tr style="background-color: %s;">`, bg)
		for _, h := range shown {
			fmt.Fprintf(&b, `<td style="padding: 8px; border: 1px solid #e5e7eb;">%s</td>`,
				template.HTMLEscapeString(transform.Stringify(row[h])))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)

	if len(rows) > previewLimit {
		fmt.Fprintf(&b, `<p style="margin-top: 10px; color: #6b7280; font-size: 12px;">Showing %d of %d total rows. See attachment for complete data.</p>`, previewLimit, len(rows))
	}

	b.WriteString(`</div>`)
	return b.String()
}
