package service

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSSender interface {
	SendSMS(to, body string) error
}

type EmailSender interface {
	SendEmail(toEmail, toName, subject, plainText, html string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender returns nil when any credential is missing.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &TwilioSender{client: client, from: fromNumber}
}

func (t *TwilioSender) SendSMS(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender returns nil when the key or the sender address is missing.
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	if apiKey == "" || fromEmail == "" {
		return nil
	}
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (g *SendGridSender) SendEmail(toEmail, toName, subject, plainText, html string) error {
	from := mail.NewEmail(g.fromName, g.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := g.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// NormalizePhone turns a local Italian number into E.164.
func NormalizePhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", ".", "", "/", "").Replace(strings.TrimSpace(phone))
	switch {
	case phone == "", strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "00"):
		return "+" + phone[2:]
	default:
		return "+39" + phone
	}
}
