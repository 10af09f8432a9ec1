package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmationEmailData holds data for the payment confirmation email.
type RegistrationConfirmationEmailData struct {
	Email             string
	FullName          string
	RegistrationID    string
	ParticipationType string
	AmountPaid        string
	Currency          string
	PaymentReference  string
	EventTitle        string
	EventDate         string
	EventTime         string
	EventLocation     string
	QRCodeURL         string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
}
