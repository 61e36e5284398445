package service

import (
	"context"
	"fmt"

	"securestore-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendRequestReceived(ctx context.Context, email, name, orgName string, reqType domain.RequestType) error {
	subject := fmt.Sprintf("A %s request concerning you was submitted", reqType)
	body := fmt.Sprintf("Hello %s,\n\nA %s request concerning you has been submitted", displayName(name), reqType)
	if orgName != "" {
		body += fmt.Sprintf(" for the organization %q", orgName)
	}
	body += ".\n\nYou will be notified once an administrator has made a decision.\n\nBest regards,\nThe SecureStore Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendRequestDecision(ctx context.Context, email, name, orgName string, status domain.RequestStatus, message string) error {
	subject := fmt.Sprintf("Your request was %s", status)
	body := fmt.Sprintf("Hello %s,\n\nYour request", displayName(name))
	if orgName != "" {
		body += fmt.Sprintf(" for the organization %q", orgName)
	}
	body += fmt.Sprintf(" has been %s.", status)
	if message != "" {
		body += fmt.Sprintf("\n\nNote from the requester: %s", message)
	}
	body += "\n\nBest regards,\nThe SecureStore Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
