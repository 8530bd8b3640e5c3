// Package sender содержит сервис отправки почтовых квитанций об оплате.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/lib/smtp"
	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// Transport описывает SMTP-транспорт для отправки писем.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// SenderService отправляет квитанции об успешной оплате.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPaymentReceipt обрабатывает событие из очереди и отправляет
// квитанцию на почту плательщика.
func (s *SenderService) SendPaymentReceipt(body []byte) error {
	var event models.ReceiptEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal receipt event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Your JyotishDesk payment receipt"
	bodyText := fmt.Sprintf(
		"Hello, %s!\n\nWe have received your payment of %d %s (payment id %s).\n\n%s\n\nThank you for using JyotishDesk.",
		event.Name, event.Amount, event.Currency, event.PaymentID, describePurchase(event))

	return s.sendEmail(to, subject, bodyText)
}

// describePurchase формирует строку описания покупки для текста письма.
func describePurchase(event models.ReceiptEvent) string {
	switch event.Plan {
	case models.PlanAnnual:
		return "Your annual subscription is now active: unlimited questions across all modules for one year."
	case models.PlanPremium:
		return "Your premium subscription is now active: unlimited questions across all modules for one month."
	default:
		return fmt.Sprintf("Unlimited questions are now unlocked for the %s module.", event.Module)
	}
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("receipt email sent", "to", to)
	return nil
}
