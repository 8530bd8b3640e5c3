package sender

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jyotishdesk/jyotish-api/internal/lib/smtp"
	"github.com/jyotishdesk/jyotish-api/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock

	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	m.written = append(m.written, p...)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSenderService_SendPaymentReceipt(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport) *MockSMTPWriter
		checkBody     func(*testing.T, string)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - module purchase receipt",
			body: []byte(`{"email":"asha@example.com","name":"Asha","module":"career","plan":"single","amount":499,"currency":"INR","payment_id":"pay_1"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@jyotishdesk.com").Return(nil).Once()
				mockClient.On("Rcpt", "asha@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
				return mockWriter
			},
			checkBody: func(t *testing.T, msg string) {
				assert.Contains(t, msg, "Subject: Your JyotishDesk payment receipt")
				assert.Contains(t, msg, "Hello, Asha!")
				assert.Contains(t, msg, "499 INR")
				assert.Contains(t, msg, "unlocked for the career module")
			},
			expectedError: false,
		},
		{
			name: "success - annual subscription receipt",
			body: []byte(`{"email":"asha@example.com","name":"Asha","module":"all","plan":"annual","amount":4999,"currency":"INR","payment_id":"pay_2"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@jyotishdesk.com").Return(nil).Once()
				mockClient.On("Rcpt", "asha@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
				return mockWriter
			},
			checkBody: func(t *testing.T, msg string) {
				assert.Contains(t, msg, "annual subscription is now active")
			},
			expectedError: false,
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockTransport) *MockSMTPWriter {
				// No transport calls expected for invalid JSON
				return nil
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "SMTP connection error",
			body: []byte(`{"email":"asha@example.com","name":"Asha","module":"career","plan":"single","amount":499,"currency":"INR","payment_id":"pay_1"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
				return nil
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, newNoopLogger())

			writer := tt.setupMocks(transport)

			err := service.SendPaymentReceipt(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			if tt.checkBody != nil && writer != nil {
				tt.checkBody(t, string(writer.written))
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_SMTPErrorHandling(t *testing.T) {
	body := []byte(`{"email":"asha@example.com","name":"Asha","module":"career","plan":"single","amount":499,"currency":"INR","payment_id":"pay_1"}`)

	tests := []struct {
		name         string
		setupMocks   func(*MockTransport)
		errorMessage string
	}{
		{
			name: "SMTP Mail error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@jyotishdesk.com").Return(errors.New("mail error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "mail error",
		},
		{
			name: "SMTP Rcpt error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@jyotishdesk.com").Return(nil).Once()
				mockClient.On("Rcpt", "asha@example.com").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "rcpt error",
		},
		{
			name: "SMTP Data error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("noreply@jyotishdesk.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@jyotishdesk.com").Return(nil).Once()
				mockClient.On("Rcpt", "asha@example.com").Return(nil).Once()
				mockClient.On("Data").Return(nil, errors.New("data error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, newNoopLogger())

			tt.setupMocks(transport)

			err := service.SendPaymentReceipt(body)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMessage)

			transport.AssertExpectations(t)
		})
	}
}

func TestDescribePurchase(t *testing.T) {
	assert.Contains(t,
		describePurchase(models.ReceiptEvent{Plan: models.PlanPremium}), "one month")
	assert.Contains(t,
		describePurchase(models.ReceiptEvent{Plan: models.PlanAnnual}), "one year")
	assert.Contains(t,
		describePurchase(models.ReceiptEvent{Plan: models.PlanSingle, Module: "gemstone"}), "gemstone")
}
