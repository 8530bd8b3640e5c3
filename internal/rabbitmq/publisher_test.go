package rabbitmq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

func TestReceiptPublisher_Publish(t *testing.T) {
	if os.Getenv("SKIP_RABBITMQ_TESTS") != "" {
		t.Skip("Skipping RabbitMQ tests in CI")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	amqpURI, cleanup := getTestAmqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetPaymentQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	publisher := NewReceiptPublisher(ch)

	event := models.ReceiptEvent{
		Email:     "asha@example.com",
		Name:      "Asha",
		Module:    "career",
		Plan:      "single",
		Amount:    499,
		Currency:  "INR",
		PaymentID: "pay_1",
	}
	require.NoError(t, publisher.Publish(event))

	// Событие должно дойти до очереди квитанций через exchange payments.
	deliveries, err := ch.Consume("payments.receipts", "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got models.ReceiptEvent
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, event, got)
		assert.Equal(t, "application/json", d.ContentType)
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for receipt event")
	}
}

func TestConsumerMessage_HandleMessages(t *testing.T) {
	if os.Getenv("SKIP_RABBITMQ_TESTS") != "" {
		t.Skip("Skipping RabbitMQ tests in CI")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	amqpURI, cleanup := getTestAmqpURI(ctx, t)
	defer cleanup()

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetPaymentQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	received := make(chan string, 2)
	handler := func(body []byte) error {
		received <- string(body)
		return nil
	}

	err = ConsumerMessage(ctx, ch, "payments.receipts", handler)
	require.NoError(t, err)

	publisher := NewReceiptPublisher(ch)
	require.NoError(t, publisher.Publish(map[string]string{"msg": "hello"}))
	require.NoError(t, publisher.Publish(map[string]string{"msg": "world"}))

	got := make([]string, 0, 2)
	for range 2 {
		select {
		case body := <-received:
			got = append(got, body)
		case <-time.After(10 * time.Second):
			t.Fatal("Timeout waiting for messages to be processed")
		}
	}
	assert.ElementsMatch(t, []string{`{"msg":"hello"}`, `{"msg":"world"}`}, got)
}
