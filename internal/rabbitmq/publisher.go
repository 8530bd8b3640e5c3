package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReceiptPublisher публикует события квитанций в очередь отправителя писем.
type ReceiptPublisher struct {
	ch *amqp.Channel
}

// NewReceiptPublisher создает новый экземпляр ReceiptPublisher.
func NewReceiptPublisher(ch *amqp.Channel) *ReceiptPublisher {
	return &ReceiptPublisher{ch: ch}
}

// Publish отправляет событие с ключом маршрутизации квитанций.
func (p *ReceiptPublisher) Publish(message any) error {
	return PublishMessage(p.ch, Exchange, ReceiptsRoutingKey, message)
}
