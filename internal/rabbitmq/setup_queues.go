package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Exchange имя exchange для событий платежей.
const Exchange = "payments"

// ReceiptsRoutingKey ключ маршрутизации событий о захваченных платежах.
const ReceiptsRoutingKey = "receipts"

// GetPaymentQueues возвращает очереди воркера квитанций.
func GetPaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "payments.receipts", RoutingKey: ReceiptsRoutingKey},
	}
}
