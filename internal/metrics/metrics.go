// Package metrics содержит счётчики prometheus для доменных событий.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestionsAnswered количество отвеченных вопросов по модулям.
	QuestionsAnswered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_questions_answered_total",
		Help: "Total number of answered astrology questions per module.",
	}, []string{"module"})

	// QuotaExhausted количество отказов из-за исчерпанной квоты.
	QuotaExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_quota_exhausted_total",
		Help: "Total number of requests rejected with payment required.",
	}, []string{"module"})

	// PaymentsCaptured количество подтверждённых платежей.
	PaymentsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jyotish_payments_captured_total",
		Help: "Total number of captured payments.",
	})

	// AnswerCacheHits попадания в кеш ответов провайдера.
	AnswerCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jyotish_answer_cache_hits_total",
		Help: "Total number of answers served from cache.",
	})
)
