// Package astrology содержит бизнес-логику ответов на вопросы: учёт квоты,
// кеширование и обращение к провайдеру генерации.
package astrology

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jyotishdesk/jyotish-api/internal/aiprovider"
	"github.com/jyotishdesk/jyotish-api/internal/lib/sl"
	"github.com/jyotishdesk/jyotish-api/internal/metrics"
	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

// ErrPaymentRequired бесплатные вопросы по модулю исчерпаны.
var ErrPaymentRequired = errors.New("no questions remaining")

// fallbackAnswer статичный ответ при ошибке провайдера. Ошибка не
// поднимается к клиенту и не ретраится.
const fallbackAnswer = "I apologize, but I am unable to provide an astrological reading at this moment. Please try again later."

// answerCacheTTL время жизни кешированного ответа провайдера.
const answerCacheTTL = time.Hour

// Unlimited значение questions_remaining в ответе для премиум-аккаунтов.
const Unlimited = "unlimited"

// Repository определяет методы хранилища, нужные для ответа на вопрос.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// DecrementQuestions атомарно списывает вопрос; false при исчерпании.
	DecrementQuestions(ctx context.Context, userUID, module string) (int, bool, error)
	CreateChat(ctx context.Context, chat models.Chat) (int, error)
}

// Cache описывает методы для кэширования ответов провайдера.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Provider описывает внешний сервис генерации ответов.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Answer результат ответа на вопрос. QuestionsRemaining — число для
// бесплатного тарифа или строка "unlimited" для премиума.
type Answer struct {
	Response           string
	QuestionsRemaining any
}

// AstrologyService реализует путь вопрос-ответ.
type AstrologyService struct {
	repo     Repository
	cache    Cache
	provider Provider
	log      *slog.Logger
}

// New создает новый экземпляр AstrologyService.
func New(repo Repository, cache Cache, provider Provider, log *slog.Logger) *AstrologyService {
	return &AstrologyService{
		repo:     repo,
		cache:    cache,
		provider: provider,
		log:      log,
	}
}

// Ask отвечает на вопрос пользователя по модулю.
//
// Для непремиум-аккаунтов сначала атомарно списывается бесплатный вопрос;
// при исчерпании возвращается ErrPaymentRequired и ни провайдер, ни история
// чатов не затрагиваются. Премиум-аккаунты (план premium или annual) квоту
// не расходуют.
func (s *AstrologyService) Ask(ctx context.Context, userUID, module string, req models.DummyQuestion) (*Answer, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	isPremium := sub.IsPremium()

	var remaining any = Unlimited
	if !isPremium {
		left, ok, err := s.repo.DecrementQuestions(ctx, userUID, module)
		if err != nil {
			return nil, err
		}
		if !ok {
			metrics.QuotaExhausted.WithLabelValues(module).Inc()
			return nil, ErrPaymentRequired
		}
		remaining = left
	}

	details := mergeBirthDetails(user, req.BirthDetails)
	answerText := s.generate(ctx, module, req.Question, details)

	if _, err := s.repo.CreateChat(ctx, models.Chat{
		UserUID:  userUID,
		Module:   module,
		Question: req.Question,
		Answer:   answerText,
	}); err != nil {
		return nil, err
	}

	metrics.QuestionsAnswered.WithLabelValues(module).Inc()
	return &Answer{
		Response:           answerText,
		QuestionsRemaining: remaining,
	}, nil
}

// generate возвращает ответ провайдера, используя кеш. Ключ строится из
// модуля, вопроса и сериализованных данных рождения без нормализации.
// Ошибка провайдера заменяется статичным ответом.
func (s *AstrologyService) generate(ctx context.Context, module, question string, details models.BirthDetails) string {
	cacheKey := aiprovider.CacheKey(module, question, details)

	var cached string
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read answer cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		metrics.AnswerCacheHits.Inc()
		return cached
	}

	answer, err := s.provider.Complete(ctx,
		aiprovider.SystemPrompt(module),
		aiprovider.UserPrompt(question, details))
	if err != nil {
		s.log.Error("provider failed to generate answer", sl.Err(err))
		return fallbackAnswer
	}

	if err := s.cache.Set(ctx, cacheKey, answer, answerCacheTTL); err != nil {
		s.log.Warn("failed to cache answer", slog.String("key", cacheKey), sl.Err(err))
	}
	return answer
}

// mergeBirthDetails собирает данные рождения: переопределения из запроса
// имеют приоритет над профилем пользователя.
func mergeBirthDetails(user *models.User, override *models.BirthDetails) models.BirthDetails {
	details := models.BirthDetails{
		Name:       user.Name,
		BirthDate:  user.BirthDate,
		BirthTime:  user.BirthTime,
		BirthPlace: user.BirthPlace,
		Gender:     user.Gender,
	}
	if override == nil {
		return details
	}
	if override.BirthDate != "" {
		details.BirthDate = override.BirthDate
	}
	if override.BirthTime != "" {
		details.BirthTime = override.BirthTime
	}
	if override.BirthPlace != "" {
		details.BirthPlace = override.BirthPlace
	}
	if override.Gender != "" {
		details.Gender = override.Gender
	}
	return details
}
