// Package user содержит логику кабинета пользователя: профиль, история
// вопросов и статус квот по модулям.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/jyotishdesk/jyotish-api/internal/models"
	"github.com/jyotishdesk/jyotish-api/internal/storage/repository"
)

// Repository определяет методы хранилища для кабинета пользователя.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.User, error)
	ListChats(ctx context.Context, userUID string) ([]*models.Chat, error)
	ListEntitlements(ctx context.Context, userUID string) ([]*models.Entitlement, error)
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// SubscriptionSummary краткое описание подписки в ответе API.
type SubscriptionSummary struct {
	Plan     string     `json:"plan"`
	IsActive bool       `json:"is_active"`
	EndDate  *time.Time `json:"end_date,omitempty"`
}

// QuestionStatus статус квот пользователя: по каждому модулю остаток
// вопросов и признак безлимита, плюс сводка по подписке на аккаунт.
type QuestionStatus struct {
	Modules      map[string]models.ModuleStatus `json:"modules"`
	Subscription SubscriptionSummary            `json:"subscription"`
}

// UserService реализует операции кабинета пользователя.
type UserService struct {
	repo Repository
}

// New создает новый экземпляр UserService.
func New(repo Repository) *UserService {
	return &UserService{repo: repo}
}

// GetProfile возвращает профиль пользователя.
func (s *UserService) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// UpdateProfile обновляет профиль, пустые поля остаются без изменений.
func (s *UserService) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.User, error) {
	return s.repo.UpdateProfile(ctx, userUID, req)
}

// ListChats возвращает историю вопросов пользователя, новые первыми.
func (s *UserService) ListChats(ctx context.Context, userUID string) ([]*models.Chat, error) {
	return s.repo.ListChats(ctx, userUID)
}

// GetQuestionStatus собирает остатки вопросов по всем модулям. Для
// премиум-подписки остаток каждого модуля отображается как "unlimited"
// независимо от счётчиков в базе.
func (s *UserService) GetQuestionStatus(ctx context.Context, userUID string) (*QuestionStatus, error) {
	entitlements, err := s.repo.ListEntitlements(ctx, userUID)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	isPremium := sub.IsPremium()

	statuses := make(map[string]models.ModuleStatus, len(entitlements))
	for _, e := range entitlements {
		status := models.ModuleStatus{
			QuestionsRemaining: e.QuestionsRemaining,
			IsPremium:          e.IsPremium,
		}
		if isPremium || e.IsPremium {
			status.QuestionsRemaining = "unlimited"
		}
		statuses[e.Module] = status
	}

	summary := SubscriptionSummary{Plan: models.PlanFree}
	if sub != nil {
		summary = SubscriptionSummary{
			Plan:     sub.Plan,
			IsActive: sub.IsActive,
			EndDate:  sub.EndDate,
		}
	}
	return &QuestionStatus{
		Modules:      statuses,
		Subscription: summary,
	}, nil
}
