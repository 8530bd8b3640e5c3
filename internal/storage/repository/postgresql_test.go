package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, models.User{
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	// Регистрация выдает права по всем шести модулям.
	entitlements, err := storage.ListEntitlements(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entitlements, len(models.Modules))
	for _, e := range entitlements {
		assert.Equal(t, models.FreeQuestions, e.QuestionsRemaining)
		assert.False(t, e.IsPremium)
	}

	// И бесплатную подписку.
	sub, err := storage.GetSubscription(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.True(t, sub.IsActive)
	assert.Nil(t, sub.EndDate)
}

func TestStorage_RegisterUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	registerTestUser(t, storage, "asha@example.com")

	_, err := storage.RegisterUser(ctx, models.User{
		Name:         "Another",
		Email:        "asha@example.com",
		PasswordHash: "otherhash",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	got, err := storage.GetUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "Test User", got.Name)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	got, err := storage.UpdateProfile(ctx, uid, models.DummyProfileUpdate{
		BirthDate:  "1990-05-15",
		BirthPlace: "Mumbai",
	})
	require.NoError(t, err)
	assert.Equal(t, "1990-05-15", got.BirthDate)
	assert.Equal(t, "Mumbai", got.BirthPlace)
	// Незаполненные поля не затираются.
	assert.Equal(t, "Test User", got.Name)

	// Повторное обновление одного поля сохраняет остальные.
	got, err = storage.UpdateProfile(ctx, uid, models.DummyProfileUpdate{
		Gender: "female",
	})
	require.NoError(t, err)
	assert.Equal(t, "female", got.Gender)
	assert.Equal(t, "1990-05-15", got.BirthDate)
	assert.Equal(t, "Mumbai", got.BirthPlace)
}

func TestStorage_DecrementQuestions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	// Три бесплатных вопроса списываются по одному.
	for want := models.FreeQuestions - 1; want >= 0; want-- {
		remaining, ok, err := storage.DecrementQuestions(ctx, uid, "kundli")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, remaining)
	}

	// Четвертое списание не проходит, счетчик не уходит в минус.
	_, ok, err := storage.DecrementQuestions(ctx, uid, "kundli")
	require.NoError(t, err)
	assert.False(t, ok)

	entitlement, err := storage.GetEntitlement(ctx, uid, "kundli")
	require.NoError(t, err)
	assert.Equal(t, 0, entitlement.QuestionsRemaining)

	// Другие модули не затронуты.
	entitlement, err = storage.GetEntitlement(ctx, uid, "career")
	require.NoError(t, err)
	assert.Equal(t, models.FreeQuestions, entitlement.QuestionsRemaining)
}

func TestStorage_DecrementQuestions_UnknownModule(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	_, ok, err := storage.DecrementQuestions(ctx, uid, "palmistry")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_CapturePayment_ModulePurchase(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")
	payment := createTestPayment(t, storage, uid, "career", models.PriceSingle)

	err := storage.CapturePayment(ctx, payment, "pay_1",
		[]byte(`{"razorpay_payment_id":"pay_1"}`), models.PlanSingle, time.Time{})
	require.NoError(t, err)

	captured, err := storage.GetPaymentByOrderID(ctx, uid, payment.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, captured.Status)
	assert.Equal(t, "pay_1", captured.PaymentID)

	// Модуль становится безлимитным.
	entitlement, err := storage.GetEntitlement(ctx, uid, "career")
	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedSentinel, entitlement.QuestionsRemaining)
	assert.True(t, entitlement.IsPremium)

	// Подписка на весь аккаунт остается бесплатной.
	sub, err := storage.GetSubscription(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
}

func TestStorage_CapturePayment_Subscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")
	payment := createTestPayment(t, storage, uid, models.ModuleAll, models.PricePremium)

	endDate := time.Now().AddDate(0, 1, 0)
	err := storage.CapturePayment(ctx, payment, "pay_2",
		[]byte(`{"razorpay_payment_id":"pay_2"}`), models.PlanPremium, endDate)
	require.NoError(t, err)

	sub, err := storage.GetSubscription(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, sub.Plan)
	assert.True(t, sub.IsActive)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, endDate, *sub.EndDate, time.Second)
}

func TestStorage_CapturePayment_Replay(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")
	payment := createTestPayment(t, storage, uid, "gemstone", models.PriceSingle)

	err := storage.CapturePayment(ctx, payment, "pay_3",
		[]byte(`{}`), models.PlanSingle, time.Time{})
	require.NoError(t, err)

	// Повторное подтверждение того же платежа ничего не меняет.
	err = storage.CapturePayment(ctx, payment, "pay_other",
		[]byte(`{"replayed":true}`), models.PlanSingle, time.Time{})
	require.NoError(t, err)

	captured, err := storage.GetPaymentByOrderID(ctx, uid, payment.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "pay_3", captured.PaymentID)
	assert.Equal(t, models.PaymentStatusCaptured, captured.Status)
}

func TestStorage_GetPaymentByOrderID_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	_, err := storage.GetPaymentByOrderID(ctx, uid, "order_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_GetPaymentByOrderID_OtherUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	owner := registerTestUser(t, storage, "owner@example.com")
	other := registerTestUser(t, storage, "other@example.com")
	payment := createTestPayment(t, storage, owner, "business", models.PriceSingle)

	// Чужой заказ недоступен.
	_, err := storage.GetPaymentByOrderID(ctx, other, payment.OrderID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Chats(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	uid := registerTestUser(t, storage, "asha@example.com")

	first, err := storage.CreateChat(ctx, models.Chat{
		UserUID:  uid,
		Module:   "kundli",
		Question: "What does my chart say?",
		Answer:   "The stars favor patience.",
	})
	require.NoError(t, err)
	require.NotZero(t, first)

	// Вторая запись получает более позднее время создания.
	_, err = storage.DB.Exec(
		`INSERT INTO chats (user_uid, module, question, answer, created_at)
		 VALUES ($1, $2, $3, $4, NOW() + INTERVAL '1 second')`,
		uid, "career", "When should I change jobs?", "Wait for spring.")
	require.NoError(t, err)

	chats, err := storage.ListChats(ctx, uid)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	// Новые записи идут первыми.
	assert.Equal(t, "career", chats[0].Module)
	assert.Equal(t, "kundli", chats[1].Module)
	assert.Equal(t, "What does my chart say?", chats[1].Question)
}
