package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jyotishdesk/jyotish-api/internal/models"
)

// RegisterUser сохраняет нового пользователя вместе с шестью строками прав
// на вопросы (по 3 бесплатных на модуль) и бесплатной подпиской в одной
// транзакции и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO users (name, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := tx.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, module := range models.Modules {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO module_questions (user_uid, module, questions_remaining)
			 VALUES ($1, $2, $3)`,
			newUID, module, models.FreeQuestions)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (user_uid, plan, is_active)
		 VALUES ($1, $2, true)`,
		newUID, models.PlanFree)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash,
				  COALESCE(birth_date, ''), COALESCE(birth_time, ''),
				  COALESCE(birth_place, ''), COALESCE(gender, ''),
				  created_at, updated_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.BirthDate, &u.BirthTime, &u.BirthPlace, &u.Gender,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash,
				  COALESCE(birth_date, ''), COALESCE(birth_time, ''),
				  COALESCE(birth_place, ''), COALESCE(gender, ''),
				  created_at, updated_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.BirthDate, &u.BirthTime, &u.BirthPlace, &u.Gender,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateProfile обновляет поля профиля пользователя. Пустые значения
// сохраняют текущее содержимое колонки.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = COALESCE(NULLIF($1, ''), name),
				  birth_date = COALESCE(NULLIF($2, ''), birth_date),
				  birth_time = COALESCE(NULLIF($3, ''), birth_time),
				  birth_place = COALESCE(NULLIF($4, ''), birth_place),
				  gender = COALESCE(NULLIF($5, ''), gender),
				  updated_at = NOW()
			  WHERE uid = $6
			  RETURNING uid, name, email, password_hash,
				  COALESCE(birth_date, ''), COALESCE(birth_time, ''),
				  COALESCE(birth_place, ''), COALESCE(gender, ''),
				  created_at, updated_at`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query,
		req.Name, req.BirthDate, req.BirthTime, req.BirthPlace, req.Gender, userUID)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.BirthDate, &u.BirthTime, &u.BirthPlace, &u.Gender,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
