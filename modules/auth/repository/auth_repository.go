package repository

import (
	"context"
	"database/sql"

	"github.com/t0pa/plansync/core/database"
	"github.com/t0pa/plansync/core/logger"
	"github.com/t0pa/plansync/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuthRepository handles user database operations
type AuthRepository struct {
	DB database.Database
}

func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract
type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetDisplayNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, display_name, password)
		VALUES ($1, $2, $3)
		RETURNING id, email, display_name, password, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query, user.Email, user.DisplayName, user.Password)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, display_name, password, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, display_name, password, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

// GetDisplayNamesByIDs resolves display identities for a batch of distinct
// user ids in one query.
func (r *AuthRepository) GetDisplayNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	query := `
		SELECT id, display_name, email
		FROM users WHERE id = ANY($1)
	`

	var rows []struct {
		ID          uuid.UUID `db:"id"`
		DisplayName string    `db:"display_name"`
		Email       string    `db:"email"`
	}
	err := r.DB.SelectContext(ctx, &rows, query, pq.Array(ids))
	if err != nil {
		logger.Error("AuthRepository:GetDisplayNamesByIDs", err)
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = row.Email
		}
		names[row.ID] = name
	}

	return names, nil
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	query := `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, hashedPassword)
	if err != nil {
		logger.Error("AuthRepository:UpdatePassword", err)
		return err
	}
	return nil
}
