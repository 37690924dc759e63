package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/todo-service/internal/domain"
)

// TodoRepository encapsulates todo persistence. Owner-scoped methods filter
// by owner_id in SQL, so a non-owner sees the same pgx.ErrNoRows as a
// missing record.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByOwner(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListAll(ctx context.Context) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	DeleteByOwner(ctx context.Context, id, ownerID int64) error
	Delete(ctx context.Context, id int64) error
}

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository instantiates repository.
func NewTodoRepository(pool *pgxpool.Pool) TodoRepository {
	return &todoRepository{pool: pool}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	const query = `
        INSERT INTO todos (owner_id, title, description, priority, completed)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Completed,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) GetByOwner(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	const query = `
        SELECT id, owner_id, title, description, priority, completed, created_at, updated_at
        FROM todos WHERE id=$1 AND owner_id=$2`

	var todo domain.Todo
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.Title,
		&todo.Description,
		&todo.Priority,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	const query = `
        SELECT id, owner_id, title, description, priority, completed, created_at, updated_at
        FROM todos WHERE owner_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *todoRepository) ListAll(ctx context.Context) ([]domain.Todo, error) {
	const query = `
        SELECT id, owner_id, title, description, priority, completed, created_at, updated_at
        FROM todos ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	const query = `
        UPDATE todos SET title=$1, description=$2, priority=$3, completed=$4, updated_at=NOW()
        WHERE id=$5 AND owner_id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Completed,
		todo.ID,
		todo.OwnerID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) DeleteByOwner(ctx context.Context, id, ownerID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTodos(rows pgx.Rows) ([]domain.Todo, error) {
	var result []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.OwnerID,
			&todo.Title,
			&todo.Description,
			&todo.Priority,
			&todo.Completed,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, todo)
	}
	return result, rows.Err()
}
