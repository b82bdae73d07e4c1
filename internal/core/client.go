package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

type ClientService struct {
	db DB
}

func NewClientService(db DB) *ClientService {
	return &ClientService{db: db}
}

const clientColumns = `id, name, email, created_at, updated_at`

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) Create(ctx context.Context, client *model.Client) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO clients (id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		client.ID, client.Name, client.Email, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (s *ClientService) GetByID(ctx context.Context, id string) (*model.Client, error) {
	c, err := scanClient(s.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, limit int, cursor string) ([]model.Client, bool, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := []any{}
	argIdx := 1

	if cursor != "" {
		query += fmt.Sprintf(` WHERE id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate clients: %w", err)
	}

	hasMore := len(clients) > limit
	if hasMore {
		clients = clients[:limit]
	}
	return clients, hasMore, nil
}

func (s *ClientService) Update(ctx context.Context, client *model.Client) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE clients SET name = $1, email = $2, updated_at = now()
		 WHERE id = $3`,
		client.Name, client.Email, client.ID,
	)
	if err != nil {
		return fmt.Errorf("update client %s: %w", client.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", client.ID, ErrNotFound)
	}
	return nil
}
