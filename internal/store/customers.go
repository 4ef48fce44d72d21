package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

// FindCustomerByEmail matches the email exactly. When concurrent first
// orders left duplicates behind, the oldest row wins.
func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var (
		c  domain.Customer
		id string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, phone, email FROM customers
		 WHERE email = $1 ORDER BY created_at LIMIT 1`, email,
	).Scan(&id, &c.Name, &c.Address, &c.Phone, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query customer by email: %w", err)
	}
	c.ID = &id
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c domain.Customer) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, address, phone, email) VALUES ($1, $2, $3, $4, $5)`,
		id, c.Name, c.Address, c.Phone, c.Email)
	if err != nil {
		return "", fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}
