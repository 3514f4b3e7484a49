package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ClientRepository is the client directory: customer name to default
// notification contact. Lookup only; unknown customers are not an error.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new repository instance.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// FindEmailByName returns the default contact email for a customer, or
// an empty string when the directory has no entry.
func (r *ClientRepository) FindEmailByName(ctx context.Context, name string) (string, error) {
	var email string
	err := r.db.GetContext(ctx, &email, `SELECT email FROM clients WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find client email for %q: %w", name, err)
	}
	return email, nil
}
