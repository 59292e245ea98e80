package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mshiraki/tangocho/internal/models"
)

// PostgresSubscriptionRepository implements push-subscription persistence
// against a PostgreSQL database.
type PostgresSubscriptionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
// using the provided *sql.DB.
func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{DB: db}
}

// Upsert stores the push subscription for a user, replacing any previous
// one. A user keeps at most one subscription.
func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, sub models.PushSubscription) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO push_subscriptions (id, user_login, endpoint, p256dh, auth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_login) DO UPDATE SET
			endpoint = EXCLUDED.endpoint,
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth
	`, sub.ID, sub.UserLogin, sub.Endpoint, sub.P256DH, sub.Auth, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// DeleteByUser removes the subscription belonging to the given user.
func (r *PostgresSubscriptionRepository) DeleteByUser(ctx context.Context, userLogin string) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE user_login = $1
	`, userLogin)
	return err
}

// Delete removes a subscription by its ID. Used to drop endpoints that
// have permanently rejected delivery.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM push_subscriptions WHERE id = $1
	`, id)
	return err
}

// ListAll fetches every registered push subscription. The notification
// job iterates these to find users with due reviews.
func (r *PostgresSubscriptionRepository) ListAll(ctx context.Context) ([]models.PushSubscription, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_login, endpoint, p256dh, auth, created_at FROM push_subscriptions
	`)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.UserLogin, &sub.Endpoint, &sub.P256DH, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
