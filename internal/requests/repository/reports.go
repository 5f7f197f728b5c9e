package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PendingRequest is one open request line in a professional's daily reminder.
type PendingRequest struct {
	ID           uuid.UUID
	ServiceName  string
	CustomerName string
	Address      string
	RequestedAt  time.Time
}

// ProfessionalReminder groups a professional's pending requests for one
// consolidated reminder message.
type ProfessionalReminder struct {
	ProfessionalID uuid.UUID
	Name           string
	Email          string
	ChatWebhookURL *string
	Pending        []PendingRequest
}

// MonthRequest is one request line in a customer's monthly report.
type MonthRequest struct {
	ID          uuid.UUID
	ServiceName string
	Status      string
	PriceCents  int64
	RequestedAt time.Time
}

// CustomerActivity aggregates one customer's data for the monthly report:
// the month's requests plus all-time completed count and spend.
type CustomerActivity struct {
	CustomerID      uuid.UUID
	Name            string
	Email           string
	CompletedCount  int
	TotalSpentCents int64
	MonthRequests   []MonthRequest
}

// ListPendingByProfessional returns every professional with at least one
// requested request addressed to them, each with the full pending list.
func (r *Repo) ListPendingByProfessional(ctx context.Context) ([]ProfessionalReminder, error) {
	query := `
		SELECT sr.professional_id, pu.name, pu.email, p.chat_webhook_url,
			sr.id, s.name, cu.name, sr.address, sr.requested_at
		FROM service_requests sr
		JOIN users pu ON pu.id = sr.professional_id
		JOIN professionals p ON p.user_id = sr.professional_id
		JOIN services s ON s.id = sr.service_id
		JOIN users cu ON cu.id = sr.customer_id
		WHERE sr.status = 'requested' AND sr.professional_id IS NOT NULL
		ORDER BY sr.professional_id, sr.requested_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending by professional: %w", err)
	}
	defer rows.Close()

	var reminders []ProfessionalReminder
	var current *ProfessionalReminder

	for rows.Next() {
		var proID uuid.UUID
		var proName, proEmail string
		var webhook *string
		var pending PendingRequest

		err := rows.Scan(
			&proID, &proName, &proEmail, &webhook,
			&pending.ID, &pending.ServiceName, &pending.CustomerName, &pending.Address, &pending.RequestedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pending request: %w", err)
		}

		if current == nil || current.ProfessionalID != proID {
			reminders = append(reminders, ProfessionalReminder{
				ProfessionalID: proID,
				Name:           proName,
				Email:          proEmail,
				ChatWebhookURL: webhook,
			})
			current = &reminders[len(reminders)-1]
		}
		current.Pending = append(current.Pending, pending)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending requests: %w", err)
	}
	return reminders, nil
}

// MonthlyCustomerActivity returns every customer's activity for the monthly
// report: requests created within [monthStart, monthEnd) plus all-time
// completed count and spend. Customers with no activity at all are included
// with zero values.
func (r *Repo) MonthlyCustomerActivity(ctx context.Context, monthStart, monthEnd time.Time) ([]CustomerActivity, error) {
	statsQuery := `
		SELECT u.id, u.name, u.email,
			COUNT(sr.id) FILTER (WHERE sr.status = 'completed'),
			COALESCE(SUM(sr.price_cents) FILTER (WHERE sr.status = 'completed'), 0)
		FROM users u
		LEFT JOIN service_requests sr ON sr.customer_id = u.id
		WHERE u.role = 'customer'
		GROUP BY u.id, u.name, u.email
		ORDER BY u.name`

	rows, err := r.pool.Query(ctx, statsQuery)
	if err != nil {
		return nil, fmt.Errorf("customer activity stats: %w", err)
	}
	defer rows.Close()

	var activities []CustomerActivity
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var activity CustomerActivity
		if err := rows.Scan(
			&activity.CustomerID, &activity.Name, &activity.Email,
			&activity.CompletedCount, &activity.TotalSpentCents,
		); err != nil {
			return nil, fmt.Errorf("scan customer activity: %w", err)
		}
		index[activity.CustomerID] = len(activities)
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer activity: %w", err)
	}
	rows.Close()

	monthQuery := `
		SELECT sr.customer_id, sr.id, s.name, sr.status, sr.price_cents, sr.requested_at
		FROM service_requests sr
		JOIN services s ON s.id = sr.service_id
		WHERE sr.requested_at >= $1 AND sr.requested_at < $2
		ORDER BY sr.requested_at`

	monthRows, err := r.pool.Query(ctx, monthQuery, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("customer month requests: %w", err)
	}
	defer monthRows.Close()

	for monthRows.Next() {
		var customerID uuid.UUID
		var request MonthRequest
		if err := monthRows.Scan(
			&customerID, &request.ID, &request.ServiceName, &request.Status,
			&request.PriceCents, &request.RequestedAt,
		); err != nil {
			return nil, fmt.Errorf("scan month request: %w", err)
		}
		if i, ok := index[customerID]; ok {
			activities[i].MonthRequests = append(activities[i].MonthRequests, request)
		}
	}
	if err := monthRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month requests: %w", err)
	}
	return activities, nil
}
