package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventregistration/internal/domain"
)

const registrationColumns = `id, COALESCE(event_id::text, ''), full_name, organization, designation, email, phone,
		participation_type, participation_type_other, interest_areas, interest_areas_other, price_amount,
		payment_status, payment_reference, COALESCE(gateway_reference, ''), payment_date,
		COALESCE(qr_code_url, ''), COALESCE(qr_code_data, ''), email_sent, email_sent_at, checked_in_at,
		created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var status string
	var interests pq.StringArray
	var paymentDate, emailSentAt, checkedInAt sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.FullName, &reg.Organization, &reg.Designation, &reg.Email, &reg.Phone,
		&reg.ParticipationType, &reg.ParticipationTypeOther, &interests, &reg.InterestAreasOther, &reg.PriceAmount,
		&status, &reg.PaymentReference, &reg.GatewayReference, &paymentDate,
		&reg.QRCodeURL, &reg.QRCodeData, &reg.EmailSent, &emailSentAt, &checkedInAt,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.PaymentStatus = domain.PaymentStatus(status)
	reg.InterestAreas = []string(interests)
	if reg.InterestAreas == nil {
		reg.InterestAreas = []string{}
	}
	if paymentDate.Valid {
		reg.PaymentDate = &paymentDate.Time
	}
	if emailSentAt.Valid {
		reg.EmailSentAt = &emailSentAt.Time
	}
	if checkedInAt.Valid {
		reg.CheckedInAt = &checkedInAt.Time
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, full_name, organization, designation, email, phone,
			participation_type, participation_type_other, interest_areas, interest_areas_other,
			price_amount, payment_status, payment_reference, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(ctx, query,
		reg.ID, reg.EventID, reg.FullName, reg.Organization, reg.Designation, reg.Email, reg.Phone,
		reg.ParticipationType, reg.ParticipationTypeOther, pq.Array(reg.InterestAreas), reg.InterestAreasOther,
		reg.PriceAmount, string(reg.PaymentStatus), reg.PaymentReference, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if hasCode(err, uniqueViolation) {
			return fmt.Errorf("payment reference %q already exists: %w", reg.PaymentReference, err)
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByPaymentReference(ctx context.Context, reference string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE payment_reference = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) SetGatewayReference(ctx context.Context, id, gatewayReference string) error {
	query := `UPDATE registrations SET gateway_reference = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, gatewayReference, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkCompleted moves a pending registration to completed. Only one caller can win this update.
func (r *registrationRepository) MarkCompleted(ctx context.Context, id, qrCodeURL, qrCodeData string, paymentDate time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET payment_status = 'completed', payment_date = $1, qr_code_url = $2, qr_code_data = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status = 'pending'
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, paymentDate, qrCodeURL, qrCodeData, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionConflict(ctx, id)
		}
		if hasCode(err, uniqueViolation) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, err
	}
	return reg, nil
}

// MarkFailed moves a pending registration to failed.
func (r *registrationRepository) MarkFailed(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET payment_status = 'failed', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionConflict(ctx, id)
		}
		return nil, err
	}
	return reg, nil
}

// transitionConflict distinguishes a missing row from a row that already left pending.
func (r *registrationRepository) transitionConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM registrations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStatusConflict
}

func (r *registrationRepository) MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `UPDATE registrations SET email_sent = TRUE, email_sent_at = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET checked_in_at = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = 'completed' AND checked_in_at IS NULL
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, at, id))
	if err == nil {
		return reg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PaymentStatus != domain.PaymentStatusCompleted {
		return nil, domain.ErrNotPaid
	}
	return nil, domain.ErrAlreadyCheckedIn
}

func (r *registrationRepository) HasCompletedDuplicate(ctx context.Context, eventID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE event_id IS NOT DISTINCT FROM NULLIF($1, '')::uuid
			  AND LOWER(email) = LOWER($2)
			  AND payment_status = 'completed'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM registrations WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) List(ctx context.Context, filter domain.RegistrationListFilter, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	where := []string{"event_id IS NOT DISTINCT FROM NULLIF($1, '')::uuid"}
	args := []any{filter.EventID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations WHERE ` + whereSQL
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		if hasCode(err, invalidTextRepresentation) {
			return []*domain.Registration{}, 0, nil
		}
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		registrationColumns, whereSQL, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}
