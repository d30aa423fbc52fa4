package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tuanngo-dev/backend-delivery/internal/common"
	"github.com/tuanngo-dev/backend-delivery/internal/voucher"
)

// ErrDuplicateCode indicates a voucher code collision within a restaurant.
var ErrDuplicateCode = errors.New("voucher code already exists")

// VoucherInput carries the fields accepted when creating or updating a voucher.
type VoucherInput struct {
	RestaurantID string
	Code         string
	Type         voucher.DiscountType
	Value        int64
	MaxDiscount  *int64
	MinOrder     *int64
	StartDate    *time.Time
	EndDate      *time.Time
}

// Store exposes voucher catalog persistence. The concrete implementation
// talks to Postgres; tests substitute fakes.
type Store interface {
	ListByRestaurant(ctx context.Context, restaurantID string) ([]voucher.Voucher, error)
	ListRestaurantIDs(ctx context.Context, limit int) ([]string, error)
	Create(ctx context.Context, in VoucherInput) (voucher.Voucher, error)
	UpdateByCode(ctx context.Context, code string, in VoucherInput) (voucher.Voucher, error)
}

// PGStore implements Store on top of a pgx connection pool.
type PGStore struct {
	Pool *pgxpool.Pool
}

const voucherColumns = `id, code, discount_type, discount_value, max_discount_amount, min_order_value, start_date, end_date`

// ListByRestaurant returns the voucher catalog for one restaurant in
// insertion order. Insertion order is the catalog order the engine's
// ranking and tie-breaking rules preserve.
func (s PGStore) ListByRestaurant(ctx context.Context, restaurantID string) ([]voucher.Voucher, error) {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "invalid restaurant id", 400, err)
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE restaurant_id = $1 ORDER BY created_at, id`, rid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVouchers(rows)
}

// ListRestaurantIDs returns distinct restaurant ids that currently have
// vouchers, used by the cache warmup task.
func (s PGStore) ListRestaurantIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT DISTINCT restaurant_id FROM vouchers LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id.String())
	}
	return out, rows.Err()
}

// Create inserts a voucher and returns the stored record.
func (s PGStore) Create(ctx context.Context, in VoucherInput) (voucher.Voucher, error) {
	rid, err := uuid.Parse(in.RestaurantID)
	if err != nil {
		return voucher.Voucher{}, common.NewAppError("BAD_REQUEST", "invalid restaurant id", 400, err)
	}
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO vouchers (restaurant_id, code, discount_type, discount_value, max_discount_amount, min_order_value, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+voucherColumns,
		rid, in.Code, string(in.Type), in.Value, in.MaxDiscount, in.MinOrder, in.StartDate, in.EndDate)
	v, err := scanVoucher(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return voucher.Voucher{}, ErrDuplicateCode
		}
		return voucher.Voucher{}, err
	}
	return v, nil
}

// UpdateByCode mutates an existing voucher identified by its code.
func (s PGStore) UpdateByCode(ctx context.Context, code string, in VoucherInput) (voucher.Voucher, error) {
	rid, err := uuid.Parse(in.RestaurantID)
	if err != nil {
		return voucher.Voucher{}, common.NewAppError("BAD_REQUEST", "invalid restaurant id", 400, err)
	}
	row := s.Pool.QueryRow(ctx,
		`UPDATE vouchers
		 SET discount_type = $3, discount_value = $4, max_discount_amount = $5, min_order_value = $6,
		     start_date = $7, end_date = $8, updated_at = now()
		 WHERE restaurant_id = $1 AND code = $2
		 RETURNING `+voucherColumns,
		rid, code, string(in.Type), in.Value, in.MaxDiscount, in.MinOrder, in.StartDate, in.EndDate)
	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return voucher.Voucher{}, common.NewAppError("NOT_FOUND", "voucher not found", 404, err)
		}
		return voucher.Voucher{}, err
	}
	return v, nil
}

func scanVouchers(rows pgx.Rows) ([]voucher.Voucher, error) {
	var out []voucher.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVoucher(row pgx.Row) (voucher.Voucher, error) {
	var (
		id          uuid.UUID
		v           voucher.Voucher
		discountTyp string
	)
	err := row.Scan(&id, &v.Code, &discountTyp, &v.Value, &v.MaxDiscount, &v.MinOrder, &v.StartDate, &v.EndDate)
	if err != nil {
		return voucher.Voucher{}, err
	}
	v.ID = id.String()
	v.Type = voucher.DiscountType(discountTyp)
	return v, nil
}
