package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// demoRestaurantID is a fixed UUID so the seeder is idempotent and the
// seeded catalog is easy to hit from curl.
const demoRestaurantID = "7b8a1c2e-4f5d-4a6b-9c0d-1e2f3a4b5c6d"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedVouchers(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedVouchers(ctx context.Context, pool *pgxpool.Pool) {
	now := time.Now()
	lastMonth := now.AddDate(0, -1, 0)
	nextMonth := now.AddDate(0, 1, 0)
	lastWeek := now.AddDate(0, 0, -7)

	vouchers := []struct {
		Code     string
		Kind     string
		Value    int64
		MaxDisc  *int64
		MinOrder *int64
		Start    *time.Time
		End      *time.Time
	}{
		{"GIAM10", "PERCENTAGE", 10, ptr(int64(30000)), ptr(int64(100000)), &lastMonth, &nextMonth},
		{"GIAM20", "PERCENTAGE", 20, ptr(int64(50000)), ptr(int64(300000)), &lastMonth, &nextMonth},
		{"GIAM15K", "FIXED", 15000, nil, ptr(int64(150000)), nil, &nextMonth},
		{"FREESHIP", "FREESHIP", 0, ptr(int64(25000)), ptr(int64(80000)), &lastMonth, &nextMonth},
		{"FREESHIPMAX", "FREESHIP", 0, ptr(int64(50000)), ptr(int64(500000)), nil, nil},
		{"EXPIRED10", "PERCENTAGE", 10, nil, nil, &lastMonth, &lastWeek},
	}

	fmt.Println("Seeding Vouchers...")
	for _, v := range vouchers {
		_, err := pool.Exec(ctx, `
			INSERT INTO vouchers (restaurant_id, code, discount_type, discount_value, max_discount_amount, min_order_value, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (restaurant_id, code) DO UPDATE SET
				discount_type = EXCLUDED.discount_type,
				discount_value = EXCLUDED.discount_value,
				max_discount_amount = EXCLUDED.max_discount_amount,
				min_order_value = EXCLUDED.min_order_value,
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				updated_at = now();
		`, demoRestaurantID, v.Code, v.Kind, v.Value, v.MaxDisc, v.MinOrder, v.Start, v.End)
		if err != nil {
			log.Printf("Failed to seed voucher %s: %v", v.Code, err)
		}
	}
	log.Printf("Using Restaurant ID: %s", demoRestaurantID)
}

func ptr[T any](v T) *T { return &v }
