// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"rezerve/internal/core/id"
	"rezerve/internal/infrastructure/storage/postgres"
	"rezerve/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	adminRoleID, err := seedRoles(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed roles", "error", err)
	}

	if err := seedAdminUser(ctx, pool, log, adminRoleID); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedRoles(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	type roleSeed struct {
		name        string
		reservation bool
		reports     bool
		logs        bool
		settings    bool
		management  bool
		superadmin  bool
	}

	roles := []roleSeed{
		{"admin", true, true, true, true, true, true},
		{"manager", true, true, true, false, false, false},
		{"reception", true, false, false, false, false, false},
	}

	var adminRoleID id.ID
	for _, r := range roles {
		roleID := id.New()
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO roles (id, name, can_create_reservation, can_view_reports,
			                   can_view_logs, can_view_settings, can_view_management, is_superadmin)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO NOTHING
		`, roleID, r.name, r.reservation, r.reports, r.logs, r.settings, r.management, r.superadmin)
		if err != nil {
			return id.Nil(), fmt.Errorf("insert role %s: %w", r.name, err)
		}

		if r.name == "admin" {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM roles WHERE name = 'admin'`,
			).Scan(&adminRoleID); err != nil {
				return id.Nil(), fmt.Errorf("fetch admin role: %w", err)
			}
		}
	}

	log.Infow("roles seeded", "count", len(roles))
	return adminRoleID, nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminRoleID id.ID) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1`, username,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "username", username, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, full_name, role_id, is_active)
		VALUES ($1, $2, $3, 'System Administrator', $4, true)
	`, userID, username, string(passwordHash), adminRoleID)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "username", username, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	type branchSeed struct {
		name    string
		address string
	}
	branches := []branchSeed{
		{"Merkez", "Atatürk Cad. 12, Antalya"},
		{"Lara", "Lara Sahil Yolu 45, Antalya"},
	}

	branchIDs := make(map[string]id.ID)
	for _, b := range branches {
		branchID := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO branches (id, name, address)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM branches WHERE name = $2)
		`, branchID, b.name, b.address)
		if err != nil {
			return fmt.Errorf("insert branch %s: %w", b.name, err)
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM branches WHERE name = $1`, b.name,
			).Scan(&branchID); err != nil {
				return fmt.Errorf("fetch branch %s: %w", b.name, err)
			}
		}
		branchIDs[b.name] = branchID
	}

	type staffSeed struct {
		name   string
		phone  string
		branch string
	}
	staffMembers := []staffSeed{
		{"Ayşe Yılmaz", "+90 532 100 0001", "Merkez"},
		{"Mehmet Demir", "+90 532 100 0002", "Merkez"},
		{"Elif Kaya", "+90 532 100 0003", "Lara"},
	}

	txManager := postgres.NewTxManager(pool)
	inserter := postgres.NewBatchInserter(txManager)

	staffRows := make([][]any, 0, len(staffMembers))
	staffIDs := make([]id.ID, 0, len(staffMembers))
	for _, s := range staffMembers {
		staffID := id.New()
		staffIDs = append(staffIDs, staffID)
		staffRows = append(staffRows, []any{staffID, s.name, s.phone, branchIDs[s.branch]})
	}

	count, err := inserter.CopyFromSlice(ctx, "staff",
		[]string{"id", "name", "phone", "branch_id"}, staffRows)
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	log.Infow("staff seeded", "count", count)

	// A few bookings spread over the coming days, so reports and the
	// bot have something to show right away.
	today := time.Now().Truncate(24 * time.Hour)
	type reservationSeed struct {
		customer string
		phone    string
		people   int
		price    string
		slot     string
		dayOff   int
		branch   string
		staffIdx int
	}
	demoReservations := []reservationSeed{
		{"Ali Vural", "+90 533 200 0001", 4, "1200.00", "19:00", 1, "Merkez", 0},
		{"Zeynep Arslan", "+90 533 200 0002", 2, "650.00", "20:30", 1, "Merkez", 1},
		{"Murat Çelik", "+90 533 200 0003", 6, "2400.00", "19:30", 2, "Lara", 2},
	}

	for _, r := range demoReservations {
		customerID := id.New()
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO customers (id, name, phone)
			VALUES ($1, $2, $3)
			ON CONFLICT (phone) DO NOTHING
		`, customerID, r.customer, r.phone)
		if err != nil {
			return fmt.Errorf("insert customer %s: %w", r.customer, err)
		}
		if err := pool.Pool.QueryRow(ctx,
			`SELECT id FROM customers WHERE phone = $1`, r.phone,
		).Scan(&customerID); err != nil {
			return fmt.Errorf("fetch customer %s: %w", r.customer, err)
		}

		price, err := decimal.NewFromString(r.price)
		if err != nil {
			return fmt.Errorf("parse price %s: %w", r.price, err)
		}

		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO reservations (
				id, customer_id, customer_name, customer_phone, num_people,
				total_price, advance_pct, payment_type, payment_status,
				branch_id, staff_id, reservation_date, reservation_time,
				notes, is_canceled, cancel_revenue
			)
			VALUES ($1, $2, $3, $4, $5, $6, 0, 'CASH', 'PENDING', $7, $8, $9, $10, '', false, 0)
			ON CONFLICT DO NOTHING
		`, id.New(), customerID, r.customer, r.phone, r.people, price,
			branchIDs[r.branch], staffIDs[r.staffIdx],
			today.AddDate(0, 0, r.dayOff), r.slot)
		if err != nil {
			return fmt.Errorf("insert reservation for %s: %w", r.customer, err)
		}
	}

	log.Infow("demo reservations seeded", "count", len(demoReservations))
	return nil
}
