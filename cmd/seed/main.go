// Command seed bootstraps a society's units and login PINs from a CSV file.
//
// CSV contract (header optional):
//
//	unit_number,rent,tenant_names,num_tenants,num_cars,num_two_wheelers,pin
//
// tenant_names are semicolon-separated. PINs are stored bcrypt-hashed; a
// unit named "admin" gets the admin role.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to the source CSV (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform writes")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
)

type UnitCSV struct {
	UnitNumber     string
	Rent           float64
	TenantNames    []string
	NumTenants     int
	NumCars        int
	NumTwoWheelers int
	PIN            string
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}
	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d units from %s\n", len(rows), *csvPath)

	if *dryRun {
		for _, row := range rows {
			fmt.Printf("  %-10s rent=%.2f tenants=%d cars=%d 2w=%d\n",
				row.UnitNumber, row.Rent, row.NumTenants, row.NumCars, row.NumTwoWheelers)
		}
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	inserted := 0
	for _, row := range rows {
		hashed, err := bcrypt.GenerateFromPassword([]byte(row.PIN), bcrypt.DefaultCost)
		if err != nil {
			fatalf("hash PIN for %s: %v", row.UnitNumber, err)
		}

		role := "resident"
		if strings.EqualFold(row.UnitNumber, "admin") {
			role = "admin"
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO society.units
				(unit_number, rent, tenant_names, num_tenants, num_cars, num_two_wheelers, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (unit_number) DO UPDATE SET
				rent = EXCLUDED.rent,
				tenant_names = EXCLUDED.tenant_names,
				num_tenants = EXCLUDED.num_tenants,
				num_cars = EXCLUDED.num_cars,
				num_two_wheelers = EXCLUDED.num_two_wheelers,
				updated_at = now()
		`, row.UnitNumber, row.Rent, pq.Array(row.TenantNames),
			row.NumTenants, row.NumCars, row.NumTwoWheelers); err != nil {
			fatalf("upsert unit %s: %v", row.UnitNumber, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO society.login (unit, hashed_pin, role, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (unit) DO UPDATE SET
				hashed_pin = EXCLUDED.hashed_pin,
				role = EXCLUDED.role,
				updated_at = now()
		`, row.UnitNumber, string(hashed), role); err != nil {
			fatalf("upsert login %s: %v", row.UnitNumber, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("Seeded %d units with login PINs.\n", inserted)
}

func loadCSV(path string) ([]UnitCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = 7

	var rows []UnitCSV
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if strings.EqualFold(record[0], "unit_number") {
				continue // header
			}
		}

		rent, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %q: bad rent: %v", record[0], err)
		}
		row := UnitCSV{
			UnitNumber: strings.TrimSpace(record[0]),
			Rent:       rent,
			PIN:        strings.TrimSpace(record[6]),
		}
		if names := strings.TrimSpace(record[2]); names != "" {
			row.TenantNames = strings.Split(names, ";")
		}
		for i, dst := range []*int{&row.NumTenants, &row.NumCars, &row.NumTwoWheelers} {
			n, err := strconv.Atoi(strings.TrimSpace(record[3+i]))
			if err != nil {
				return nil, fmt.Errorf("row %q: bad count in column %d: %v", record[0], 4+i, err)
			}
			*dst = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRows(rows []UnitCSV) error {
	if len(rows) == 0 {
		return fmt.Errorf("no units in CSV")
	}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.UnitNumber == "" {
			return fmt.Errorf("empty unit_number")
		}
		if seen[row.UnitNumber] {
			return fmt.Errorf("duplicate unit_number %q", row.UnitNumber)
		}
		seen[row.UnitNumber] = true
		if row.Rent < 0 {
			return fmt.Errorf("unit %q: negative rent", row.UnitNumber)
		}
		if len(row.PIN) < 4 {
			return fmt.Errorf("unit %q: PIN must be at least 4 digits", row.UnitNumber)
		}
		if row.NumTenants < 0 || row.NumCars < 0 || row.NumTwoWheelers < 0 {
			return fmt.Errorf("unit %q: negative counts", row.UnitNumber)
		}
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
