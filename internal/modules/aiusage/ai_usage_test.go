// README: Quota module tests (lazy reset and quota boundary logic).
package aiusage

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestUseTokenCrossMonthReset verifies that a client with 0 tokens left from a previous month
// is automatically reset and the request succeeds (leaving allowance-1 tokens).
func TestUseTokenCrossMonthReset(t *testing.T) {
	svc, db := setupTestService(t, DefaultTokens)
	ctx := context.Background()

	// Seed client with 0 tokens from a past month.
	if _, err := db.Exec(ctx, "INSERT INTO ai_usage VALUES ('client_reset', 0, '2000-01')"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.UseToken(ctx, "client_reset"); err != nil {
		t.Fatalf("UseToken after cross-month reset: %v", err)
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT tokens_remaining FROM ai_usage WHERE uid = 'client_reset'").Scan(&remaining); err != nil {
		t.Fatalf("query: %v", err)
	}
	if remaining != DefaultTokens-1 {
		t.Fatalf("expected %d tokens remaining, got %d", DefaultTokens-1, remaining)
	}
}

// TestUseTokenInsufficientCheck verifies that a client with 0 tokens in the current month is blocked.
func TestUseTokenInsufficientCheck(t *testing.T) {
	svc, db := setupTestService(t, DefaultTokens)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month) VALUES ('client_zero', 0, TO_CHAR(NOW() AT TIME ZONE 'UTC', 'YYYY-MM'))"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := svc.UseToken(ctx, "client_zero")
	if !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("expected ErrInsufficientTokens, got %v", err)
	}
}

// TestUseTokenNewClient verifies that a client absent from the table is initialised on first call.
func TestUseTokenNewClient(t *testing.T) {
	svc, db := setupTestService(t, DefaultTokens)
	ctx := context.Background()

	if err := svc.UseToken(ctx, "client_new"); err != nil {
		t.Fatalf("UseToken for new client: %v", err)
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT tokens_remaining FROM ai_usage WHERE uid = 'client_new'").Scan(&remaining); err != nil {
		t.Fatalf("query: %v", err)
	}
	if remaining != DefaultTokens-1 {
		t.Fatalf("expected %d tokens remaining after first use, got %d", DefaultTokens-1, remaining)
	}
}

// TestUseTokenCustomAllowance exhausts a small allowance and checks Remaining along the way.
func TestUseTokenCustomAllowance(t *testing.T) {
	svc, _ := setupTestService(t, 2)
	ctx := context.Background()

	left, err := svc.Remaining(ctx, "client_small")
	if err != nil {
		t.Fatalf("Remaining before use: %v", err)
	}
	if left != 2 {
		t.Fatalf("expected full allowance 2, got %d", left)
	}

	for i := 0; i < 2; i++ {
		if err := svc.UseToken(ctx, "client_small"); err != nil {
			t.Fatalf("UseToken #%d: %v", i+1, err)
		}
	}
	if err := svc.UseToken(ctx, "client_small"); !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("expected ErrInsufficientTokens on third use, got %v", err)
	}

	left, err = svc.Remaining(ctx, "client_small")
	if err != nil {
		t.Fatalf("Remaining after use: %v", err)
	}
	if left != 0 {
		t.Fatalf("expected 0 remaining, got %d", left)
	}
}

// setupTestService creates a real postgres-backed Service for integration tests.
// It skips the test when TRIPSAGE_TEST_DSN is not set.
func setupTestService(t *testing.T, allowance int) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TRIPSAGE_TEST_DSN")
	if dsn == "" {
		t.Skip("TRIPSAGE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE ai_usage"); err != nil {
		t.Fatalf("truncate ai_usage: %v", err)
	}

	return NewService(NewStore(db, allowance)), db
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	path := filepath.Join(root, "migrations", "0001_ai_usage.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, stmt := range splitSQL(stripSQLComments(string(content))) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
