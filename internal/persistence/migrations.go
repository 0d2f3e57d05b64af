package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const migrationsDir = "migrations"

// RunMigrations applies every .sql file under migrations/ in filename
// order. Files are plain DDL executed as a single statement batch; the
// schema (tickets, users, categories, ticket_history, ai_insights) is
// written to be re-runnable with IF NOT EXISTS guards, so there is no
// version table.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	files, err := sqlMigrations()
	if err != nil {
		return err
	}

	for i, name := range files {
		ddl, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		logger.Info("applied migration",
			zap.String("file", name),
			zap.Int("sequence", i+1),
			zap.Int("bytes", len(ddl)))
	}

	logger.Info("schema up to date", zap.Int("migrations", len(files)))
	return nil
}

func sqlMigrations() ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
