/*
Package database opens the sqlite database and applies the embedded schema
migrations.
*/
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	registerBinds sync.Once
)

/*
Connect opens the sqlite database at dsn and brings its schema up to date.
*/
func Connect(dsn string) (*sqlz.DB, error) {
	var (
		err error
		db  *sqlz.DB
	)

	registerBinds.Do(func() {
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	})

	if db, err = sqlz.Connect("sqlite", dsn); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

/*
Migrate runs every commit*.sql script in name order. Scripts are written to
be re-runnable, and "duplicate column" failures from repeated ALTERs are
ignored.
*/
func Migrate(db *sqlz.DB) error {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}

	for _, d := range dirs {
		if d.IsDir() || !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		if b, err = fs.ReadFile(sqlMigrationsFs, path.Join("sql-migrations", d.Name())); err != nil {
			return fmt.Errorf("error reading migration %s: %w", d.Name(), err)
		}

		slog.Debug("running migration", "name", d.Name())

		if err = runSqlScript(db, b); err != nil && !isIgnorableError(err) {
			return fmt.Errorf("error running migration %s: %w", d.Name(), err)
		}
	}

	return nil
}

func runSqlScript(db *sqlz.DB, script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column")
}
