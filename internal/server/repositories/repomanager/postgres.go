// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/beatstream/accounts/internal/dbx"
	"github.com/beatstream/accounts/internal/server/migrations"
	"github.com/beatstream/accounts/internal/server/repositories/artists"
	"github.com/beatstream/accounts/internal/server/repositories/follows"
	"github.com/beatstream/accounts/internal/server/repositories/paymentmethods"
	"github.com/beatstream/accounts/internal/server/repositories/refreshtokens"
	"github.com/beatstream/accounts/internal/server/repositories/sociallinks"
	"github.com/beatstream/accounts/internal/server/repositories/users"
	"github.com/beatstream/accounts/internal/server/repositories/verificationcodes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Artists(db dbx.DBTX) artists.Repository {
	return artists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PaymentMethods(db dbx.DBTX) paymentmethods.Repository {
	return paymentmethods.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SocialLinks(db dbx.DBTX) sociallinks.Repository {
	return sociallinks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Follows(db dbx.DBTX) follows.Repository {
	return follows.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) VerificationCodes(db dbx.DBTX) verificationcodes.Repository {
	return verificationcodes.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
