package repomanager

import (
	"context"
	"database/sql"

	"github.com/beatstream/accounts/internal/dbx"
	"github.com/beatstream/accounts/internal/server/repositories/artists"
	"github.com/beatstream/accounts/internal/server/repositories/follows"
	"github.com/beatstream/accounts/internal/server/repositories/paymentmethods"
	"github.com/beatstream/accounts/internal/server/repositories/refreshtokens"
	"github.com/beatstream/accounts/internal/server/repositories/sociallinks"
	"github.com/beatstream/accounts/internal/server/repositories/users"
	"github.com/beatstream/accounts/internal/server/repositories/verificationcodes"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Artists(db dbx.DBTX) artists.Repository
	PaymentMethods(db dbx.DBTX) paymentmethods.Repository
	SocialLinks(db dbx.DBTX) sociallinks.Repository
	Follows(db dbx.DBTX) follows.Repository
	VerificationCodes(db dbx.DBTX) verificationcodes.Repository
}
