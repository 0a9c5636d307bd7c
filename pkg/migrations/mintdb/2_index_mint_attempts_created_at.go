package mintdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/nft-minter/pkg/mintstore"
	mghelper "github.com/chainsafe/nft-minter/pkg/pgutil/migrations"
)

// Attempt listings are ordered newest first.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("indexing mint_attempts.created_at...")
		return mghelper.CreateModelIndexes(ctx, db, &mintstore.AttemptDao{}, "created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping mint_attempts.created_at index...")
		return mghelper.DropModelIndexes(ctx, db, &mintstore.AttemptDao{}, "created_at")
	})
}
