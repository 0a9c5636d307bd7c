package mintdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/nft-minter/pkg/mintstore"
	mghelper "github.com/chainsafe/nft-minter/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating mint_attempts table...")
		if err := mghelper.CreateSchema(ctx, db, &mintstore.AttemptDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &mintstore.AttemptDao{}, "operator", "state")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping mint_attempts table...")
		return mghelper.DropTables(ctx, db, &mintstore.AttemptDao{})
	})
}
