// Command seed loads the demo store network and a seeded item set into the
// database, so a fresh environment has something to evaluate.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
)

func main() {
	count := flag.Int("count", 60, "number of items to generate")
	seed := flag.Int64("seed", 42, "random seed for the item generator")
	flag.Parse()

	_ = godotenv.Load()
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("failed to reach database")
	}

	ctx := context.Background()
	storeRepo := inventory.NewStorePostgresRepository(db)
	for _, store := range inventory.FixtureStores() {
		if err := storeRepo.CreateStore(ctx, store); err != nil {
			log.WithError(err).WithField("store", store.Code).Fatal("failed to seed store")
		}
	}

	items := inventory.FixtureItems(*count, *seed)
	itemRepo := inventory.NewItemPostgresRepository(db)
	if err := itemRepo.ImportItems(ctx, items); err != nil {
		log.WithError(err).Fatal("failed to seed items")
	}

	log.WithFields(logrus.Fields{"stores": 3, "items": len(items)}).Info("seed complete")
}
