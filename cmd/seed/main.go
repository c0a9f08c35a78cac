package main

import (
	"bemestar/internal/catalog"
	"bemestar/internal/config"
	"bemestar/internal/platform/logger"
	"bemestar/internal/repository"
	"bemestar/internal/service"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	file := flag.String("file", "", "questionnaire YAML to publish (defaults to the built-in one)")
	id := flag.String("id", "", "catalog id to store under (generated when empty, replaced when it exists)")
	list := flag.Bool("list", false, "list stored questionnaires and exit")
	remove := flag.String("delete", "", "delete the stored questionnaire with this id and exit")
	flag.Parse()

	cfg := config.Load()
	base, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	log := base.WithSalt(cfg.LogHashSalt)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(context.Background())

	svc := service.NewCatalogService(repository.NewCatalogRepo(client.Database(cfg.MongoDB)))

	switch {
	case *list:
		catalogs, err := svc.List(ctx)
		if err != nil {
			log.Fatal("failed to list questionnaires", "error", err)
		}
		for _, c := range catalogs {
			fmt.Printf("%s\t%s\t%d questions\t%s\n", c.ID, c.Title, c.Questions, c.UpdatedAt.Format(time.RFC3339))
		}
		return
	case *remove != "":
		if err := svc.Remove(ctx, *remove); err != nil {
			log.Fatal("failed to delete questionnaire", "id", *remove, "error", err)
		}
		fmt.Printf("Deleted questionnaire %s\n", *remove)
		return
	}

	var cat *catalog.Catalog
	if *file != "" {
		cat, err = catalog.LoadFile(*file)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Fatal("failed to load questionnaire", "file", *file, "error", err)
	}

	stored, err := svc.Publish(ctx, cat, *id)
	if err != nil {
		log.Fatal("failed to publish questionnaire", "error", err)
	}

	fmt.Printf("Published questionnaire '%s' (%d questions) as CATALOG_ID=%s\n", cat.Title(), cat.Len(), stored)
}
