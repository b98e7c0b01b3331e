package main

// Loads datasets, and the distributions nested under them, from a JSON
// file into the catalog database named by DATABASE_PATH:
//
//	{"datasets": [{"title": "...", "distributions": [{"url": "..."}]}]}

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ONSdigital/dp-catalog-api/attributes"
	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/model"
	"github.com/ONSdigital/dp-catalog-api/sqlite"
	"github.com/ONSdigital/dp-catalog-api/storage"
	"github.com/ONSdigital/log.go/v2/log"
)

const distributionsKey = "distributions"

func main() {
	log.Namespace = "dp-catalog-api-seed"
	ctx := context.Background()

	file := flag.String("file", "", "JSON file of datasets to load")
	flag.Parse()

	if err := run(ctx, *file); err != nil {
		log.Fatal(ctx, "seeding failed", err, log.Data{"file": *file})
		os.Exit(1)
	}
}

func run(ctx context.Context, file string) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	buf, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	doc, err := attributes.Parse(buf)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}
	store, err := sqlite.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	m := model.New(store, cfg.DatasetDeletePolicy)
	n, err := seed(ctx, m, doc)
	log.Info(ctx, "seeding finished", log.Data{"file": file, "records": n})
	return err
}

// seed creates every dataset in doc and then its distributions, pointed
// at the new dataset. It returns the number of records created.
func seed(ctx context.Context, m *model.Model, doc *attributes.Bag) (int, error) {
	value, _ := doc.Get("datasets")
	datasets, ok := value.([]any)
	if !ok {
		return 0, fmt.Errorf("datasets must be a list")
	}

	created := 0
	for i, v := range datasets {
		ds, ok := v.(*attributes.Bag)
		if !ok {
			return created, fmt.Errorf("dataset %d is not an object", i)
		}
		ds = ds.Clone()
		nested, _ := ds.Get(distributionsKey)
		ds.Delete(distributionsKey)

		stored, err := create(ctx, m.Collection(storage.Dataset), ds)
		if err != nil {
			return created, fmt.Errorf("dataset %d: %w", i, err)
		}
		created++
		id, _ := stored.Get("id")

		dists, _ := nested.([]any)
		for j, d := range dists {
			dist, ok := d.(*attributes.Bag)
			if !ok {
				return created, fmt.Errorf("dataset %d distribution %d is not an object", i, j)
			}
			dist = dist.Clone()
			dist.Set(storage.Distribution.ParentKey, id)
			if _, err := create(ctx, m.Collection(storage.Distribution), dist); err != nil {
				return created, fmt.Errorf("dataset %d distribution %d: %w", i, j, err)
			}
			created++
		}
	}
	return created, nil
}

func create(ctx context.Context, c *model.Collection, attrs *attributes.Bag) (*attributes.Bag, error) {
	body, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	return c.Create(ctx, body)
}
