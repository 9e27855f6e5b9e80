package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nsarda/cashlens/internal/config"
	"github.com/nsarda/cashlens/internal/ingest"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/logger"
)

func main() {
	log := logger.New()

	table := flag.String("table", "", "Destination ledger table (bank_statements, vendor_invoices, client_invoices, payroll, expense_receipts)")
	gcsURI := flag.String("gcs-uri", "", "GCS URI of the CSV export (e.g. gs://bucket/bank.csv)")
	file := flag.String("file", "", "Path to a local CSV export (alternative to -gcs-uri)")
	flag.Parse()

	if *table == "" {
		log.Fatal().Msg("Error: -table is required")
	}
	if !ingest.KnownTable(*table) {
		log.Fatal().Str("table", *table).Msg("Error: unknown table")
	}
	if (*gcsURI == "") == (*file == "") {
		log.Fatal().Msg("Error: exactly one of -gcs-uri or -file is required")
	}

	cfg := config.Load(log)
	if cfg.GCPProject == "" {
		log.Fatal().Msg("GCP_PROJECT is required")
	}

	// Bounded so the CLI doesn't hang on a stuck load
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := ledger.NewBigQueryStore(ctx, cfg.GCPProject, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer store.Close()

	loader := ingest.NewLoader(store.Client(), cfg.GCPProject, cfg.Dataset, log)

	var rows int
	if *gcsURI != "" {
		log.Info().Str("table", *table).Str("gcs_uri", *gcsURI).Msg("Starting ingestion")
		rows, err = loader.LoadFromGCS(ctx, *table, *gcsURI)
	} else {
		log.Info().Str("table", *table).Str("file", *file).Msg("Starting ingestion")
		var f *os.File
		f, err = os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open CSV file")
		}
		defer f.Close()
		rows, err = loader.Load(ctx, *table, f)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Loaded %d rows into %s.\n", rows, *table)
}
