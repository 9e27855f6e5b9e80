package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

// Loader moves CSV exports into the ledger dataset.
type Loader struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	log       zerolog.Logger
}

// NewLoader creates a loader backed by an existing BigQuery client.
func NewLoader(client *bigquery.Client, projectID, datasetID string, log zerolog.Logger) *Loader {
	return &Loader{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		log:       log,
	}
}

// splitGCSURI splits "gs://bucket/path/to/object.csv" into bucket and
// object name.
func splitGCSURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("invalid GCS URI %q: missing gs:// prefix", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q: want gs://bucket/object", uri)
	}
	return bucket, object, nil
}

// downloadObject fetches one object from GCS.
func downloadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	return data, nil
}

// LoadFromGCS downloads a CSV export from GCS and loads it into the
// named ledger table. Returns the number of rows inserted.
func (l *Loader) LoadFromGCS(ctx context.Context, table, gcsURI string) (int, error) {
	bucket, object, err := splitGCSURI(gcsURI)
	if err != nil {
		return 0, fmt.Errorf("LoadFromGCS: %w", err)
	}

	data, err := downloadObject(ctx, bucket, object)
	if err != nil {
		return 0, fmt.Errorf("LoadFromGCS: %w", err)
	}

	l.log.Info().
		Str("table", table).
		Str("gcs_uri", gcsURI).
		Int("bytes", len(data)).
		Msg("downloaded CSV export")

	return l.Load(ctx, table, bytes.NewReader(data))
}

// Load parses a CSV export and inserts its rows into the named ledger
// table. Returns the number of rows inserted.
func (l *Loader) Load(ctx context.Context, table string, r io.Reader) (int, error) {
	var (
		rows interface{}
		n    int
	)

	switch table {
	case TableBankStatements:
		parsed, err := ParseBankStatements(r)
		if err != nil {
			return 0, fmt.Errorf("Load %s: %w", table, err)
		}
		rows, n = parsed, len(parsed)
	case TableVendorInvoices:
		parsed, err := ParseVendorInvoices(r)
		if err != nil {
			return 0, fmt.Errorf("Load %s: %w", table, err)
		}
		rows, n = parsed, len(parsed)
	case TableClientInvoices:
		parsed, err := ParseClientInvoices(r)
		if err != nil {
			return 0, fmt.Errorf("Load %s: %w", table, err)
		}
		rows, n = parsed, len(parsed)
	case TablePayroll:
		parsed, err := ParsePayroll(r)
		if err != nil {
			return 0, fmt.Errorf("Load %s: %w", table, err)
		}
		rows, n = parsed, len(parsed)
	case TableExpenseReceipts:
		parsed, err := ParseExpenseReceipts(r)
		if err != nil {
			return 0, fmt.Errorf("Load %s: %w", table, err)
		}
		rows, n = parsed, len(parsed)
	default:
		return 0, fmt.Errorf("Load: unknown table %q", table)
	}

	if n == 0 {
		l.log.Warn().Str("table", table).Msg("CSV export contained no rows")
		return 0, nil
	}

	// Fully qualified table reference to avoid default-project surprises.
	dest := l.client.DatasetInProject(l.projectID, l.datasetID).Table(table)
	if err := dest.Inserter().Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("Load %s: inserting rows: %w", table, err)
	}

	l.log.Info().Str("table", table).Int("rows", n).Msg("loaded CSV export")
	return n, nil
}
