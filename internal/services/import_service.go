package services

import (
	"context"
	"fmt"
	"log/slog"

	"trashday/internal/amqp"
	"trashday/internal/core"
	"trashday/internal/dataset"
	"trashday/internal/dataset/csvfile"
	"trashday/internal/metrics"
)

// UpdatePublisher announces new dataset versions.
type UpdatePublisher interface {
	PublishDatasetUpdated(ctx context.Context, msg *amqp.DatasetUpdatedMessage) error
}

// ImportService loads a CSV export into the store and announces the new
// version. A nil publisher disables announcements.
type ImportService struct {
	importer  dataset.Importer
	publisher UpdatePublisher
}

func NewImportService(importer dataset.Importer, publisher UpdatePublisher) *ImportService {
	return &ImportService{
		importer:  importer,
		publisher: publisher,
	}
}

// ImportResult describes a completed import.
type ImportResult struct {
	Source    string
	Version   int
	Records   int
	Published bool
}

// ImportFile replaces the stored dataset with the contents of a CSV file.
func (s *ImportService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	loader := csvfile.New(path)
	records, err := loader.ReadRecords()
	if err != nil {
		return ImportResult{}, err
	}
	return s.Import(ctx, loader.Name(), records)
}

// Import validates records, stores them and publishes the new version.
// Publish failures are logged; the stored data is already committed.
func (s *ImportService) Import(ctx context.Context, source string, records []core.Record) (ImportResult, error) {
	if _, err := core.NewDataset(source, records); err != nil {
		return ImportResult{}, core.NewLoadError(source, err)
	}

	version, err := s.importer.ReplaceAll(ctx, records)
	if err != nil {
		return ImportResult{}, fmt.Errorf("replace dataset: %w", err)
	}

	result := ImportResult{
		Source:  source,
		Version: version,
		Records: len(records),
	}

	slog.InfoContext(ctx, "Dataset imported",
		"component", "import",
		"source", source,
		"version", version,
		"rows", len(records))

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping dataset update message")
		return result, nil
	}

	msg := amqp.NewDatasetUpdatedMessage(source, version, len(records))
	err = s.publisher.PublishDatasetUpdated(ctx, msg)
	metrics.RecordPublish(version, err)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish dataset update message",
			"version", version,
			"error", err)
		return result, nil
	}
	result.Published = true
	return result, nil
}
