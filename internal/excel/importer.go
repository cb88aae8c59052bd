package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/database"
	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/pkg/models"
)

// ImportConfig defines the topic catalog import configuration. The expected
// row layout is: name, body system, parent topic name, description.
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	SheetName  string // Name of the sheet to import (Excel only)
	SkipHeader bool   // Skip the first row
}

// DefaultImportConfig returns the default import configuration.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:  "Sheet1",
		SkipHeader: true,
	}
}

// ImportResult holds the result of an import operation.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportTopics loads topics from an Excel or CSV file into the catalog.
// Existing topics (matched by name) are skipped, never overwritten: the
// catalog is append-only from the importer's perspective. A row's parent
// column may reference a topic created earlier in the same file.
func ImportTopics(ctx context.Context, cfg ImportConfig) (*ImportResult, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	repo := database.NewTopicRepository()
	result := &ImportResult{Errors: []string{}}

	existing, err := repo.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing topics: %w", err)
	}
	idByName := make(map[string]int64, len(existing))
	for _, topic := range existing {
		idByName[strings.ToLower(topic.Name)] = topic.ID
	}

	start := 0
	if cfg.SkipHeader {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		result.TotalProcessed++
		if err := importRow(ctx, rows[i], repo, idByName, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func importRow(ctx context.Context, row []string, repo *database.TopicRepository, idByName map[string]int64, result *ImportResult) error {
	name := column(row, 0)
	if name == "" {
		result.Skipped++
		return nil
	}
	if _, ok := idByName[strings.ToLower(name)]; ok {
		result.Skipped++
		return nil
	}

	topic := &models.Topic{
		Name:        name,
		SystemName:  column(row, 1),
		Description: column(row, 3),
	}
	if parentName := column(row, 2); parentName != "" {
		parentID, ok := idByName[strings.ToLower(parentName)]
		if !ok {
			return fmt.Errorf("unknown parent topic %q", parentName)
		}
		topic.ParentID = &parentID
	}

	if err := repo.Create(ctx, topic); err != nil {
		return err
	}
	idByName[strings.ToLower(name)] = topic.ID
	result.Created++
	return nil
}

func column(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readRows(cfg ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSV(cfg.FilePath)
	}
	return readExcel(cfg)
}

func readExcel(cfg ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
