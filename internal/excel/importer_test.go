package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehran-shabani/Adaptive-Medical-Learning-System/internal/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.Connect(database.Config{Driver: "sqlite3", DSN: ":memory:"}))
	t.Cleanup(func() {
		require.NoError(t, database.Close())
		database.DB = nil
	})
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportTopicsFromCSV(t *testing.T) {
	setupTestDB(t)

	cfg := DefaultImportConfig()
	cfg.FilePath = writeCSV(t, ""+
		"Name,System,Parent,Description\n"+
		"Endocrine System,Endocrine,,Overview of hormonal regulation\n"+
		"Diabetic Ketoacidosis,Endocrine,Endocrine System,DKA pathophysiology\n"+
		",,,\n")

	result, err := ImportTopics(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	topics, err := database.NewTopicRepository().ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Diabetic Ketoacidosis", topics[0].Name)
	require.NotNil(t, topics[0].ParentID)
}

func TestImportTopicsSkipsExisting(t *testing.T) {
	setupTestDB(t)

	cfg := DefaultImportConfig()
	cfg.FilePath = writeCSV(t, "Name,System,Parent,Description\nSepsis,Infectious,,\n")

	first, err := ImportTopics(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := ImportTopics(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
}

func TestImportTopicsUnknownParent(t *testing.T) {
	setupTestDB(t)

	cfg := DefaultImportConfig()
	cfg.FilePath = writeCSV(t, "Name,System,Parent,Description\nDKA,Endocrine,Missing Parent,\n")

	result, err := ImportTopics(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unknown parent topic")
}
