package database

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vicradon/ytdl-web/models"
	"github.com/vicradon/ytdl-web/services"
)

var _ services.HistoryStore = (*Store)(nil)

func TestInitRejectsUnreachableDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database connection test in short mode")
	}

	_, err := Init("host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1")
	if err == nil {
		t.Fatal("Init() should fail when postgres is unreachable")
	}
}

// Runs against a real postgres when TEST_DATABASE_URL is set.
func TestStoreSaveAndLoad(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := Init(dsn)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer store.Close()

	base := time.Now().Add(time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		filename := "/d/clip.mp4"
		record := &models.DownloadRecord{
			ID:        uuid.New().String(),
			URL:       "https://youtu.be/abc123",
			Type:      models.MediaVideo,
			Format:    "mp4",
			Quality:   "720",
			Filename:  &filename,
			Size:      int64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveDownload(record); err != nil {
			t.Fatalf("SaveDownload() error = %v", err)
		}
		ids = append(ids, record.ID)
	}
	defer store.DB.Where("id IN ?", ids).Delete(&models.DownloadRecord{})

	records, err := store.LoadDownloads(2)
	if err != nil {
		t.Fatalf("LoadDownloads() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("LoadDownloads(2) returned %d records", len(records))
	}
	if records[0].ID != ids[2] || records[1].ID != ids[1] {
		t.Errorf("records not newest first: got %s, %s", records[0].ID, records[1].ID)
	}
	if !records[0].Succeeded() || records[0].Format != "mp4" {
		t.Errorf("record = %+v", records[0])
	}
}
