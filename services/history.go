package services

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vicradon/ytdl-web/models"
)

const (
	DefaultHistoryLimit = 50
	maxMemoryRecords    = 500
)

// HistoryStore persists download records.
type HistoryStore interface {
	SaveDownload(record *models.DownloadRecord) error
	LoadDownloads(limit int) ([]models.DownloadRecord, error)
}

// HistoryService keeps a log of download attempts, in memory and, when a
// store is configured, in the database.
type HistoryService struct {
	records []*models.DownloadRecord
	mu      sync.RWMutex
	store   HistoryStore
	storage *StorageService
}

func NewHistoryService(store HistoryStore, storage *StorageService) *HistoryService {
	return &HistoryService{
		store:   store,
		storage: storage,
	}
}

// Record logs the outcome of one download request.
func (s *HistoryService) Record(req models.DownloadRequest, path string, downloadErr error) *models.DownloadRecord {
	record := &models.DownloadRecord{
		ID:        uuid.New().String(),
		URL:       req.URL,
		Type:      req.Type,
		Format:    req.Format,
		Quality:   req.Quality,
		CreatedAt: time.Now(),
	}
	if downloadErr != nil {
		msg := downloadErr.Error()
		record.Error = &msg
	} else {
		record.Filename = &path
		if s.storage != nil {
			record.Size = s.storage.FileSize(path)
		}
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	if len(s.records) > maxMemoryRecords {
		s.records = s.records[len(s.records)-maxMemoryRecords:]
	}
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveDownload(record); err != nil {
			log.Printf("Failed to save download to database: %v", err)
		}
	}

	return record
}

// Recent returns up to limit records, newest first.
func (s *HistoryService) Recent(limit int) []models.DownloadRecord {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if s.store != nil {
		records, err := s.store.LoadDownloads(limit)
		if err == nil {
			return records
		}
		log.Printf("Error loading downloads from database: %v", err)
	}

	return s.fromMemory(limit)
}

func (s *HistoryService) fromMemory(limit int) []models.DownloadRecord {
	s.mu.RLock()
	records := make([]models.DownloadRecord, len(s.records))
	for i, record := range s.records {
		records[i] = *record
	}
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records
}
