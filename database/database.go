package database

import (
	"github.com/vicradon/ytdl-web/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store keeps the download history in postgres.
type Store struct {
	DB *gorm.DB
}

func Init(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return New(db)
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.DownloadRecord{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) LoadDownloads(limit int) ([]models.DownloadRecord, error) {
	var records []models.DownloadRecord
	result := s.DB.Order("created_at desc").Limit(limit).Find(&records)
	return records, result.Error
}

func (s *Store) SaveDownload(record *models.DownloadRecord) error {
	return s.DB.Save(record).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
