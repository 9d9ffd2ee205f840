package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultHistoryLimit = 50

// SQLiteResolutionRepository implements ResolutionRepository using SQLite
type SQLiteResolutionRepository struct {
	db *gorm.DB
}

// NewSQLiteResolutionRepository creates a new SQLite repository
func NewSQLiteResolutionRepository(dbPath string) (*SQLiteResolutionRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Resolution{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteResolutionRepository{db: db}, nil
}

// Create stores a new resolution record
func (r *SQLiteResolutionRepository) Create(resolution *domain.Resolution) error {
	return r.db.Create(resolution).Error
}

// FindByID finds a resolution by ID
func (r *SQLiteResolutionRepository) FindByID(id string) (*domain.Resolution, error) {
	var resolution domain.Resolution
	err := r.db.First(&resolution, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrResolutionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resolution, nil
}

// FindRecent returns the newest resolutions first
func (r *SQLiteResolutionRepository) FindRecent(limit int, filters domain.ResolutionFilter) ([]*domain.Resolution, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var resolutions []*domain.Resolution
	query := r.db.Model(&domain.Resolution{})
	if filters.Platform != "" {
		query = query.Where("platform = ?", filters.Platform)
	}
	if filters.Success != nil {
		query = query.Where("success = ?", *filters.Success)
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&resolutions).Error
	return resolutions, err
}

// GetStats returns resolution statistics
func (r *SQLiteResolutionRepository) GetStats() (*domain.ResolutionStats, error) {
	stats := &domain.ResolutionStats{
		ByPlatform: make(map[domain.Platform]int64),
		ByError:    make(map[domain.ErrorKind]int64),
	}

	if err := r.db.Model(&domain.Resolution{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.Resolution{}).Where("success = ?", true).Count(&stats.Succeeded).Error; err != nil {
		return nil, err
	}
	stats.Failed = stats.Total - stats.Succeeded

	if err := r.db.Model(&domain.Resolution{}).Where("relay_url <> ''").Count(&stats.Relayed).Error; err != nil {
		return nil, err
	}

	platformCounts := []struct {
		Platform domain.Platform
		Count    int64
	}{}
	if err := r.db.Model(&domain.Resolution{}).
		Select("platform, count(*) as count").
		Where("platform <> ''").
		Group("platform").
		Scan(&platformCounts).Error; err != nil {
		return nil, err
	}
	for _, pc := range platformCounts {
		stats.ByPlatform[pc.Platform] = pc.Count
	}

	errorCounts := []struct {
		ErrorKind domain.ErrorKind
		Count     int64
	}{}
	if err := r.db.Model(&domain.Resolution{}).
		Select("error_kind, count(*) as count").
		Where("success = ?", false).
		Group("error_kind").
		Scan(&errorCounts).Error; err != nil {
		return nil, err
	}
	for _, ec := range errorCounts {
		stats.ByError[ec.ErrorKind] = ec.Count
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteResolutionRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
