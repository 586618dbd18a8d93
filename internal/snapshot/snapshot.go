// Package snapshot mirrors the catalog into a local SQLite database and serves it as a
// product source for offline use.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lukman83/vitrine/internal/models"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/schema"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath is where the snapshot lives when no path is configured.
const DefaultPath = "vitrine.db"

type productRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	Title       string `gorm:"not null"`
	Price       float64
	Description string
	Category    string `gorm:"index"`
	Image       string
	SyncedAt    time.Time
}

func (productRow) TableName() string { return "products" }

func toRow(p models.Product, at time.Time) productRow {
	return productRow{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    string(p.Category),
		Image:       p.Image,
		SyncedAt:    at,
	}
}

func (r productRow) product() models.Product {
	return models.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Category:    models.Category(r.Category),
		Image:       r.Image,
	}
}

// Store is a SQLite-backed platform.Source.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the snapshot database at path and migrates it.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&productRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate snapshot: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Sync replaces the mirror with the full upstream catalog in one transaction and returns
// the number of products stored. On error the previous mirror is kept.
func (s *Store) Sync(ctx context.Context, src platform.Source) (int, error) {
	products, err := src.List(ctx, "")
	if err != nil {
		return 0, err
	}
	platform.ReportProgress(ctx, "Writing %d products to snapshot...", len(products))

	at := s.now().UTC()
	rows := make([]productRow, len(products))
	for i, p := range products {
		rows[i] = toRow(p, at)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&productRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SyncedAt returns when the mirror was last synced, zero if it is empty.
func (s *Store) SyncedAt(ctx context.Context) (time.Time, error) {
	var r productRow
	err := s.db.WithContext(ctx).Order("synced_at DESC").Limit(1).Find(&r).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return r.SyncedAt, nil
}

func (s *Store) List(ctx context.Context, query string) ([]models.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platform.Normalize(ctx, platform.OpList, 0, err)
	}
	products := make([]models.Product, len(rows))
	for i, r := range rows {
		products[i] = r.product()
	}
	products = platform.FilterQuery(products, query)
	if err := schema.ValidateProducts(products); err != nil {
		return nil, platform.ValidationError(platform.OpList, 0, err)
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id int) (*models.Product, error) {
	r, err := s.find(ctx, s.db.WithContext(ctx), platform.OpGet, id)
	if err != nil {
		return nil, err
	}
	p := r.product()
	if err := schema.ValidateProduct(p); err != nil {
		return nil, platform.ValidationError(platform.OpGet, id, err)
	}
	return &p, nil
}

// Create stores in under the next free id.
func (s *Store) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in.ID = 0
	if err := schema.ValidateInput(in, schema.Create); err != nil {
		return nil, platform.ValidationError(platform.OpCreate, 0, err)
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int
		if err := tx.Model(&productRow{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		p = in.Product(maxID + 1)
		return tx.Create(ptr(toRow(p, s.now().UTC()))).Error
	})
	if err != nil {
		return nil, platform.Normalize(ctx, platform.OpCreate, 0, err)
	}
	return &p, nil
}

func (s *Store) Update(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := schema.ValidateInput(in, schema.Update); err != nil {
		return nil, platform.ValidationError(platform.OpUpdate, in.ID, err)
	}

	p := in.Product(in.ID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.find(ctx, tx, platform.OpUpdate, in.ID); err != nil {
			return err
		}
		return tx.Save(ptr(toRow(p, s.now().UTC()))).Error
	})
	if err != nil {
		return nil, platform.Normalize(ctx, platform.OpUpdate, in.ID, err)
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&productRow{}, id)
	if res.Error != nil {
		return platform.Normalize(ctx, platform.OpDelete, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return platform.HTTPError(platform.OpDelete, id, http.StatusNotFound)
	}
	return nil
}

func (s *Store) find(ctx context.Context, tx *gorm.DB, op string, id int) (*productRow, error) {
	var r productRow
	if err := tx.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platform.HTTPError(op, id, http.StatusNotFound)
		}
		return nil, platform.Normalize(ctx, op, id, err)
	}
	return &r, nil
}

func ptr[T any](v T) *T { return &v }
