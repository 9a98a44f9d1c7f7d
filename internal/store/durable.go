//go:build !js && !wasm

package store

import (
	"encoding/json"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soundcheck-labs/constellation/internal/model"
)

// referenceRow is the gorm-mapped row for a durable reference sample.
// Fingerprints are stored as a JSON blob rather than a normalised table:
// the store contract only ever looks a sample up whole by ID, so there is
// no query that benefits from a relational fingerprint schema here.
type referenceRow struct {
	ID           string `gorm:"primaryKey"`
	Timesteps    int
	LengthSec    float64
	Fingerprints []byte
}

// Durable is a sqlite-backed Store, carried as the alternative backing the
// store contract permits. It is not the default: the service wires the
// in-memory LRU unless a caller explicitly injects this instead.
type Durable struct {
	db *gorm.DB
}

// NewDurable opens (or creates) a sqlite database at path and migrates its
// schema.
func NewDurable(path string) (*Durable, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := db.AutoMigrate(&referenceRow{}); err != nil {
		return nil, fmt.Errorf("migrating sqlite store: %w", err)
	}
	return &Durable{db: db}, nil
}

// Put serialises the sample's fingerprints as JSON and upserts the row.
func (d *Durable) Put(id string, sample *model.ReferenceSample) {
	body, err := json.Marshal(sample.Fingerprints)
	if err != nil {
		return
	}
	row := referenceRow{
		ID:           id,
		Timesteps:    sample.Timesteps,
		LengthSec:    sample.LengthSec,
		Fingerprints: body,
	}
	d.db.Save(&row)
}

// Get reconstructs the reference sample stored under id, or reports a miss.
func (d *Durable) Get(id string) (*model.ReferenceSample, bool) {
	var row referenceRow
	if err := d.db.First(&row, "id = ?", id).Error; err != nil {
		return nil, false
	}
	var fps []model.Fingerprint
	if err := json.Unmarshal(row.Fingerprints, &fps); err != nil {
		return nil, false
	}
	return &model.ReferenceSample{
		ID:           row.ID,
		Fingerprints: fps,
		Timesteps:    row.Timesteps,
		LengthSec:    row.LengthSec,
	}, true
}

// Close releases the underlying database connection.
func (d *Durable) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
