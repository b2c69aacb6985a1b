package repository

import (
	"context"
	"errors"
	"time"

	"github.com/companyintel/research-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorCacheRepository stores raw vendor API responses with a TTL so repeat
// research on the same website does not burn vendor credits.
type VendorCacheRepository struct {
	db *gorm.DB
}

func NewVendorCacheRepository(db *gorm.DB) *VendorCacheRepository {
	return &VendorCacheRepository{db: db}
}

// Get returns the cached payload for a vendor and key, or ("", false) when
// the entry is missing or expired. Expired entries are left for the cleanup
// job to purge.
func (r *VendorCacheRepository) Get(ctx context.Context, vendor domain.VendorSource, key string) (string, bool, error) {
	var entry domain.VendorCacheEntry
	err := r.db.WithContext(ctx).
		First(&entry, "vendor = ? AND cache_key = ?", vendor, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if entry.IsExpired(time.Now().UTC()) {
		return "", false, nil
	}

	return entry.Payload, true, nil
}

// Put upserts a cached payload with the given TTL.
func (r *VendorCacheRepository) Put(ctx context.Context, vendor domain.VendorSource, key, payload string, ttl time.Duration) error {
	entry := domain.VendorCacheEntry{
		Vendor:    vendor,
		CacheKey:  key,
		Payload:   payload,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vendor"}, {Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at"}),
		}).
		Create(&entry).Error
}

// PurgeExpired deletes entries past their TTL and returns the count removed.
func (r *VendorCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.VendorCacheEntry{})
	return res.RowsAffected, res.Error
}
