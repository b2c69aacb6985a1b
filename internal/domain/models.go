package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// BeforeCreate assigns an ID when the database does not
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ResearchKind distinguishes the two research pipelines
type ResearchKind string

const (
	// ResearchKindMultiSource combines CoreSignal, Apollo and Tavily data
	ResearchKindMultiSource ResearchKind = "multi_source"
	// ResearchKindCoreSignal uses CoreSignal company data only
	ResearchKindCoreSignal ResearchKind = "coresignal"
)

// IsValid checks if the ResearchKind is a valid enum value
func (rk ResearchKind) IsValid() bool {
	switch rk {
	case ResearchKindMultiSource, ResearchKindCoreSignal:
		return true
	}
	return false
}

// JobStatus represents the lifecycle state of a background research job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsValid checks if the JobStatus is a valid enum value
func (js JobStatus) IsValid() bool {
	switch js {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the job will not change state again
func (js JobStatus) IsTerminal() bool {
	return js == JobStatusCompleted || js == JobStatusFailed
}

// ResearchJob represents a background research request and its outcome
type ResearchJob struct {
	BaseModel
	Kind          ResearchKind `gorm:"type:varchar(50);not null;index" json:"kind"`
	Website       string       `gorm:"type:varchar(500);not null" json:"website"`
	CompanyName   string       `gorm:"type:varchar(200);column:company_name" json:"companyName,omitempty"`
	Status        JobStatus    `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	Recipient     string       `gorm:"type:varchar(255)" json:"recipient,omitempty"`
	DriveFolderID string       `gorm:"type:varchar(200);column:drive_folder_id" json:"driveFolderId,omitempty"`
	StartedAt     *time.Time   `gorm:"column:started_at" json:"startedAt,omitempty"`
	FinishedAt    *time.Time   `gorm:"column:finished_at" json:"finishedAt,omitempty"`
	Error         string       `gorm:"type:text" json:"error,omitempty"`
	ReportID      *uuid.UUID   `gorm:"type:uuid;column:report_id" json:"reportId,omitempty"`
	Report        *Report      `gorm:"foreignKey:ReportID" json:"report,omitempty"`
}

// Report represents a generated company research report
type Report struct {
	BaseModel
	Kind        ResearchKind `gorm:"type:varchar(50);not null;index" json:"kind"`
	Website     string       `gorm:"type:varchar(500);not null;index" json:"website"`
	CompanyName string       `gorm:"type:varchar(200);not null;column:company_name" json:"companyName"`
	Filename    string       `gorm:"type:varchar(255);not null" json:"filename"`
	Markdown    string       `gorm:"type:text" json:"-"`
	// StoragePath is set when the PDF was persisted through the storage backend
	StoragePath string `gorm:"type:varchar(500);column:storage_path" json:"storagePath,omitempty"`
	// StorageLink is a browser-viewable link for cloud backends (Drive webViewLink)
	StorageLink string `gorm:"type:varchar(500);column:storage_link" json:"storageLink,omitempty"`
	SizeBytes   int64  `gorm:"column:size_bytes" json:"sizeBytes"`
	// GeneratedBy records whether the body came from the model or the template fallback
	GeneratedBy string `gorm:"type:varchar(50);column:generated_by" json:"generatedBy"`
	EmailedTo   string `gorm:"type:varchar(255);column:emailed_to" json:"emailedTo,omitempty"`
}

// VendorSource identifies an upstream data vendor for cache entries
type VendorSource string

const (
	VendorCoreSignal VendorSource = "coresignal"
	VendorApollo     VendorSource = "apollo"
	VendorTavily     VendorSource = "tavily"
)

// VendorCacheEntry stores a raw vendor response keyed by vendor and lookup key
// Entries expire after the configured TTL and are purged by the cleanup job
type VendorCacheEntry struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Vendor    VendorSource `gorm:"type:varchar(50);not null;uniqueIndex:idx_vendor_cache_key"`
	CacheKey  string       `gorm:"type:varchar(500);not null;uniqueIndex:idx_vendor_cache_key;column:cache_key"`
	Payload   string       `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time    `gorm:"not null;index;column:expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (VendorCacheEntry) TableName() string {
	return "vendor_cache"
}

// BeforeCreate assigns an ID when the database does not
func (e *VendorCacheEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the cached payload is past its TTL
func (e *VendorCacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
