package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/companyintel/research-api/internal/domain"
)

// setupTestDB opens an in-memory SQLite database with the production schema.
// The Postgres migrations use gen_random_uuid() defaults that SQLite cannot
// evaluate, so the schema is declared here; the BeforeCreate hooks assign IDs.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE reports (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			kind TEXT NOT NULL,
			website TEXT NOT NULL,
			company_name TEXT NOT NULL,
			filename TEXT NOT NULL,
			markdown TEXT,
			storage_path TEXT,
			storage_link TEXT,
			size_bytes INTEGER,
			generated_by TEXT,
			emailed_to TEXT
		)`,
		`CREATE TABLE research_jobs (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			kind TEXT NOT NULL,
			website TEXT NOT NULL,
			company_name TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			recipient TEXT,
			drive_folder_id TEXT,
			started_at DATETIME,
			finished_at DATETIME,
			error TEXT,
			report_id TEXT
		)`,
		`CREATE TABLE vendor_cache (
			id TEXT PRIMARY KEY,
			vendor TEXT NOT NULL,
			cache_key TEXT NOT NULL,
			payload TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX idx_vendor_cache_key ON vendor_cache (vendor, cache_key)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func newJob(website string, status domain.JobStatus, createdAt time.Time) *domain.ResearchJob {
	return &domain.ResearchJob{
		BaseModel: domain.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		Kind:      domain.ResearchKindMultiSource,
		Website:   website,
		Status:    status,
	}
}

func TestJobRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(setupTestDB(t))

	job := newJob("acme.com", domain.JobStatusPending, time.Now().UTC())
	job.Recipient = "user@example.com"
	job.DriveFolderID = "folder-123"
	require.NoError(t, repo.Create(ctx, job))
	require.NotEqual(t, uuid.Nil, job.ID)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme.com", got.Website)
	assert.Equal(t, domain.ResearchKindMultiSource, got.Kind)
	assert.Equal(t, domain.JobStatusPending, got.Status)
	assert.Equal(t, "user@example.com", got.Recipient)
	assert.Equal(t, "folder-123", got.DriveFolderID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJobRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(setupTestDB(t))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newJob("a.com", domain.JobStatusCompleted, base)))
	require.NoError(t, repo.Create(ctx, newJob("b.com", domain.JobStatusPending, base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newJob("c.com", domain.JobStatusPending, base.Add(2*time.Minute))))

	jobs, total, err := repo.List(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, jobs, 3)
	assert.Equal(t, "c.com", jobs[0].Website) // newest first

	pending, total, err := repo.List(ctx, 1, 20, domain.JobStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)

	paged, total, err := repo.List(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	assert.Equal(t, "a.com", paged[0].Website)
}

func TestJobRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewJobRepository(db)

	job := newJob("acme.com", domain.JobStatusPending, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.MarkRunning(ctx, job.ID))
	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, got.Status)
	require.NotNil(t, got.StartedAt)

	report := &domain.Report{
		Kind:        domain.ResearchKindMultiSource,
		Website:     "acme.com",
		CompanyName: "Acme Corp",
		Filename:    "Acme_Corp_multi_source_report_20250601_120000.pdf",
	}
	require.NoError(t, NewReportRepository(db).Create(ctx, report))

	require.NoError(t, repo.MarkCompleted(ctx, job.ID, "Acme Corp", report.ID))
	got, err = repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	assert.Equal(t, "Acme Corp", got.CompanyName)
	require.NotNil(t, got.FinishedAt)
	require.NotNil(t, got.ReportID)
	assert.Equal(t, report.ID, *got.ReportID)
	require.NotNil(t, got.Report) // preloaded
	assert.Equal(t, "Acme Corp", got.Report.CompanyName)
}

func TestJobRepositoryMarkFailed(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(setupTestDB(t))

	job := newJob("acme.com", domain.JobStatusRunning, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.MarkFailed(ctx, job.ID, "upstream timeout"))
	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	assert.Equal(t, "upstream timeout", got.Error)
	require.NotNil(t, got.FinishedAt)
}

func TestJobRepositoryResetStuck(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(setupTestDB(t))

	now := time.Now().UTC()
	hourAgo := now.Add(-time.Hour)

	stuckRunning := newJob("stuck.com", domain.JobStatusRunning, hourAgo)
	stuckRunning.StartedAt = &hourAgo
	require.NoError(t, repo.Create(ctx, stuckRunning))

	stalePending := newJob("stale.com", domain.JobStatusPending, hourAgo)
	require.NoError(t, repo.Create(ctx, stalePending))

	freshPending := newJob("fresh.com", domain.JobStatusPending, now)
	require.NoError(t, repo.Create(ctx, freshPending))

	count, err := repo.ResetStuck(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for _, id := range []uuid.UUID{stuckRunning.ID, stalePending.ID} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusFailed, got.Status)
		assert.Equal(t, "job interrupted by service restart", got.Error)
	}

	untouched, err := repo.GetByID(ctx, freshPending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, untouched.Status)
}

func TestReportRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(setupTestDB(t))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := &domain.Report{
		BaseModel:   domain.BaseModel{CreatedAt: base, UpdatedAt: base},
		Kind:        domain.ResearchKindCoreSignal,
		Website:     "acme.com",
		CompanyName: "Acme Corp",
		Filename:    "Acme_Corp_coresignal_report_20250601_120000.pdf",
		Markdown:    "# Acme Corp",
		GeneratedBy: "template",
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Report{
		BaseModel:   domain.BaseModel{CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
		Kind:        domain.ResearchKindMultiSource,
		Website:     "other.com",
		CompanyName: "Other Inc",
		Filename:    "Other_Inc_multi_source_report_20250601_120100.pdf",
		GeneratedBy: "llm",
	}
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.CompanyName)
	assert.Equal(t, "# Acme Corp", got.Markdown)

	all, total, err := repo.List(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, "Other Inc", all[0].CompanyName)

	filtered, total, err := repo.List(ctx, 1, 20, "acme.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Acme Corp", filtered[0].CompanyName)

	got.StoragePath = "reports/acme.pdf"
	got.StorageLink = "https://drive.google.com/file/d/abc/view"
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "reports/acme.pdf", updated.StoragePath)
	assert.Equal(t, "https://drive.google.com/file/d/abc/view", updated.StorageLink)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVendorCacheRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewVendorCacheRepository(setupTestDB(t))

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok, err := repo.Get(ctx, domain.VendorCoreSignal, "acme.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, domain.VendorCoreSignal, "acme.com", `{"company_name":"Acme"}`, time.Hour))

		payload, ok, err := repo.Get(ctx, domain.VendorCoreSignal, "acme.com")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"company_name":"Acme"}`, payload)
	})

	t.Run("vendors are keyed separately", func(t *testing.T) {
		_, ok, err := repo.Get(ctx, domain.VendorApollo, "acme.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put upserts existing entry", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, domain.VendorCoreSignal, "acme.com", `{"company_name":"Acme Updated"}`, time.Hour))

		payload, ok, err := repo.Get(ctx, domain.VendorCoreSignal, "acme.com")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"company_name":"Acme Updated"}`, payload)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, domain.VendorTavily, "stale-query", `{}`, -time.Minute))

		_, ok, err := repo.Get(ctx, domain.VendorTavily, "stale-query")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("purge removes only expired entries", func(t *testing.T) {
		purged, err := repo.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		payload, ok, err := repo.Get(ctx, domain.VendorCoreSignal, "acme.com")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"company_name":"Acme Updated"}`, payload)
	})
}
