package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResearchRequest is the body for both research endpoints
type ResearchRequest struct {
	// Website is the company website to research, e.g. https://example.com or example.com
	Website string `json:"website" validate:"required,min=4,max=500"`
	// Recipient is the email address the PDF report is sent to
	Recipient string `json:"recipient,omitempty" validate:"omitempty,email"`
	// SendEmail controls whether the report is emailed to Recipient
	SendEmail bool `json:"sendEmail,omitempty"`
	// UploadToStorage controls whether the PDF is persisted through the storage backend
	UploadToStorage bool `json:"uploadToStorage,omitempty"`
	// FolderID overrides the default storage folder (Drive mode only)
	FolderID string `json:"folderId,omitempty" validate:"omitempty,max=200"`
	// ReturnData includes the raw vendor payloads in the response
	ReturnData bool `json:"returnData,omitempty"`
}

// StorageResultDTO reports the outcome of the storage upload step
// A failed upload never fails the research request; the error is surfaced here
type StorageResultDTO struct {
	Uploaded bool   `json:"uploaded"`
	Path     string `json:"path,omitempty"`
	ViewLink string `json:"viewLink,omitempty"`
	Error    string `json:"error,omitempty"`
}

// EmailResultDTO reports the outcome of the email delivery step
// A failed send never fails the research request; the error is surfaced here
type EmailResultDTO struct {
	Sent      bool   `json:"sent"`
	Recipient string `json:"recipient,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ResearchResponse is returned by the synchronous research endpoints
type ResearchResponse struct {
	Status      string            `json:"status"`
	Kind        ResearchKind      `json:"kind"`
	Website     string            `json:"website"`
	CompanyName string            `json:"companyName"`
	ReportID    uuid.UUID         `json:"reportId"`
	Filename    string            `json:"filename"`
	GeneratedBy string            `json:"generatedBy"`
	SizeBytes   int64             `json:"sizeBytes"`
	Storage     *StorageResultDTO `json:"storage,omitempty"`
	Email       *EmailResultDTO   `json:"email,omitempty"`
	// RawData carries the vendor payloads when the request asked for them back
	RawData   map[string]interface{} `json:"rawData,omitempty"`
	ElapsedMs int64                  `json:"elapsedMs"`
}

// JobAcceptedResponse is returned when a background research job is queued
type JobAcceptedResponse struct {
	JobID     uuid.UUID `json:"jobId"`
	Status    JobStatus `json:"status"`
	StatusURL string    `json:"statusUrl"`
}

// JobDTO is the API representation of a background research job
type JobDTO struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ResearchKind `json:"kind"`
	Website     string       `json:"website"`
	CompanyName string       `json:"companyName,omitempty"`
	Status      JobStatus    `json:"status"`
	Recipient   string       `json:"recipient,omitempty"`
	StartedAt   *string      `json:"startedAt,omitempty"` // ISO 8601
	FinishedAt  *string      `json:"finishedAt,omitempty"`
	Error       string       `json:"error,omitempty"`
	ReportID    *uuid.UUID   `json:"reportId,omitempty"`
	CreatedAt   string       `json:"createdAt"`
}

// ReportDTO is the API representation of a stored report
type ReportDTO struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ResearchKind `json:"kind"`
	Website     string       `json:"website"`
	CompanyName string       `json:"companyName"`
	Filename    string       `json:"filename"`
	StoragePath string       `json:"storagePath,omitempty"`
	StorageLink string       `json:"storageLink,omitempty"`
	SizeBytes   int64        `json:"sizeBytes"`
	GeneratedBy string       `json:"generatedBy"`
	EmailedTo   string       `json:"emailedTo,omitempty"`
	CreatedAt   string       `json:"createdAt"`
}

// StorageFileDTO describes a file listed from the storage backend
type StorageFileDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	SizeBytes    int64  `json:"sizeBytes,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	ViewLink     string `json:"viewLink,omitempty"`
}

// PaginatedResponse wraps a list endpoint response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// MessageResponse wraps a human-readable confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ToDTO converts a ResearchJob to its API representation
func (j *ResearchJob) ToDTO() JobDTO {
	dto := JobDTO{
		ID:          j.ID,
		Kind:        j.Kind,
		Website:     j.Website,
		CompanyName: j.CompanyName,
		Status:      j.Status,
		Recipient:   j.Recipient,
		Error:       j.Error,
		ReportID:    j.ReportID,
		CreatedAt:   j.CreatedAt.Format(time.RFC3339),
	}
	if j.StartedAt != nil {
		s := j.StartedAt.Format(time.RFC3339)
		dto.StartedAt = &s
	}
	if j.FinishedAt != nil {
		s := j.FinishedAt.Format(time.RFC3339)
		dto.FinishedAt = &s
	}
	return dto
}

// ToDTO converts a Report to its API representation
func (r *Report) ToDTO() ReportDTO {
	return ReportDTO{
		ID:          r.ID,
		Kind:        r.Kind,
		Website:     r.Website,
		CompanyName: r.CompanyName,
		Filename:    r.Filename,
		StoragePath: r.StoragePath,
		StorageLink: r.StorageLink,
		SizeBytes:   r.SizeBytes,
		GeneratedBy: r.GeneratedBy,
		EmailedTo:   r.EmailedTo,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
