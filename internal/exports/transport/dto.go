// Package transport defines request/response DTOs for the exports API.
package transport

import "time"

// RunExportRequest triggers a filtered service request export. Date filters
// use YYYY-MM-DD; an unparseable date is treated as no constraint.
type RunExportRequest struct {
	Status    string `json:"status" validate:"omitempty,oneof=requested assigned completed cancelled rejected"`
	ServiceID string `json:"serviceId" validate:"omitempty,uuid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Async     bool   `json:"async"`
}

// ExportResponse describes a synchronously produced artifact.
type ExportResponse struct {
	FileName  string `json:"fileName"`
	RowCount  int    `json:"rowCount"`
	ObjectKey string `json:"objectKey,omitempty"`
}

// EnqueuedResponse acknowledges an export queued for background execution.
type EnqueuedResponse struct {
	Enqueued bool   `json:"enqueued"`
	TaskType string `json:"taskType"`
}

// ArtifactResponse is one stored artifact.
type ArtifactResponse struct {
	FileName  string    `json:"fileName"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArtifactListResponse wraps the stored artifacts.
type ArtifactListResponse struct {
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// PresignedURLResponse carries a short-lived object storage download URL.
type PresignedURLResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}
