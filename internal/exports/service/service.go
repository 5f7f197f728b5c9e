package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"homeserve_backend/internal/adapters/storage"
	"homeserve_backend/internal/exports/repository"
	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/internal/scheduler"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/config"
	"homeserve_backend/platform/logger"

	"github.com/google/uuid"
)

// Config bundles the settings the export runner needs.
type Config interface {
	config.ExportConfig
	config.StorageConfig
}

// Filters is the raw, wire-level filter set of a service request export.
// An unparseable date is ignored, equivalent to no date constraint.
type Filters struct {
	Status    string
	ServiceID string
	From      string
	To        string
}

// Artifact describes a produced export file.
type Artifact struct {
	FileName  string
	Path      string
	RowCount  int
	ObjectKey string
}

// ArtifactInfo describes a stored artifact in the exports directory.
type ArtifactInfo struct {
	FileName  string
	SizeBytes int64
	CreatedAt time.Time
}

// objectFolder is the bucket prefix artifacts are stored under.
const objectFolder = "exports"

// Service runs export jobs and manages their artifacts.
type Service struct {
	repo    repository.Repository
	store   storage.ObjectStore
	bucket  string
	dir     string
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// New creates the export service. store may be nil when object storage is
// disabled; artifacts then live only in the local exports directory.
func New(repo repository.Repository, store storage.ObjectStore, cfg Config, log *logger.Logger) *Service {
	timeout := cfg.GetExportTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Service{
		repo:    repo,
		store:   store,
		bucket:  cfg.GetMinIOExportsBucket(),
		dir:     cfg.GetExportsDir(),
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Compile-time check that Service can process queued export tasks.
var _ scheduler.ExportProcessor = (*Service)(nil)

// Run exports every service request matching the filters to a timestamped
// CSV artifact and returns it with the row count.
func (s *Service) Run(ctx context.Context, filters Filters) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter, err := buildFilter(filters)
	if err != nil {
		return nil, err
	}

	// A filter on a nonexistent service is an error, never an empty artifact.
	if filter.ServiceID != nil {
		exists, err := s.repo.ServiceExists(ctx, *filter.ServiceID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("service not found")
		}
	}

	rows, err := s.repo.ListRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("service_requests_%s.csv", s.now().UTC().Format("20060102T150405"))
	artifact, err := s.writeArtifact(ctx, fileName, func(w *csv.Writer) error {
		return writeRequestRows(w, rows)
	})
	if err != nil {
		return nil, err
	}

	artifact.RowCount = len(rows)
	s.log.Info("export produced", "file", artifact.FileName, "rows", artifact.RowCount)
	return artifact, nil
}

// RunProfessional exports every request handled by one professional,
// prefixed with an info block and aggregate statistics. An unknown
// professional is a not-found error, never an empty artifact.
func (s *Service) RunProfessional(ctx context.Context, professionalID uuid.UUID) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	info, err := s.repo.GetProfessionalInfo(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRequestsForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("professional_%s_%s.csv", professionalID, s.now().UTC().Format("20060102T150405"))
	artifact, err := s.writeArtifact(ctx, fileName, func(w *csv.Writer) error {
		if err := writeProfessionalHeader(w, info, rows); err != nil {
			return err
		}
		return writeRequestRows(w, rows)
	})
	if err != nil {
		return nil, err
	}

	artifact.RowCount = len(rows)
	s.log.Info("professional export produced", "file", artifact.FileName, "rows", artifact.RowCount)
	return artifact, nil
}

// ListArtifacts returns the stored artifacts, newest first.
func (s *Service) ListArtifacts(ctx context.Context) ([]ArtifactInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ArtifactInfo{}, nil
		}
		return nil, fmt.Errorf("read exports dir: %w", err)
	}

	artifacts := make([]ArtifactInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		fileInfo, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, ArtifactInfo{
			FileName:  entry.Name(),
			SizeBytes: fileInfo.Size(),
			CreatedAt: fileInfo.ModTime().UTC(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

// ArtifactPath resolves an artifact name to its path on disk.
func (s *Service) ArtifactPath(fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || !strings.HasSuffix(fileName, ".csv") {
		return "", apperr.Validation("invalid artifact name")
	}

	path := filepath.Join(s.dir, fileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", apperr.NotFound("artifact not found")
		}
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	return path, nil
}

// PresignArtifact returns a short-lived download URL for an uploaded
// artifact. Requires object storage to be enabled.
func (s *Service) PresignArtifact(ctx context.Context, fileName string) (*storage.PresignedURL, error) {
	if _, err := s.ArtifactPath(fileName); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, apperr.Conflict("object storage is not enabled")
	}

	key := filepath.ToSlash(filepath.Join(objectFolder, fileName))
	presigned, err := s.store.GenerateDownloadURL(ctx, s.bucket, key)
	if err != nil {
		return nil, apperr.Dependency("presign artifact", err)
	}
	return presigned, nil
}

// DeleteArtifact removes an artifact from disk and, when object storage is
// enabled, from the bucket. The object delete is best-effort.
func (s *Service) DeleteArtifact(ctx context.Context, fileName string) error {
	path, err := s.ArtifactPath(fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove artifact: %w", err)
	}

	if s.store != nil {
		key := filepath.ToSlash(filepath.Join(objectFolder, fileName))
		if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
			s.log.Warn("artifact object delete failed", "file", fileName, "error", err)
		}
	}
	return nil
}

// ProcessServiceRequestExport runs a queued filtered export.
func (s *Service) ProcessServiceRequestExport(ctx context.Context, payload scheduler.ServiceRequestExportPayload) error {
	_, err := s.Run(ctx, Filters{
		Status:    payload.Status,
		ServiceID: payload.ServiceID,
		From:      payload.From,
		To:        payload.To,
	})
	return err
}

// ProcessProfessionalExport runs a queued professional-scoped export.
func (s *Service) ProcessProfessionalExport(ctx context.Context, payload scheduler.ProfessionalExportPayload) error {
	professionalID, err := uuid.Parse(payload.ProfessionalID)
	if err != nil {
		return apperr.Validation("invalid professional id")
	}
	_, err = s.RunProfessional(ctx, professionalID)
	return err
}

// writeArtifact writes one CSV file under the exports directory and uploads
// it to object storage when enabled. The upload is best-effort; the local
// artifact is the source of truth.
func (s *Service) writeArtifact(ctx context.Context, fileName string, write func(w *csv.Writer) error) (*Artifact, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports dir: %w", err)
	}

	path := filepath.Join(s.dir, fileName)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := write(writer); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("flush artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close artifact: %w", err)
	}

	artifact := &Artifact{FileName: fileName, Path: path}
	if s.store != nil {
		artifact.ObjectKey = s.uploadArtifact(ctx, path, fileName)
	}
	return artifact, nil
}

func (s *Service) uploadArtifact(ctx context.Context, path, fileName string) string {
	file, err := os.Open(path)
	if err != nil {
		s.log.Warn("artifact upload skipped", "file", fileName, "error", err)
		return ""
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		s.log.Warn("artifact upload skipped", "file", fileName, "error", err)
		return ""
	}

	key, err := s.store.UploadFile(ctx, s.bucket, objectFolder, fileName, "text/csv", file, stat.Size())
	if err != nil {
		s.log.Warn("artifact upload failed", "file", fileName, "error", err)
		return ""
	}
	return key
}

// buildFilter converts wire-level filters into repository predicates. Dates
// that fail to parse are dropped rather than rejected.
func buildFilter(filters Filters) (repository.Filter, error) {
	var filter repository.Filter

	if filters.Status != "" {
		status := domain.Status(strings.ToLower(strings.TrimSpace(filters.Status)))
		if !status.Valid() {
			return repository.Filter{}, apperr.Validation("unknown status filter")
		}
		value := string(status)
		filter.Status = &value
	}

	if filters.ServiceID != "" {
		serviceID, err := uuid.Parse(filters.ServiceID)
		if err != nil {
			return repository.Filter{}, apperr.Validation("invalid service id filter")
		}
		filter.ServiceID = &serviceID
	}

	filter.From = parseDate(filters.From)
	if to := parseDate(filters.To); to != nil {
		// An inclusive date upper bound covers the whole day.
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	return filter, nil
}

func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil
	}
	return &parsed
}

func writeRequestRows(w *csv.Writer, rows []repository.ExportRow) error {
	header := []string{"request_id", "status", "service", "customer", "professional", "price", "address", "requested_at", "completed_at"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		professional := ""
		if row.ProfessionalName != nil {
			professional = *row.ProfessionalName
		}
		completedAt := ""
		if row.CompletedAt != nil {
			completedAt = row.CompletedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			row.RequestID.String(),
			row.Status,
			row.ServiceName,
			row.CustomerName,
			professional,
			formatPrice(row.PriceCents),
			row.Address,
			row.RequestedAt.UTC().Format(time.RFC3339),
			completedAt,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeProfessionalHeader emits the info block and aggregate statistics that
// precede the rows of a professional-scoped export.
func writeProfessionalHeader(w *csv.Writer, info repository.ProfessionalInfo, rows []repository.ExportRow) error {
	total := len(rows)
	completed := 0
	for _, row := range rows {
		if row.Status == string(domain.StatusCompleted) {
			completed++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}

	records := [][]string{
		{"professional", info.Name},
		{"email", info.Email},
		{"service", info.ServiceName},
		{"experience_years", fmt.Sprintf("%d", info.ExperienceYears)},
		{"average_rating", fmt.Sprintf("%.2f", info.AverageRating)},
		{"total_requests", fmt.Sprintf("%d", total)},
		{"completed_requests", fmt.Sprintf("%d", completed)},
		{"completion_rate", fmt.Sprintf("%.1f%%", rate)},
		{},
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
