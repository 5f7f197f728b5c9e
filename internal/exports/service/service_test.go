package service

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"homeserve_backend/internal/exports/repository"
	"homeserve_backend/platform/apperr"
	"homeserve_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	rows           []repository.ExportRow
	info           repository.ProfessionalInfo
	infoErr        error
	lastFilter     repository.Filter
	missingService bool
}

func (f *fakeRepo) ListRequests(_ context.Context, filter repository.Filter) ([]repository.ExportRow, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func (f *fakeRepo) ListRequestsForProfessional(context.Context, uuid.UUID) ([]repository.ExportRow, error) {
	return f.rows, nil
}

func (f *fakeRepo) GetProfessionalInfo(context.Context, uuid.UUID) (repository.ProfessionalInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeRepo) ServiceExists(context.Context, uuid.UUID) (bool, error) {
	return !f.missingService, nil
}

type testConfig struct {
	dir string
}

func (c testConfig) GetExportsDir() string           { return c.dir }
func (c testConfig) GetExportTimeout() time.Duration { return time.Minute }
func (c testConfig) GetMinIOEndpoint() string        { return "" }
func (c testConfig) GetMinIOAccessKey() string       { return "" }
func (c testConfig) GetMinIOSecretKey() string       { return "" }
func (c testConfig) GetMinIOUseSSL() bool            { return false }
func (c testConfig) GetMinIOExportsBucket() string   { return "" }
func (c testConfig) IsMinIOEnabled() bool            { return false }

func newTestService(t *testing.T, repo repository.Repository) *Service {
	t.Helper()
	return New(repo, nil, testConfig{dir: t.TempDir()}, logger.New("development"))
}

func sampleRow(status string) repository.ExportRow {
	professional := "Ravi"
	return repository.ExportRow{
		RequestID:        uuid.New(),
		Status:           status,
		ServiceName:      "Plumbing",
		CustomerName:     "Asha",
		ProfessionalName: &professional,
		PriceCents:       14900,
		Address:          "12 Gandhi Road",
		RequestedAt:      time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC),
	}
}

func readArtifact(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open artifact: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	return records
}

func TestRun_WritesArtifactWithRowCount(t *testing.T) {
	repo := &fakeRepo{rows: []repository.ExportRow{sampleRow("completed"), sampleRow("requested")}}
	svc := newTestService(t, repo)

	artifact, err := svc.Run(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.RowCount != 2 {
		t.Fatalf("expected row count 2, got %d", artifact.RowCount)
	}

	records := readArtifact(t, artifact.Path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "request_id" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][5] != "149.00" {
		t.Fatalf("expected formatted price 149.00, got %q", records[1][5])
	}
}

func TestRun_FilterMapping(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	serviceID := uuid.New()

	_, err := svc.Run(context.Background(), Filters{
		Status:    "Completed",
		ServiceID: serviceID.String(),
		From:      "2026-08-01",
		To:        "not-a-date",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.lastFilter.Status == nil || *repo.lastFilter.Status != "completed" {
		t.Fatalf("expected normalized status filter, got %v", repo.lastFilter.Status)
	}
	if repo.lastFilter.ServiceID == nil || *repo.lastFilter.ServiceID != serviceID {
		t.Fatalf("expected service filter, got %v", repo.lastFilter.ServiceID)
	}
	if repo.lastFilter.From == nil || !repo.lastFilter.From.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected from filter, got %v", repo.lastFilter.From)
	}
	// An unparseable date is ignored, equivalent to no constraint.
	if repo.lastFilter.To != nil {
		t.Fatalf("expected invalid to-date to be dropped, got %v", repo.lastFilter.To)
	}
}

func TestRun_UnknownStatusIsRejected(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Run(context.Background(), Filters{Status: "archived"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRun_UnknownServiceIsNotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepo{missingService: true})

	_, err := svc.Run(context.Background(), Filters{ServiceID: uuid.NewString()})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Never an empty artifact for an unknown service.
	artifacts, err := svc.ListArtifacts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(artifacts))
	}
}

func TestRunProfessional_StatsHeader(t *testing.T) {
	repo := &fakeRepo{
		rows: []repository.ExportRow{sampleRow("completed"), sampleRow("completed"), sampleRow("rejected"), sampleRow("cancelled")},
		info: repository.ProfessionalInfo{Name: "Ravi", Email: "ravi@example.com", ServiceName: "Plumbing", ExperienceYears: 6, AverageRating: 4.25},
	}
	svc := newTestService(t, repo)

	artifact, err := svc.RunProfessional(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"professional,Ravi",
		"total_requests,4",
		"completed_requests,2",
		"completion_rate,50.0%",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected artifact to contain %q, got:\n%s", want, text)
		}
	}
}

func TestRunProfessional_ZeroRequestsIsZeroRate(t *testing.T) {
	repo := &fakeRepo{info: repository.ProfessionalInfo{Name: "Ravi"}}
	svc := newTestService(t, repo)

	artifact, err := svc.RunProfessional(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.RowCount != 0 {
		t.Fatalf("expected zero rows, got %d", artifact.RowCount)
	}

	content, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if !strings.Contains(string(content), "completion_rate,0.0%") {
		t.Fatalf("expected 0.0%% completion rate, got:\n%s", content)
	}
}

func TestRunProfessional_UnknownProfessionalIsNotFound(t *testing.T) {
	repo := &fakeRepo{infoErr: apperr.NotFound("professional not found")}
	svc := newTestService(t, repo)

	_, err := svc.RunProfessional(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Never an empty artifact for an unknown professional.
	artifacts, err := svc.ListArtifacts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts) != 0 {
		t.Fatalf("expected no artifacts, got %d", len(artifacts))
	}
}

func TestDeleteArtifact_RemovesFile(t *testing.T) {
	svc := newTestService(t, &fakeRepo{rows: []repository.ExportRow{sampleRow("completed")}})

	artifact, err := svc.Run(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteArtifact(context.Background(), artifact.FileName); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ArtifactPath(artifact.FileName); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected artifact to be gone, got %v", err)
	}
	if err := svc.DeleteArtifact(context.Background(), artifact.FileName); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPresignArtifact_RequiresObjectStorage(t *testing.T) {
	svc := newTestService(t, &fakeRepo{rows: []repository.ExportRow{sampleRow("completed")}})

	artifact, err := svc.Run(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.PresignArtifact(context.Background(), artifact.FileName); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict with storage disabled, got %v", err)
	}
	if _, err := svc.PresignArtifact(context.Background(), "missing.csv"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestArtifactPath_RejectsTraversalAndMissing(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	if _, err := svc.ArtifactPath("../../etc/passwd"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for traversal, got %v", err)
	}
	if _, err := svc.ArtifactPath("report.txt"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for non-csv, got %v", err)
	}
	if _, err := svc.ArtifactPath("missing.csv"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
