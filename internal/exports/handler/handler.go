package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homeserve_backend/internal/exports/service"
	"homeserve_backend/internal/exports/transport"
	"homeserve_backend/internal/scheduler"
	"homeserve_backend/platform/httpkit"
	"homeserve_backend/platform/validator"
)

// Handler handles HTTP requests for export jobs and their artifacts.
type Handler struct {
	svc   *service.Service
	sched scheduler.SweepScheduler
	val   *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid professional ID"
)

// New creates a new exports handler. sched may be nil when the queue is
// disabled; async triggers then fall back to synchronous runs.
func New(svc *service.Service, sched scheduler.SweepScheduler, val *validator.Validator) *Handler {
	return &Handler{svc: svc, sched: sched, val: val}
}

// RunServiceRequestExport produces a filtered export, synchronously or via
// the task queue (admin only).
// POST /api/v1/admin/exports/requests
func (h *Handler) RunServiceRequestExport(c *gin.Context) {
	var req transport.RunExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if req.Async && h.sched != nil {
		err := h.sched.EnqueueServiceRequestExport(c.Request.Context(), scheduler.ServiceRequestExportPayload{
			Status:    req.Status,
			ServiceID: req.ServiceID,
			From:      req.From,
			To:        req.To,
		})
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.EnqueuedResponse{
			Enqueued: true,
			TaskType: scheduler.TaskServiceRequestExport,
		})
		return
	}

	artifact, err := h.svc.Run(c.Request.Context(), service.Filters{
		Status:    req.Status,
		ServiceID: req.ServiceID,
		From:      req.From,
		To:        req.To,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toExportResponse(artifact))
}

// RunProfessionalExport produces a professional-scoped export (admin only).
// POST /api/v1/admin/exports/professionals/:id
func (h *Handler) RunProfessionalExport(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if c.Query("async") == "true" && h.sched != nil {
		err := h.sched.EnqueueProfessionalExport(c.Request.Context(), scheduler.ProfessionalExportPayload{
			ProfessionalID: professionalID.String(),
		})
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, transport.EnqueuedResponse{
			Enqueued: true,
			TaskType: scheduler.TaskProfessionalExport,
		})
		return
	}

	artifact, err := h.svc.RunProfessional(c.Request.Context(), professionalID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toExportResponse(artifact))
}

// ListArtifacts returns stored artifacts, newest first (admin only).
// GET /api/v1/admin/exports
func (h *Handler) ListArtifacts(c *gin.Context) {
	artifacts, err := h.svc.ListArtifacts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ArtifactResponse, len(artifacts))
	for i, artifact := range artifacts {
		out[i] = transport.ArtifactResponse{
			FileName:  artifact.FileName,
			SizeBytes: artifact.SizeBytes,
			CreatedAt: artifact.CreatedAt,
		}
	}
	httpkit.OK(c, transport.ArtifactListResponse{Artifacts: out})
}

// DownloadArtifact streams one artifact as an attachment (admin only).
// GET /api/v1/admin/exports/:name
func (h *Handler) DownloadArtifact(c *gin.Context) {
	path, err := h.svc.ArtifactPath(c.Param("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

// PresignArtifact returns a short-lived object storage URL for one artifact
// (admin only).
// GET /api/v1/admin/exports/:name/url
func (h *Handler) PresignArtifact(c *gin.Context) {
	presigned, err := h.svc.PresignArtifact(c.Request.Context(), c.Param("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PresignedURLResponse{
		URL:       presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	})
}

// DeleteArtifact removes one artifact (admin only).
// DELETE /api/v1/admin/exports/:name
func (h *Handler) DeleteArtifact(c *gin.Context) {
	if err := h.svc.DeleteArtifact(c.Request.Context(), c.Param("name")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func toExportResponse(artifact *service.Artifact) transport.ExportResponse {
	return transport.ExportResponse{
		FileName:  artifact.FileName,
		RowCount:  artifact.RowCount,
		ObjectKey: artifact.ObjectKey,
	}
}
