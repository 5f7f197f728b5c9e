package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/internal/requests/repository"
	"homeserve_backend/internal/requests/service"
	"homeserve_backend/internal/requests/transport"
	"homeserve_backend/platform/httpkit"
	"homeserve_backend/platform/validator"
)

// Handler handles HTTP requests for the service request lifecycle.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid request ID"
)

// New creates a new service requests handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create creates a new service request.
// POST /api/v1/customer/requests
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID retrieves a single service request.
// GET /api/v1/requests/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListMine lists the acting customer's own requests.
// GET /api/v1/customer/requests
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForCustomer(c.Request.Context(), actor.ID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListOpen lists requested requests the professional can act on.
// GET /api/v1/professional/requests/open
func (h *Handler) ListOpen(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.ListOpenForProfessional(c.Request.Context(), actor.ID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAssigned lists requests assigned to or resolved by the professional.
// GET /api/v1/professional/requests
func (h *Handler) ListAssigned(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.ListForProfessional(c.Request.Context(), actor.ID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAll lists requests with optional filters (admin only).
// GET /api/v1/admin/requests
func (h *Handler) ListAll(c *gin.Context) {
	var query transport.ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	filter, err := buildFilter(query)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListAll(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Assign claims a requested request for the acting professional.
// POST /api/v1/professional/requests/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	h.transition(c, domain.EventAssign, service.TransitionPayload{})
}

// Reject declines a request addressed to the acting professional.
// POST /api/v1/professional/requests/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	var req transport.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	h.transition(c, domain.EventReject, service.TransitionPayload{Reason: req.Reason})
}

// Complete marks an assigned request as done.
// POST /api/v1/professional/requests/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, domain.EventComplete, service.TransitionPayload{})
}

// Cancel withdraws the customer's own request.
// POST /api/v1/customer/requests/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, domain.EventCancel, service.TransitionPayload{})
}

// SubmitReview attaches a review to a completed request.
// POST /api/v1/customer/requests/:id/review
func (h *Handler) SubmitReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.SubmitReview(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) transition(c *gin.Context, event domain.Event, payload service.TransitionPayload) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.svc.ApplyTransition(c.Request.Context(), actor, id, event, payload)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func mustGetActor(c *gin.Context) (domain.Actor, bool) {
	id, ok := httpkit.MustGetUserID(c)
	if !ok {
		return domain.Actor{}, false
	}
	roleValue, ok := httpkit.GetRole(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthenticated", nil)
		return domain.Actor{}, false
	}
	role, ok := domain.ParseRole(roleValue)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, "unknown role", nil)
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}

func buildFilter(query transport.ListRequestsQuery) (repository.ListFilter, error) {
	var filter repository.ListFilter

	if query.Status != "" {
		status := domain.Status(query.Status)
		if !status.Valid() {
			return filter, errInvalidFilter("status")
		}
		filter.Status = &status
	}
	if query.ServiceID != "" {
		id, err := uuid.Parse(query.ServiceID)
		if err != nil {
			return filter, errInvalidFilter("serviceId")
		}
		filter.ServiceID = &id
	}
	if query.ProfessionalID != "" {
		id, err := uuid.Parse(query.ProfessionalID)
		if err != nil {
			return filter, errInvalidFilter("professionalId")
		}
		filter.ProfessionalID = &id
	}
	if query.CustomerID != "" {
		id, err := uuid.Parse(query.CustomerID)
		if err != nil {
			return filter, errInvalidFilter("customerId")
		}
		filter.CustomerID = &id
	}
	if query.From != "" {
		t, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return filter, errInvalidFilter("from")
		}
		filter.From = &t
	}
	if query.To != "" {
		t, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return filter, errInvalidFilter("to")
		}
		filter.To = &t
	}
	return filter, nil
}

type filterError string

func (e filterError) Error() string { return string(e) }

func errInvalidFilter(field string) error {
	return filterError("invalid filter value: " + field)
}
