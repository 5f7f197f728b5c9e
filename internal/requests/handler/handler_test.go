package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homeserve_backend/internal/requests/domain"
	"homeserve_backend/platform/httpkit"
)

func newActorContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestMustGetActor(t *testing.T) {
	userID := uuid.New()

	t.Run("valid role yields actor", func(t *testing.T) {
		c, _ := newActorContext(t)
		c.Set(httpkit.ContextUserIDKey, userID)
		c.Set(httpkit.ContextRoleKey, "professional")

		actor, ok := mustGetActor(c)
		if !ok {
			t.Fatal("expected an actor")
		}
		if actor.ID != userID || actor.Role != domain.RoleProfessional {
			t.Fatalf("unexpected actor: %+v", actor)
		}
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		c, recorder := newActorContext(t)
		c.Set(httpkit.ContextUserIDKey, userID)
		c.Set(httpkit.ContextRoleKey, "superuser")

		if _, ok := mustGetActor(c); ok {
			t.Fatal("expected no actor for an unknown role")
		}
		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		c, recorder := newActorContext(t)

		if _, ok := mustGetActor(c); ok {
			t.Fatal("expected no actor without auth context")
		}
		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})
}
