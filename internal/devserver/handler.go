package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the REST API over a Backend.
type Handler struct {
	backend *Backend
	logger  *zap.Logger
	router  chi.Router
}

// NewHandler builds the router. logger may be nil.
func NewHandler(b *Backend, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{backend: b, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admins/login", h.login)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Post("/", h.createProject)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", h.getProject)
				r.Put("/", h.updateProject)
				r.Get("/milestones", h.projectMilestones)
				r.Post("/milestones", h.addProjectMilestone)
				r.Post("/milestones/{milestoneID}", h.attachMilestone)
				r.Delete("/milestones/{milestoneID}", h.detachMilestone)
			})
		})

		r.Route("/milestones", func(r chi.Router) {
			r.Get("/", h.listMilestones)
			r.Post("/", h.createMilestone)
			r.Get("/{milestoneID}", h.getMilestone)
			r.Put("/{milestoneID}", h.updateMilestone)
			r.Get("/{milestoneID}/criteria", h.milestoneCriteria)
		})

		r.Route("/criteria", func(r chi.Router) {
			r.Post("/", h.createCriterion)
			r.Put("/{criterionID}", h.updateCriterion)
			r.Delete("/{criterionID}", h.deleteCriterion)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if !h.decode(w, r, &creds) {
		return
	}
	admin, err := h.backend.Authenticate(r.Context(), creds.Email, creds.Password)
	h.respond(w, http.StatusOK, admin, err)
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := h.backend.ListProjects(r.Context())
	h.respond(w, http.StatusOK, ps, err)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var d types.ProjectDraft
	if !h.decode(w, r, &d) {
		return
	}
	p, err := h.backend.CreateProject(r.Context(), d)
	h.respond(w, http.StatusCreated, p, err)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	p, err := h.backend.GetProject(r.Context(), id)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var d types.ProjectDraft
	if !h.decode(w, r, &d) {
		return
	}
	p, err := h.backend.UpdateProject(r.Context(), id, d)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) projectMilestones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	ms, err := h.backend.ProjectMilestones(r.Context(), id)
	h.respond(w, http.StatusOK, ms, err)
}

func (h *Handler) addProjectMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var d types.ProjectMilestoneDraft
	if !h.decode(w, r, &d) {
		return
	}
	m, err := h.backend.AddProjectMilestone(r.Context(), id, d)
	h.respond(w, http.StatusCreated, m, err)
}

func (h *Handler) attachMilestone(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	mid, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	p, err := h.backend.AttachMilestone(r.Context(), pid, mid)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) detachMilestone(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	mid, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	p, err := h.backend.DetachMilestone(r.Context(), pid, mid)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) listMilestones(w http.ResponseWriter, r *http.Request) {
	ms, err := h.backend.ListMilestones(r.Context())
	h.respond(w, http.StatusOK, ms, err)
}

func (h *Handler) createMilestone(w http.ResponseWriter, r *http.Request) {
	var d types.MilestoneDraft
	if !h.decode(w, r, &d) {
		return
	}
	m, err := h.backend.CreateMilestone(r.Context(), d)
	h.respond(w, http.StatusCreated, m, err)
}

func (h *Handler) getMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	m, err := h.backend.GetMilestone(r.Context(), id)
	h.respond(w, http.StatusOK, m, err)
}

func (h *Handler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	var d types.MilestoneDraft
	if !h.decode(w, r, &d) {
		return
	}
	m, err := h.backend.UpdateMilestone(r.Context(), id, d)
	h.respond(w, http.StatusOK, m, err)
}

func (h *Handler) milestoneCriteria(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}
	cs, err := h.backend.MilestoneCriteria(r.Context(), id)
	h.respond(w, http.StatusOK, cs, err)
}

func (h *Handler) createCriterion(w http.ResponseWriter, r *http.Request) {
	var d types.CriterionDraft
	if !h.decode(w, r, &d) {
		return
	}
	c, err := h.backend.CreateCriterion(r.Context(), d)
	h.respond(w, http.StatusCreated, c, err)
}

func (h *Handler) updateCriterion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "criterionID")
	if !ok {
		return
	}
	var d types.CriterionTitle
	if !h.decode(w, r, &d) {
		return
	}
	c, err := h.backend.UpdateCriterion(r.Context(), id, d)
	h.respond(w, http.StatusOK, c, err)
}

func (h *Handler) deleteCriterion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "criterionID")
	if !ok {
		return
	}
	if err := h.backend.DeleteCriterion(r.Context(), id); err != nil {
		h.respond(w, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v and checks its required fields. It writes
// a 400 and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("malformed body: %v", err)})
		return false
	}
	if err := form.Validate(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return false
	}
	return true
}

// respond writes v with status, or maps err to an error response.
func (h *Handler) respond(w http.ResponseWriter, status int, v any, err error) {
	switch {
	case err == nil:
		writeJSON(w, status, v)
	case errors.Is(err, types.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		h.logger.Error("backend failure", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("%s: %v", param, types.ErrInvalidID)})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
