package courses

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/courseboard-go/apperror"
	"github.com/user/courseboard-go/auth"
)

// CourseHandler exposes course and announcement operations over HTTP.
type CourseHandler struct {
	service *CourseService
	feed    *Feed
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(service *CourseService, feed *Feed) *CourseHandler {
	return &CourseHandler{service: service, feed: feed}
}

// RegisterRoutes mounts the course routes on a sub-router. The caller is
// expected to have applied the session middleware already.
func (h *CourseHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.listCourses)
	router.Post("/", h.createCourse)
	router.Route("/{courseID}", func(r chi.Router) {
		r.Get("/", h.getCourse)
		r.Put("/", h.updateCourse)
		r.Delete("/", h.deleteCourse)
		r.Get("/announcements", h.listAnnouncements)
		r.Post("/announcements", h.addAnnouncement)
		r.Delete("/announcements/{announcementID}", h.deleteAnnouncement)
		r.Get("/announcements/stream", h.streamAnnouncements)
	})
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCourses(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}

	var req NewCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	course, err := h.service.CreateCourse(r.Context(), &req, user.ID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	detail, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req NewCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	course, err := h.service.UpdateCourse(r.Context(), id, &req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CourseHandler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	items, err := h.service.ListAnnouncements(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CourseHandler) addAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
		return
	}
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req NewAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	announcement, err := h.service.AddAnnouncement(r.Context(), id, &req, user.ID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, announcement)
}

func (h *CourseHandler) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	announcementID, err := strconv.Atoi(chi.URLParam(r, "announcementID"))
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid announcement ID", nil))
		return
	}
	if err := h.service.DeleteAnnouncement(r.Context(), id, announcementID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamAnnouncements serves a course's announcements as Server-Sent Events.
// The subscription lives until the client disconnects.
func (h *CourseHandler) streamAnnouncements(w http.ResponseWriter, r *http.Request) {
	id, err := courseID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	// Verify the course exists before holding the connection open.
	if _, err := h.service.GetCourse(r.Context(), id); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		auth.WriteError(w, r, apperror.NewInternalError("streaming unsupported", nil))
		return
	}

	clientID, events := h.feed.Subscribe(id)
	defer h.feed.Unsubscribe(id, clientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case a, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(a)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: announcement\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func courseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
	if err != nil {
		return 0, apperror.NewBadRequestError("invalid course ID", nil)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}
