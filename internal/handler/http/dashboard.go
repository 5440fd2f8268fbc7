package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/handler/http/response"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

// keepaliveInterval spaces the pings on idle event streams
const keepaliveInterval = 30 * time.Second

type DashboardHandler interface {
	// Page renders the full dashboard and registers a session
	Page(w http.ResponseWriter, r *http.Request)
	// State returns the whole snapshot as JSON
	State(w http.ResponseWriter, r *http.Request)
	// Summary returns the summary cards
	Summary(w http.ResponseWriter, r *http.Request)
	// Chart returns a chart config and its legend
	Chart(w http.ResponseWriter, r *http.Request)
	// ToggleLegend flips one legend entry
	ToggleLegend(w http.ResponseWriter, r *http.Request)
	// Activity returns the filtered activity list
	Activity(w http.ResponseWriter, r *http.Request)
	// Refresh triggers a load outside the poll schedule
	Refresh(w http.ResponseWriter, r *http.Request)
	// ToggleSidebar handles the sidebar toggle button
	ToggleSidebar(w http.ResponseWriter, r *http.Request)
	// CloseSidebar handles the overlay and close button
	CloseSidebar(w http.ResponseWriter, r *http.Request)
	// SelectorChanged emits the toast for a header selector
	SelectorChanged(w http.ResponseWriter, r *http.Request)
	// Events streams toast and update events
	Events(w http.ResponseWriter, r *http.Request)
}

// EventStream hands out per-session event streams
type EventStream interface {
	Subscribe(sessionID string) (chan sse.Event, func())
	Publish(sessionID string, event sse.Event)
	TotalSubscribers() int
}

// EventSidebarChanged carries the new sidebar state to the session's stream
const EventSidebarChanged = "sidebar.changed"

type dashboardHandlerImpl struct {
	controller dashboard.Controller
	sessions   dashboard.SessionService
	events     EventStream
}

func NewDashboardHandler(controller dashboard.Controller, sessions dashboard.SessionService, events EventStream) DashboardHandler {
	return &dashboardHandlerImpl{
		controller: controller,
		sessions:   sessions,
		events:     events,
	}
}

type pageData struct {
	Session  dashboard.SessionView
	Snapshot dashboard.Snapshot
	Activity dashboard.ActivityView
}

// wantsJSON reports whether the client asked for JSON over an HTML fragment
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderHTML(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		response.InternalServerError(w, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Page handles GET /estadistica/
func (h *dashboardHandlerImpl) Page(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	snapshot := h.controller.Snapshot()

	renderHTML(w, "page", pageData{
		Session:  session,
		Snapshot: snapshot,
		Activity: h.controller.Activity("", ""),
	})
}

// State handles GET /dashboard/state
func (h *dashboardHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.controller.Snapshot())
}

// Summary handles GET /dashboard/summary
func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	cards := h.controller.Summary()
	if wantsJSON(r) {
		response.Success(w, cards)
		return
	}
	renderHTML(w, "summary", cards)
}

// Chart handles GET /dashboard/charts/{chart}
func (h *dashboardHandlerImpl) Chart(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.Chart(chi.URLParam(r, "chart"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// ToggleLegend handles POST /dashboard/charts/{chart}/legend/{index}
func (h *dashboardHandlerImpl) ToggleLegend(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "Legend index must be an integer", nil)
		return
	}

	legend, err := h.controller.ToggleLegendEntry(chi.URLParam(r, "chart"), index)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, legend)
}

// Activity handles GET /dashboard/activity?session=&type=&q=
func (h *dashboardHandlerImpl) Activity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category, search := query.Get("type"), query.Get("q")

	if sessionID := query.Get("session"); sessionID != "" {
		_, hasType := query["type"]
		_, hasSearch := query["q"]

		if hasType || hasSearch {
			if err := h.sessions.RememberFilter(sessionID, category, search); err != nil {
				response.HandleError(w, err)
				return
			}
		} else {
			var err error
			category, search, err = h.sessions.Filter(sessionID)
			if err != nil {
				response.HandleError(w, err)
				return
			}
		}
	}

	view := h.controller.Activity(category, search)
	if wantsJSON(r) {
		response.Success(w, view)
		return
	}
	renderHTML(w, "activity", view)
}

// Refresh handles POST /dashboard/refresh
func (h *dashboardHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.LoadDashboardData(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Datos cargados correctamente", h.controller.Snapshot())
}

// ToggleSidebar handles POST /dashboard/sessions/{id}/sidebar/toggle?width=
func (h *dashboardHandlerImpl) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(r.URL.Query().Get("width"))
	if err != nil {
		response.HandleError(w, dashboard.ErrInvalidViewport)
		return
	}

	sessionID := chi.URLParam(r, "id")
	state, err := h.sessions.ToggleSidebar(sessionID, width)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.events.Publish(sessionID, sse.Event{Event: EventSidebarChanged, Data: state})
	response.Success(w, state)
}

// CloseSidebar handles POST /dashboard/sessions/{id}/sidebar/close
func (h *dashboardHandlerImpl) CloseSidebar(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	state, err := h.sessions.CloseSidebar(sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.events.Publish(sessionID, sse.Event{Event: EventSidebarChanged, Data: state})
	response.Success(w, state)
}

// SelectorChanged handles POST /dashboard/selectors/{name}
func (h *dashboardHandlerImpl) SelectorChanged(w http.ResponseWriter, r *http.Request) {
	var req dashboard.SelectorChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.controller.SelectorChanged(chi.URLParam(r, "name"), req.Label); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, h.controller.Toast())
}

// Events streams dashboard events for one session over SSE
func (h *dashboardHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if _, err := h.sessions.Get(sessionID); err != nil {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(sessionID)
	defer cleanup()

	streams := h.events.TotalSubscribers()
	slog.Debug("Dashboard event stream opened", "session", sessionID, "streams", streams)
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"session\":%q,\"streams\":%d}\n\n", sessionID, streams)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
