package controllers

import (
	"context"
	"net/http"
	"time"

	"toyblog/app/middleware"

	"github.com/sirupsen/logrus"
)

// PagesController renders the static marketing pages and the dashboard
type PagesController struct {
	views *Renderer
}

func NewPagesController(views *Renderer) *PagesController {
	return &PagesController{views: views}
}

func (pc *PagesController) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pc.views.Render(w, r, http.StatusOK, name, Page{Title: title})
	}
}

func (pc *PagesController) Home() http.HandlerFunc     { return pc.page("home", "Toy World") }
func (pc *PagesController) Toys() http.HandlerFunc     { return pc.page("toys", "Toys") }
func (pc *PagesController) ToyRent() http.HandlerFunc  { return pc.page("toy_rent", "Toy rental") }
func (pc *PagesController) Contact() http.HandlerFunc  { return pc.page("contact", "Contact") }
func (pc *PagesController) Services() http.HandlerFunc { return pc.page("services", "Services") }

// Dashboard greets the signed-in user
func (pc *PagesController) Dashboard(w http.ResponseWriter, r *http.Request) {
	pc.views.Render(w, r, http.StatusOK, "dashboard", Page{Title: "Dashboard", Data: middleware.SessionFrom(r.Context())})
}

// AdminRedirect sends admins to the dashboard
func (pc *PagesController) AdminRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// NotFound answers unmatched routes, in JSON under /api
func (pc *PagesController) NotFound(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAPIRequest(r) {
		sendJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Not found"})
		return
	}
	pc.views.NotFound(w, r, "The page "+r.URL.Path+" does not exist")
}

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports whether the store is reachable
type HealthController struct {
	store Pinger
	log   logrus.FieldLogger
}

func NewHealthController(store Pinger, log logrus.FieldLogger) *HealthController {
	return &HealthController{store: store, log: log}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := hc.store.Ping(ctx); err != nil {
		hc.log.WithError(err).Warn("health check failed")
		sendJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
