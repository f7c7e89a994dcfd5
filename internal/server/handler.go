// internal/server/handler.go
//
// HTTP boundary for the resolution pipeline.
//
// Context
// -------
// The boundary is the only layer allowed to reject a language code: past
// this point resolvers normalize, never error.  Routes:
//
//	GET  /healthz                    – liveness probe.
//	GET  /v1/resolve                 – (language, key) → site id.
//	GET  /v1/settings                – (language, key) → merged view.
//	GET  /v1/entity                  – (tenant, language, slug|domain) → entity ref.
//	POST /v1/admin/site-keys         – idempotent SiteKey ensure.
//	POST /v1/admin/site-instances    – idempotent SiteInstance ensure.
//
// Error mapping: Invalid → 400, NotFound → 404, Transient → 503,
// anything else → 500.  Transient responses are retryable by the caller;
// 404s are not.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/videkhq/videk/internal/errs"
	"github.com/videkhq/videk/internal/language"
	"github.com/videkhq/videk/internal/resolver"
	"github.com/videkhq/videk/internal/settings"
	"github.com/videkhq/videk/internal/sitecache"
	"github.com/videkhq/videk/internal/store"
)

var validate = validator.New()

// Server wires the resolution pipeline behind chi.  Construct with New;
// zero value is unusable.
type Server struct {
	langs    *language.Set
	sites    *sitecache.Cache
	entities *resolver.EntityResolver
	views    *settings.Aggregator
	store    *store.Store
}

// New returns a Server bound to its collaborators.
func New(langs *language.Set, sites *sitecache.Cache, entities *resolver.EntityResolver,
	views *settings.Aggregator, st *store.Store) *Server {
	return &Server{langs: langs, sites: sites, entities: entities, views: views, store: st}
}

// Router assembles the middleware chain and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(accessLog, requestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Get("/settings", s.handleSettings)
		r.Get("/entity", s.handleEntity)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/site-keys", s.handleEnsureSiteKey)
			r.Post("/site-instances", s.handleEnsureSiteInstance)
		})
	})
	return r
}

//
// Read endpoints
//

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.boundaryLanguage(w, r)
	if !ok {
		return
	}

	siteID, err := s.sites.Resolve(r.Context(), lang, r.URL.Query().Get("key"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"siteId": siteID})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.boundaryLanguage(w, r)
	if !ok {
		return
	}

	siteID, err := s.sites.Resolve(r.Context(), lang, r.URL.Query().Get("key"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	view, err := s.views.View(r.Context(), lang, siteID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.boundaryLanguage(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	slug, domain := q.Get("slug"), q.Get("domain")
	if slug == "" && domain == "" {
		s.writeErr(w, errs.Invalidf("slug or domain is required"))
		return
	}
	tenantID, err := parseID(q.Get("tenant"))
	if err != nil {
		s.writeErr(w, err)
		return
	}

	et, id, err := s.entities.ResolveEntity(r.Context(), tenantID, lang, slug, domain)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entityType": et, "entityId": id})
}

//
// Admin ensure endpoints (idempotent)
//

type ensureKeyRequest struct {
	Language  string `json:"language" validate:"required"`
	Slug      string `json:"slug" validate:"required"`
	SiteID    uint64 `json:"siteId" validate:"required"`
	IsPrimary bool   `json:"isPrimary"`
}

func (s *Server) handleEnsureSiteKey(w http.ResponseWriter, r *http.Request) {
	var req ensureKeyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if !s.langs.Valid(req.Language) {
		s.writeErr(w, errs.Invalidf("unsupported language %q", req.Language))
		return
	}

	rec, err := s.store.EnsureSiteKey(r.Context(), s.langs.Normalize(req.Language),
		req.Slug, req.SiteID, req.IsPrimary)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	// The pair may now resolve differently; drop any cached resolution.
	s.sites.Invalidate(rec.Language, rec.Slug)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        rec.ID,
		"language":  rec.Language,
		"slug":      rec.Slug,
		"siteId":    rec.SiteID,
		"isPrimary": rec.IsPrimary,
	})
}

type ensureInstanceRequest struct {
	SiteID    uint64 `json:"siteId" validate:"required"`
	Language  string `json:"language" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (s *Server) handleEnsureSiteInstance(w http.ResponseWriter, r *http.Request) {
	var req ensureInstanceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if !s.langs.Valid(req.Language) {
		s.writeErr(w, errs.Invalidf("unsupported language %q", req.Language))
		return
	}

	inst, err := s.store.EnsureSiteInstance(r.Context(), req.SiteID,
		s.langs.Normalize(req.Language), req.IsDefault)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        inst.ID,
		"siteId":    inst.SiteID,
		"language":  inst.Language,
		"isDefault": inst.IsDefault,
	})
}

//
// Helpers
//

// boundaryLanguage validates the language query parameter.  This is the
// only place a language code can be rejected.
func (s *Server) boundaryLanguage(w http.ResponseWriter, r *http.Request) (string, bool) {
	lang := r.URL.Query().Get("language")
	if lang == "" || !s.langs.Valid(lang) {
		s.writeErr(w, errs.Invalidf("unsupported language %q", lang))
		return "", false
	}
	return s.langs.Normalize(lang), true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeErr(w, errs.Invalidf("malformed request body"))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.writeErr(w, errs.Invalidf("%v", err))
		return false
	}
	return true
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Invalidf("tenant id %q", raw)
	}
	return id, nil
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errs.IsInvalid(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errs.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errs.IsTransient(err):
		zap.L().Error("store unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	default:
		zap.L().Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}
