package rest

import (
	"encoding/json"
	"net/http"

	"github.com/carelink/clinic-service/internal/domain"
	appCtx "github.com/carelink/clinic-service/internal/pkg/context"
	"github.com/carelink/clinic-service/internal/repository"
	"github.com/carelink/clinic-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Handler struct {
	auth         *repository.AuthRepository
	providers    *repository.ProviderRepository
	institutions *repository.InstitutionRepository
}

func NewHandler(auth *repository.AuthRepository, providers *repository.ProviderRepository, institutions *repository.InstitutionRepository) *Handler {
	return &Handler{auth: auth, providers: providers, institutions: institutions}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeResult(w, response.Err[domain.IdentityResponse](response.ReasonValidation, "registration failed"))
		return
	}

	writeResult(w, h.auth.Register(r.Context(), traceID(r), req))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeResult(w, response.Err[domain.IdentityResponse](response.ReasonValidation, "login failed"))
		return
	}

	writeResult(w, h.auth.Login(r.Context(), req))
}

func (h *Handler) ProvidersByInstitution(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.providers.ListByInstitution(r.Context(), chi.URLParam(r, "institutionID")))
}

func (h *Handler) GeneralistsByInstitution(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.providers.ListGeneralistsByInstitution(r.Context(), chi.URLParam(r, "institutionID")))
}

func (h *Handler) ProvidersBySpecialization(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.providers.ListBySpecialization(r.Context(),
		chi.URLParam(r, "specialization"), chi.URLParam(r, "institutionID")))
}

// EditProfile lets the authenticated provider edit their own profile; the
// user id comes from the token, never the body.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := GetAuth(r.Context())
	if !ok {
		unauthorized(w, r)
		return
	}

	var req domain.EditProviderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeResult(w, response.Err[domain.Provider](response.ReasonValidation, "invalid provider data"))
		return
	}
	req.UserID = auth.UserID.String()

	writeResult(w, h.providers.EditProfile(r.Context(), req))
}

func (h *Handler) IncrementCapacity(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.providers.IncrementCapacity(r.Context(), traceID(r), chi.URLParam(r, "providerID")))
}

func (h *Handler) AddInstitution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Name == "" {
		writeResult(w, response.Err[domain.Institution](response.ReasonValidation, "institution not added"))
		return
	}

	inst := domain.Institution{Name: req.Name, Address: req.Address, City: req.City}
	writeResult(w, h.institutions.Add(r.Context(), traceID(r), inst))
}

func (h *Handler) ListInstitutions(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.institutions.ListAll(r.Context()))
}

// statusCoded is implemented by both envelope shapes.
type statusCoded interface {
	StatusCode() int
}

// writeResult serializes an envelope with its own status mapping.
func writeResult(w http.ResponseWriter, res statusCoded) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(res.StatusCode())
	_ = json.NewEncoder(w).Encode(res)
}

func traceID(r *http.Request) string {
	rid := appCtx.GetRequestID(r.Context())
	if rid == "" {
		rid = "no-request-id"
	}
	return rid
}
