package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"get-a-pet/internal/middleware"
	"get-a-pet/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

type RouteOptions struct {
	MaxUploadBytes int64
	Log            logger.Logger

	// Mutating se aplica solo a las rutas que escriben (p.ej. rate limit).
	Mutating []func(http.Handler) http.Handler
}

func RegisterRoutes(r chi.Router, svc *Service, opts RouteOptions) {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	h := handlers{svc: svc, log: opts.Log, maxUpload: opts.MaxUploadBytes}

	r.Route("/pets", func(pr chi.Router) {
		// Lecturas
		pr.Get("/", h.listPets())
		pr.Get("/mypets", h.listOwnedPets())
		pr.Get("/myadoptions", h.listAdoptedPets())
		pr.Get("/{petID}", h.getPet())

		// Escrituras
		pr.Group(func(mr chi.Router) {
			mr.Use(opts.Mutating...)

			mr.Post("/", h.createPet())
			mr.Post("/create", h.createPet())
			mr.Patch("/{petID}", h.updatePet())
			mr.Delete("/{petID}", h.deletePet())

			// Ciclo de adopción
			mr.Patch("/schedule/{petID}", h.schedulePet())
			mr.Patch("/conclude/{petID}", h.concludePet())
		})
	})
}

type handlers struct {
	svc       *Service
	log       logger.Logger
	maxUpload int64
}

// ownerResponse es el resumen público del dueño.
type ownerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Phone string `json:"phone"`
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Age           int            `json:"age"`
	Description   string         `json:"description"`
	Weight        float64        `json:"weight"`
	Color         string         `json:"color"`
	Available     bool           `json:"available"`
	Images        []string       `json:"images"`
	OwnerID       string         `json:"owner_id"`
	Owner         *ownerResponse `json:"owner,omitempty"`
	AdoptersCount int            `json:"adopters_count"`
	Adopters      []string       `json:"adopters,omitempty"` // solo visible para el dueño
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ConcludedAt   *time.Time     `json:"concluded_at,omitempty"`
}

type petEnvelope struct {
	Message string      `json:"message,omitempty"`
	Pet     petResponse `json:"pet"`
}

type petsEnvelope struct {
	Pets []petResponse `json:"pets"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// createPet godoc
// @Summary Cadastrar um novo pet
// @Description Cria um pet para adoção com o usuário autenticado como dono. Aceita multipart/form-data com uma ou mais imagens (jpg/png) no campo `images`.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param name formData string true "Nome do pet"
// @Param age formData integer true "Idade em anos"
// @Param description formData string false "Descrição"
// @Param weight formData number true "Peso em kg"
// @Param color formData string true "Cor"
// @Param images formData file false "Imagens do pet"
// @Success 201 {object} petEnvelope
// @Failure 400 {object} errorResponse "campo obrigatório ausente ou inválido"
// @Failure 401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /pets [post]
func (h handlers) createPet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}

		defer discardForm(r)
		form, err := readPetForm(w, r, h.maxUpload)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid body"})
			return
		}
		in, err := form.createInput()
		if err != nil {
			h.writeError(w, err)
			return
		}

		view, err := h.svc.Create(r.Context(), actor, in)
		if err != nil {
			h.writeError(w, err)
			return
		}

		resp := toPetResponse(view.Pet, actor.UserID)
		resp.Owner = toOwnerResponse(view)
		h.writeJSON(w, http.StatusCreated, petEnvelope{Message: msgCreated, Pet: resp})
	}
}

// listPets godoc
// @Summary Listar todos os pets
// @Tags pets
// @Produce json
// @Success 200 {object} petsEnvelope
// @Router /pets [get]
func (h handlers) listPets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		viewer, _ := identityFrom(r)
		h.writeJSON(w, http.StatusOK, toPetsEnvelope(items, viewer.UserID))
	}
}

// listOwnedPets godoc
// @Summary Listar pets do usuário autenticado
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} petsEnvelope
// @Failure 401 {object} errorResponse
// @Router /pets/mypets [get]
func (h handlers) listOwnedPets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}
		items, err := h.svc.ListOwned(r.Context(), actor)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, toPetsEnvelope(items, actor.UserID))
	}
}

// listAdoptedPets godoc
// @Summary Listar adoções do usuário autenticado
// @Description Pets para os quais o usuário agendou visita.
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} petsEnvelope
// @Failure 401 {object} errorResponse
// @Router /pets/myadoptions [get]
func (h handlers) listAdoptedPets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}
		items, err := h.svc.ListAdopted(r.Context(), actor)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, toPetsEnvelope(items, actor.UserID))
	}
}

// getPet godoc
// @Summary Obter detalhes de um pet
// @Tags pets
// @Produce json
// @Param petID path string true "ID do pet"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorResponse "ID inválido"
// @Failure 404 {object} errorResponse "Pet não encontrado"
// @Router /pets/{petID} [get]
func (h handlers) getPet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			h.writeError(w, err)
			return
		}
		viewer, _ := identityFrom(r)
		resp := toPetResponse(view.Pet, viewer.UserID)
		resp.Owner = toOwnerResponse(view)
		h.writeJSON(w, http.StatusOK, petEnvelope{Pet: resp})
	}
}

// updatePet godoc
// @Summary Atualizar informações de um pet
// @Description Apenas o dono pode editar. Novas imagens são adicionadas às existentes.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID do pet"
// @Param name formData string true "Nome do pet"
// @Param age formData integer true "Idade em anos"
// @Param description formData string false "Descrição"
// @Param weight formData number true "Peso em kg"
// @Param color formData string true "Cor"
// @Param available formData boolean true "Disponível para adoção"
// @Param images formData file false "Novas imagens"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse "Pet não encontrado ou usuário sem permissão"
// @Router /pets/{petID} [patch]
func (h handlers) updatePet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := parseID(petID); err != nil {
			h.writeError(w, err)
			return
		}

		defer discardForm(r)
		form, err := readPetForm(w, r, h.maxUpload)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid body"})
			return
		}
		in, err := form.updateInput()
		if err != nil {
			h.writeError(w, err)
			return
		}

		updated, err := h.svc.Update(r.Context(), petID, actor, in)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, petEnvelope{Message: msgUpdated, Pet: toPetResponse(updated, actor.UserID)})
	}
}

// deletePet godoc
// @Summary Remover um pet
// @Description Apenas o dono pode remover.
// @Tags pets
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID do pet"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse "ID inválido"
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse "Pet não encontrado ou usuário sem permissão"
// @Router /pets/{petID} [delete]
func (h handlers) deletePet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}
		if err := h.svc.Delete(r.Context(), chi.URLParam(r, "petID"), actor); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, messageResponse{Message: msgRemoved})
	}
}

// schedulePet godoc
// @Summary Agendar visita para conhecer/adotar um pet
// @Description Não é permitido agendar para o próprio pet nem agendar duas vezes. A resposta inclui o telefone do dono.
// @Tags adoption
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID do pet"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse "ID inválido"
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse "Pet não encontrado"
// @Failure 422 {object} errorResponse "own_pet / duplicate_schedule / unavailable"
// @Router /pets/schedule/{petID} [patch]
func (h handlers) schedulePet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}
		res, err := h.svc.Schedule(r.Context(), chi.URLParam(r, "petID"), actor)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, messageResponse{Message: res.Message})
	}
}

// concludePet godoc
// @Summary Concluir adoção de um pet
// @Description Marca o pet como indisponível (available=false). Repetir a operação não gera erro.
// @Tags adoption
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID do pet"
// @Success 200 {object} petEnvelope
// @Failure 400 {object} errorResponse "ID inválido"
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse "Pet não encontrado"
// @Router /pets/conclude/{petID} [patch]
func (h handlers) concludePet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := identityFrom(r)
		if !ok {
			h.writeError(w, ErrUnauthenticated)
			return
		}
		p, err := h.svc.Conclude(r.Context(), chi.URLParam(r, "petID"), actor)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, petEnvelope{Message: msgConcluded, Pet: toPetResponse(p, actor.UserID)})
	}
}

func identityFrom(r *http.Request) (Identity, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		return Identity{}, false
	}
	id := Identity{UserID: claims.UserID}
	return id, id.Authenticated()
}

// writeError traduce la taxonomía del dominio a HTTP. Not-found y "no sos el dueño"
// salen con el mismo cuerpo.
func (h handlers) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var ce *ConflictError

	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: ve.Message, Field: ve.Field})
	case errors.Is(err, ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Message: msgNotFound})
	case errors.As(err, &ce):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: ce.Message, Reason: string(ce.Reason)})
	case errors.Is(err, ErrUnauthenticated):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Acesso negado!"})
	default:
		h.log.Error("request failed", map[string]any{"error": err.Error()})
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func toPetResponse(p Pet, viewerID string) petResponse {
	resp := petResponse{
		ID:            p.ID,
		Name:          p.Name,
		Age:           p.Age,
		Description:   p.Description,
		Weight:        p.Weight,
		Color:         p.Color,
		Available:     p.Available,
		Images:        p.Images,
		OwnerID:       p.OwnerID,
		AdoptersCount: p.Adopters.Len(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		ConcludedAt:   p.ConcludedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if viewerID != "" && viewerID == p.OwnerID {
		resp.Adopters = p.Adopters.IDs()
	}
	return resp
}

func toOwnerResponse(v PetView) *ownerResponse {
	return &ownerResponse{
		ID:    v.Pet.OwnerID,
		Name:  v.Owner.Name,
		Image: v.Owner.Image,
		Phone: v.Owner.Phone,
	}
}

func toPetsEnvelope(items []Pet, viewerID string) petsEnvelope {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p, viewerID))
	}
	return petsEnvelope{Pets: out}
}

// writeJSON codifica antes de escribir el header: si falla, responde 500 en vez de un cuerpo vacío.
func (h handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode response", map[string]any{"error": err.Error()})
		status = http.StatusInternalServerError
		body = []byte(`{"message":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
