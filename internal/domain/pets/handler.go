package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pawgrammers/internal/middleware"
	"pawgrammers/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RouteOptions configura RegisterRoutes.
type RouteOptions struct {
	// RequireAuth: si es true, create/update/delete exigen claims en el contexto.
	// En modo dev (sin verifier) queda en false y la API es abierta.
	RequireAuth bool

	Log logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, opts RouteOptions) {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(map[string]any{"module": "pets"})

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))

		pr.Group(func(wr chi.Router) {
			if opts.RequireAuth {
				wr.Use(middleware.RequireClaims)
			}
			wr.Post("/", createPetHandler(svc, log))
			wr.Put("/{petID}", replacePetHandler(svc, log))
			wr.Patch("/{petID}", patchPetHandler(svc, log))
			wr.Delete("/{petID}", deletePetHandler(svc, log))
		})
	})
}

// petRequest es el body de POST y PUT.
type petRequest struct {
	Name  string `json:"name" example:"Rex"`
	Breed string `json:"breed" example:"labrador"`
	Age   *int   `json:"age,omitempty" example:"3"`
	URL   string `json:"url,omitempty" example:"https://example.com/rex.jpg"`
}

// petResponse usa "_id" para ser compatible con el front original.
type petResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	Age       *int      `json:"age,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// listPetsHandler godoc
// @Summary      List pets
// @Tags         pets
// @Produce      json
// @Success      200  {array}   petResponse
// @Failure      500  {object}  errorResponse
// @Router       /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list pets failed", map[string]any{"err": err})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary      Get a pet
// @Tags         pets
// @Produce      json
// @Param        petID  path      string  true  "Pet ID"
// @Success      200    {object}  petResponse
// @Failure      404    {object}  errorResponse
// @Router       /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// createPetHandler godoc
// @Summary      Create a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        pet  body      petRequest  true  "Pet"
// @Success      201  {object}  petResponse
// @Failure      400  {object}  errorResponse
// @Router       /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), req.fields())
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("pet created", map[string]any{"pet_id": p.ID, "by": actor(r)})
		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// replacePetHandler godoc
// @Summary      Replace a pet's fields
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        petID  path      string      true  "Pet ID"
// @Param        pet    body      petRequest  true  "Pet"
// @Success      200    {object}  petResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /pets/{petID} [put]
func replacePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Replace(r.Context(), chi.URLParam(r, "petID"), req.fields())
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("pet updated", map[string]any{"pet_id": p.ID, "by": actor(r)})
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// patchPetHandler godoc
// @Summary      Update some of a pet's fields
// @Description  Only the fields present are changed; "age": null clears the age.
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        petID  path      string      true  "Pet ID"
// @Param        pet    body      petRequest  true  "Partial pet"
// @Success      200    {object}  petResponse
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /pets/{petID} [patch]
func patchPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Para soportar "age": null necesitamos detectar presencia del campo.
		// Estrategia: decodificar a map primero y después cada campo por separado.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var patch Patch
		for key, v := range raw {
			var err error
			switch key {
			case "name":
				patch.Name, err = decodeString(v)
			case "breed":
				patch.Breed, err = decodeString(v)
			case "url":
				patch.PictureURL, err = decodeString(v)
			case "age":
				if string(v) == "null" {
					patch.ClearAge = true
					continue
				}
				var age int
				err = json.Unmarshal(v, &age)
				patch.Age = &age
			default:
				// _id, created_at, etc. se ignoran (el front reenvía el objeto completo)
			}
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid value for "+key)
				return
			}
		}

		p, err := svc.Apply(r.Context(), chi.URLParam(r, "petID"), patch)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("pet patched", map[string]any{"pet_id": p.ID, "by": actor(r)})
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary      Delete a pet
// @Description  Always 200; deletedCount is 0 when nothing matched.
// @Tags         pets
// @Produce      json
// @Param        petID  path      string  true  "Pet ID"
// @Success      200    {object}  deleteResponse
// @Failure      500    {object}  errorResponse
// @Router       /pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		n, err := svc.Delete(r.Context(), petID)
		if err != nil {
			log.Error("delete pet failed", map[string]any{"pet_id": petID, "err": err})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info("pet deleted", map[string]any{"pet_id": petID, "deleted": n, "by": actor(r)})
		writeJSON(w, http.StatusOK, deleteResponse{DeletedCount: n})
	}
}

func (req petRequest) fields() Fields {
	return Fields{
		Name:       req.Name,
		Breed:      req.Breed,
		Age:        req.Age,
		PictureURL: req.URL,
	}
}

func decodeString(v json.RawMessage) (*string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func actor(r *http.Request) string {
	if c, ok := middleware.GetClaims(r.Context()); ok {
		return c.Actor()
	}
	return "anonymous"
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Breed:     p.Breed,
		Age:       p.Age,
		URL:       p.PictureURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "pet not found")
	default:
		log.Error("pets service error", map[string]any{"err": err})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
