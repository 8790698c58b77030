// internal/adapters/http_server/handlers.go
package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"barzinhos/internal/app"
	"barzinhos/internal/domain"
)

type Handlers struct {
	Q       *app.QueryService
	Cmd     *app.EstablishmentService
	Auth    *app.AuthService
	Notify  *app.NotificationService
	Users   *app.UserService
	Limiter *RateLimiter // nil disables throttling
}

func (s *Server) MountHandlers(h *Handlers) {
	m := s.mux
	m.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API Barzinhos está online!"))
	})
	health := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
	m.Get("/health", health)
	m.Get("/healthz", health)

	m.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth))

		r.Get("/establishments", h.listEstablishments)
		r.Get("/establishments/stats", h.stats)
		r.Get("/establishments/{id}", h.getEstablishment)
		r.Get("/neighborhoods", h.neighborhoods)
		r.Get("/types", h.types)
		r.With(RequireAuth).Get("/auth/me", h.me)

		r.Group(func(r chi.Router) {
			r.Use(h.Limiter.Middleware)

			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
			r.Post("/auth/register-establishment", h.registerEstablishment)
			r.Post("/establishments/{id}/reviews", h.createReview)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/establishments", h.createEstablishment)
				r.Put("/establishments/{id}", h.updateEstablishment)
				r.Delete("/establishments/{id}", h.deleteEstablishment)
				r.Post("/establishments/{id}/images", h.createImage)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				r.Put("/establishments/{id}/approval", h.setApproval)
				r.Route("/automation", h.mountAutomation)
				r.Route("/users", h.mountUsers)
			})
		})
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

func principal(r *http.Request) domain.Principal {
	p, _ := PrincipalFrom(r.Context())
	return p
}

// ---- reads ----

func (h *Handlers) listEstablishments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var approvedOnly *string
	if q.Has("approved_only") {
		v := q.Get("approved_only")
		approvedOnly = &v
	}
	f := domain.FilterFromParams(q.Get("search"), q.Get("neighborhood"), q.Get("type"), q.Get("is_open"), approvedOnly)
	out, err := h.Q.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := len(out)
	writeCached(w, r, envelope{Success: true, Data: toList(out), Count: &n})
}

func (h *Handlers) getEstablishment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Q.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, envelope{Success: true, Data: toDetail(v)})
}

func (h *Handlers) neighborhoods(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Neighborhoods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out, "")
}

func (h *Handlers) types(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Types(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, out, "")
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Q.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, statsDTO{Total: st.Total, Approved: st.Approved, Open: st.Open}, "")
}

// ---- writes ----

func (h *Handlers) createEstablishment(w http.ResponseWriter, r *http.Request) {
	var in establishmentInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.Cmd.Create(r.Context(), principal(r), in.establishment())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toEstablishment(e, domain.RatingSummary{}), "Estabelecimento criado com sucesso")
}

func (h *Handlers) updateEstablishment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in establishmentInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.Cmd.Update(r.Context(), principal(r), id, in.patch()); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeEstablishment(w, r, id, http.StatusOK, "Estabelecimento atualizado com sucesso")
}

func (h *Handlers) setApproval(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in approvalInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Approved == nil {
		writeError(w, r, domain.Invalid("approved", "required field"))
		return
	}
	if _, err := h.Cmd.SetApproval(r.Context(), principal(r), id, *in.Approved); err != nil {
		writeError(w, r, err)
		return
	}
	msg := "Estabelecimento aprovado"
	if !*in.Approved {
		msg = "Estabelecimento rejeitado"
	}
	h.writeEstablishment(w, r, id, http.StatusOK, msg)
}

// writeEstablishment re-reads id so the response carries its current rating.
func (h *Handlers) writeEstablishment(w http.ResponseWriter, r *http.Request, id int64, status int, msg string) {
	v, err := h.Q.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, status, toEstablishment(v.Establishment, v.Rating), msg)
}

func (h *Handlers) deleteEstablishment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Cmd.Delete(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Estabelecimento removido com sucesso"})
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in reviewInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rv, err := in.review(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Cmd.AddReview(r.Context(), rv)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toReview(out), "Avaliação criada com sucesso")
}

func (h *Handlers) createImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in imageInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.Cmd.AddImage(r.Context(), principal(r), domain.Image{EstablishmentID: id, URL: in.ImageURL, IsPrimary: in.IsPrimary})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toImage(img), "Imagem adicionada com sucesso")
}
