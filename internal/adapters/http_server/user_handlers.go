package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"barzinhos/internal/app"
	"barzinhos/internal/domain"
)

func (h *Handlers) mountUsers(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Post("/", h.createUser)
	r.Get("/{id}", h.getUser)
	r.Put("/{id}", h.updateUser)
	r.Delete("/{id}", h.deleteUser)
}

type userInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userPatchInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (in userPatchInput) update() app.UserUpdate {
	u := app.UserUpdate{Username: in.Username, Email: in.Email, Password: in.Password}
	if in.Role != nil {
		role := domain.Role(*in.Role)
		u.Role = &role
	}
	return u
}

func toUsers(us []domain.User) []userDTO {
	out := make([]userDTO, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u))
	}
	return out
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := len(us)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: toUsers(us), Count: &n})
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Username == "" {
		writeError(w, r, domain.Invalid("username", "required field"))
		return
	}
	u, err := h.Users.Create(r.Context(), in.Username, in.Email, in.Password, domain.Role(in.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toUser(u), "Usuário criado com sucesso")
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUser(u), "")
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in userPatchInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Users.Update(r.Context(), id, in.update())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUser(u), "Usuário atualizado com sucesso")
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
