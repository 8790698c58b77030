package httpserver

import (
	"net/http"

	"barzinhos/internal/domain"
)

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Auth.Register(r.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toUser(u), "Usuário registrado com sucesso!")
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, loginDTO{AccessToken: sess.Token, TokenType: "Bearer", User: toUser(sess.User)}, "")
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.Me(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUser(u), "")
}

func (h *Handlers) registerEstablishment(w http.ResponseWriter, r *http.Request) {
	var in registerEstablishmentInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e := in.establishment()
	e.UserID = 0
	_, e, err := h.Auth.RegisterEstablishment(r.Context(), in.Email, in.Password, e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toEstablishment(e, domain.RatingSummary{}),
		"Estabelecimento registrado com sucesso. Aguardando aprovação.")
}
