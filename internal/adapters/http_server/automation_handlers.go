package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"barzinhos/internal/app"
	"barzinhos/internal/domain"
)

const defaultLogLimit = 50

func (h *Handlers) mountAutomation(r chi.Router) {
	r.Post("/send-whatsapp", h.sendWhatsApp)
	r.Post("/welcome-message", h.welcomeMessage)
	r.Post("/approval-notification", h.approvalNotification)
	r.Post("/renewal-reminder", h.renewalReminder)
	r.Post("/upsell-message", h.upsellMessage)
	r.Get("/logs", h.automationLogs)
	r.Get("/automation-logs", h.automationLogs) // path used by existing clients
}

func (in recipientInput) recipient() (app.Recipient, error) {
	rc := app.Recipient{EstablishmentID: in.EstablishmentID, Phone: in.Phone, EstablishmentName: in.EstablishmentName}
	return rc, rc.Validate()
}

// dispatch sends n and reports the record; a failed delivery is a 502.
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, n domain.Notification, msg string) {
	rec, err := h.Notify.Dispatch(r.Context(), n)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, envelope{Data: rec, Error: "message delivery failed", Code: "delivery_failed"})
		return
	}
	writeData(w, http.StatusOK, rec, msg)
}

func (h *Handlers) sendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var in sendInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := app.CustomNotification(in.Phone, in.EstablishmentName, in.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.dispatch(w, r, n, "Mensagem enviada com sucesso")
}

func (h *Handlers) welcomeMessage(w http.ResponseWriter, r *http.Request) {
	var in recipientInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := in.recipient()
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.dispatch(w, r, app.WelcomeNotification(rc), "Mensagem de boas-vindas enviada")
}

func (h *Handlers) approvalNotification(w http.ResponseWriter, r *http.Request) {
	var in approvalNotificationInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := in.recipient()
	if err != nil {
		writeError(w, r, err)
		return
	}
	approved := in.Approved == nil || *in.Approved
	msg := "Notificação de aprovação enviada"
	if !approved {
		msg = "Notificação de rejeição enviada"
	}
	h.dispatch(w, r, app.ApprovalNotification(rc, approved), msg)
}

func (h *Handlers) renewalReminder(w http.ResponseWriter, r *http.Request) {
	var in renewalInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := in.recipient()
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.dispatch(w, r, app.RenewalNotification(rc, in.PlanType, in.DaysUntilExpiry), "Lembrete de renovação enviado")
}

func (h *Handlers) upsellMessage(w http.ResponseWriter, r *http.Request) {
	var in upsellInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := in.recipient()
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.dispatch(w, r, app.UpsellNotification(rc, in.CurrentPlan, in.ViewsCount), "Mensagem de upsell enviada")
}

func (h *Handlers) automationLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeError(w, r, domain.Invalid("limit", "must be an integer between 1 and 200"))
			return
		}
		limit = l
	}
	recs, err := h.Notify.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := len(recs)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: recs, Count: &n})
}
