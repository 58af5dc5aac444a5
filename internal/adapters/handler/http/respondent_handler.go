package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type RespondentHandler struct {
	service     ports.RespondentService
	pollService ports.PollService
}

func NewRespondentHandler(service ports.RespondentService, pollService ports.PollService) *RespondentHandler {
	return &RespondentHandler{
		service:     service,
		pollService: pollService,
	}
}

// Register godoc
// @Summary      Issues a new anonymous respondent identity
// @Tags         respondent
// @Produce      json
// @Success      201
// @Router       /respondent [post]
func (h *RespondentHandler) Register(w http.ResponseWriter, r *http.Request) {
	respondent, err := h.service.Register(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, respondent)
}

func (h *RespondentHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	history, err := h.pollService.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
