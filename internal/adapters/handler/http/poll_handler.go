package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
	now     func() time.Time
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
		now:     time.Now,
	}
}

type createPollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updatePollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EndDate     *time.Time `json:"end_date"`
}

// Create godoc
// @Summary      Creates a poll
// @Tags         poll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201
// @Failure      400
// @Router       /poll [post]
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updatePollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.Update(r.Context(), ports.UpdatePollInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// ListActive godoc
// @Summary      Lists the polls open right now
// @Description  A poll is open once its start date has passed and until its end date, if it has one.
// @Tags         poll
// @Produce      json
// @Success      200
// @Router       /poll/active [get]
func (h *PollHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListActive(r.Context(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

// PollHistory godoc
// @Summary      Shows one respondent's answers to a poll
// @Tags         poll
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /poll/{id}/history/{respondent_id} [get]
func (h *PollHandler) PollHistory(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondentID, err := parseUUID("respondent_id", chi.URLParam(r, "respondent_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	history, err := h.service.PollHistory(r.Context(), pollID, respondentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
