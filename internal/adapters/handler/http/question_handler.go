package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

// optionRequest accepts either a bare title string or {"id": ..., "title": ...}.
type optionRequest struct {
	ID    *string `json:"id"`
	Title string  `json:"title"`
}

func (o *optionRequest) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		o.Title = title
		return nil
	}
	type plain optionRequest
	return json.Unmarshal(data, (*plain)(o))
}

type questionRequest struct {
	PollID  string          `json:"poll_id"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Options []optionRequest `json:"options"`
}

func (req *questionRequest) parse() (uuid.UUID, domain.QuestionType, error) {
	pollID, err := parseUUID("poll_id", req.PollID)
	if err != nil {
		return uuid.Nil, "", err
	}
	typ, err := domain.ParseQuestionType(req.Type)
	if err != nil {
		return uuid.Nil, "", err
	}
	return pollID, typ, nil
}

// Create godoc
// @Summary      Adds a question with its options to a poll
// @Tags         question
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201
// @Failure      400
// @Failure      404
// @Router       /question [post]
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pollID, typ, err := req.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}

	titles := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		titles = append(titles, opt.Title)
	}

	question, err := h.service.Create(r.Context(), ports.CreateQuestionInput{
		PollID:  pollID,
		Title:   req.Title,
		Type:    typ,
		Options: titles,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// Update godoc
// @Summary      Replaces a question and reconciles its options
// @Description  Options with an id are updated, options without one are added, and stored options missing from the list are removed. Omitting options leaves them untouched.
// @Tags         question
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200
// @Failure      400
// @Failure      404
// @Failure      409
// @Router       /question/{id} [put]
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pollID, typ, err := req.parse()
	if err != nil {
		writeError(w, r, err)
		return
	}

	var options []ports.OptionInput
	if req.Options != nil {
		options = make([]ports.OptionInput, 0, len(req.Options))
		for _, opt := range req.Options {
			in := ports.OptionInput{Title: opt.Title}
			if opt.ID != nil {
				optionID, err := parseUUID("options", *opt.ID)
				if err != nil {
					writeError(w, r, err)
					return
				}
				in.ID = &optionID
			}
			options = append(options, in)
		}
	}

	question, err := h.service.Update(r.Context(), ports.UpdateQuestionInput{
		ID:      id,
		PollID:  pollID,
		Title:   req.Title,
		Type:    typ,
		Options: options,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *QuestionHandler) ListByPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseUUID("poll_id", chi.URLParam(r, "poll_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.service.ListByPoll(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	results, err := h.service.Results(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
