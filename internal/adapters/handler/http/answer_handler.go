package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type AnswerHandler struct {
	service ports.AnswerService
}

func NewAnswerHandler(service ports.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		service: service,
	}
}

type submitAnswerRequest struct {
	QuestionID        string   `json:"question_id"`
	RespondentID      string   `json:"respondent_id"`
	SelectedOptionIDs []string `json:"selected_option_ids"`
	FreeText          *string  `json:"free_text"`
}

type answerResponse struct {
	ID                uuid.UUID   `json:"id"`
	QuestionID        uuid.UUID   `json:"question_id"`
	RespondentID      uuid.UUID   `json:"respondent_id"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids,omitempty"`
	FreeText          *string     `json:"free_text,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

func newAnswerResponse(a *domain.Answer) answerResponse {
	resp := answerResponse{
		ID:           a.ID,
		QuestionID:   a.QuestionID,
		RespondentID: a.RespondentID,
		CreatedAt:    a.CreatedAt,
	}
	switch p := a.Payload.(type) {
	case domain.SelectedOptions:
		resp.SelectedOptionIDs = p.OptionIDs
	case domain.FreeText:
		text := p.Text
		resp.FreeText = &text
	}
	return resp
}

// Submit godoc
// @Summary      Records a respondent's answer to a question
// @Description  Choice questions take selected_option_ids, text questions take free_text. A respondent answers each question once.
// @Tags         answer
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      404
// @Failure      409
// @Router       /answer [post]
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	questionID, err := parseUUID("question_id", req.QuestionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondentID, err := parseUUID("respondent_id", req.RespondentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	optionIDs, err := parseUUIDs("selected_option_ids", req.SelectedOptionIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := h.service.Submit(r.Context(), ports.SubmitAnswerInput{
		QuestionID:        questionID,
		RespondentID:      respondentID,
		SelectedOptionIDs: optionIDs,
		FreeText:          req.FreeText,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAnswerResponse(answer))
}
