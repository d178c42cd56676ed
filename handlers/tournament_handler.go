package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pong-ledger/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type createTournamentRequest struct {
	PlayerCount int `json:"player_count"`
}

type registerRequest struct {
	Alias string `json:"alias"`
}

// GetCurrent godoc
// @Summary Текущий турнир
// @Tags tournament
// @Description Возвращает снапшот активного турнира или {"active": false}.
// @Produce json
// @Success 200 {object} models.TournamentSnapshot
// @Router /tournament/current [get]
func (h *TournamentHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.tournamentService.Current(r.Context()), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать турнир
// @Tags tournament
// @Description Заменяет активный турнир новым, пустым.
// @Accept json
// @Produce json
// @Param body body createTournamentRequest true "Количество игроков (2-8)"
// @Success 201 {object} models.TournamentSnapshot
// @Failure 400 {object} map[string]string "Некорректное количество игроков"
// @Router /tournament/create [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.Create(r.Context(), input.PlayerCount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Register godoc
// @Summary Зарегистрироваться в турнире
// @Tags tournament
// @Description Алиас необязателен, по умолчанию используется имя пользователя.
// @Accept json
// @Produce json
// @Param body body registerRequest false "Алиас"
// @Success 200 {object} models.TournamentSnapshot
// @Failure 400 {object} map[string]string "Нет активного турнира / турнир полон / уже зарегистрирован / алиас занят"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /tournament/register [post]
func (h *TournamentHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var input registerRequest
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.Register(r.Context(), identity, input.Alias)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterGuest godoc
// @Summary Зарегистрировать гостя
// @Tags tournament
// @Accept json
// @Produce json
// @Param body body registerRequest true "Алиас гостя"
// @Success 200 {object} models.TournamentSnapshot
// @Failure 400 {object} map[string]string "Алиас обязателен / нет активного турнира / турнир полон / алиас занят"
// @Router /tournament/register-guest [post]
func (h *TournamentHandler) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.tournamentService.Register(r.Context(), nil, input.Alias)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatch godoc
// @Summary Записать результат матча турнира
// @Tags tournament
// @Description После последнего матча вычисляется итоговый рейтинг.
// @Accept json
// @Produce json
// @Param body body services.ReportMatchInput true "Результат матча"
// @Success 200 {object} models.TournamentSnapshot
// @Failure 400 {object} map[string]string "Некорректный победитель, счет или длительность"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Результат уже записан"
// @Router /tournament/update-match [post]
func (h *TournamentHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.ReportMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MatchID == "" {
		badRequestResponse(w, r, errors.New("match_id is required"))
		return
	}

	snapshot, err := h.tournamentService.ReportMatchResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset godoc
// @Summary Сбросить турнир
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tournament/reset [post]
func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.tournamentService.Reset(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
