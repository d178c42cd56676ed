package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/services"
)

type MatchHandler struct {
	gameService  services.GameService
	matchService services.MatchService
}

func NewMatchHandler(gs services.GameService, ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		gameService:  gs,
		matchService: ms,
	}
}

type createGameRequest struct {
	Category   models.GameCategory `json:"category"`
	OpponentID int64               `json:"opponent_id"`
}

type createPvPGameRequest struct {
	OpponentID int64 `json:"opponent_id"`
}

type recordResultRequest struct {
	GameID       int64 `json:"game_id"`
	Player1Score *int  `json:"player1_score"`
	Player2Score *int  `json:"player2_score"`
}

// CreateGame godoc
// @Summary Создать игру
// @Tags games
// @Description Создает игру указанной категории между текущим пользователем и соперником. Для категории ai соперник - AI.
// @Accept json
// @Produce json
// @Param body body createGameRequest true "Категория и соперник"
// @Success 201 {object} map[string]interface{} "Игра создана"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Соперник не найден"
// @Security BearerAuth
// @Router /games [post]
func (h *MatchHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var input createGameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var (
		game *models.Game
		err  error
	)
	switch input.Category {
	case models.CategoryAI:
		game, err = h.gameService.CreateAIGame(r.Context(), identity.UserID)
	case models.CategoryPvP:
		game, err = h.gameService.CreatePvPGame(r.Context(), identity.UserID, input.OpponentID)
	default:
		if input.OpponentID <= 0 {
			err = services.ErrInvalidOpponent
			break
		}
		game, err = h.gameService.CreateGame(r.Context(), input.Category, identity.UserID, input.OpponentID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeGame(w, r, game)
}

// CreateAIGame godoc
// @Summary Создать игру против AI
// @Tags games
// @Produce json
// @Success 201 {object} map[string]interface{} "Игра создана"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /games/ai [post]
func (h *MatchHandler) CreateAIGame(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	game, err := h.gameService.CreateAIGame(r.Context(), identity.UserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeGame(w, r, game)
}

// CreatePvPGame godoc
// @Summary Создать PvP игру
// @Tags games
// @Accept json
// @Produce json
// @Param body body createPvPGameRequest true "ID соперника"
// @Success 201 {object} map[string]interface{} "Игра создана"
// @Failure 400 {object} map[string]string "Некорректный соперник"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Соперник не найден"
// @Security BearerAuth
// @Router /games/pvp [post]
func (h *MatchHandler) CreatePvPGame(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var input createPvPGameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreatePvPGame(r.Context(), identity.UserID, input.OpponentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeGame(w, r, game)
}

func (h *MatchHandler) writeGame(w http.ResponseWriter, r *http.Request, game *models.Game) {
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game_id": game.ID, "game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Записать результат игры
// @Tags matches
// @Description Идемпотентно: повторная отправка того же результата возвращает существующую запись с duplicated=true.
// @Accept json
// @Produce json
// @Param body body recordResultRequest true "Игра и счет"
// @Success 201 {object} models.RecordResult "Результат записан"
// @Success 200 {object} models.RecordResult "Повторная отправка того же результата"
// @Failure 400 {object} map[string]string "Некорректный счет или игра не готова"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Пользователь не участник игры"
// @Failure 409 {object} map[string]string "Другой результат уже записан"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var input recordResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.GameID <= 0 {
		badRequestResponse(w, r, errors.New("game_id must be a positive integer"))
		return
	}
	if input.Player1Score == nil || input.Player2Score == nil {
		badRequestResponse(w, r, errors.New("player1_score and player2_score are required"))
		return
	}

	result, err := h.matchService.RecordResult(r.Context(), identity.UserID, input.GameID, *input.Player1Score, *input.Player2Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicated {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Получить результат матча
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} models.MatchOutcomeView
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Доступно только участникам"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Security BearerAuth
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.GetOutcome(r.Context(), identity.UserID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGameOutcome godoc
// @Summary Получить результат по ID игры
// @Tags matches
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} models.MatchOutcomeView
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Доступно только участникам"
// @Failure 404 {object} map[string]string "Результат не найден"
// @Security BearerAuth
// @Router /games/{gameID}/outcome [get]
func (h *MatchHandler) GetGameOutcome(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.matchService.GetOutcomeByGame(r.Context(), identity.UserID, gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
