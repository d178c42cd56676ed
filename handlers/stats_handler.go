package handlers

import (
	"net/http"

	"github.com/Dosada05/pong-ledger/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(ss services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: ss}
}

// GetMyStats godoc
// @Summary Моя статистика
// @Tags stats
// @Produce json
// @Success 200 {object} models.UserStats
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /me/stats [get]
func (h *StatsHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	h.writeStats(w, r, identity.UserID)
}

// GetMyHistory godoc
// @Summary Моя история матчей
// @Tags stats
// @Description Последние 50 матчей, новые первыми.
// @Produce json
// @Success 200 {array} models.HistoryEntry
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /me/history [get]
func (h *StatsHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	h.writeHistory(w, r, identity.UserID)
}

// GetUserStats godoc
// @Summary Статистика пользователя
// @Tags stats
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.UserStats
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Router /users/{userID}/stats [get]
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeStats(w, r, userID)
}

// GetUserHistory godoc
// @Summary История матчей пользователя
// @Tags stats
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {array} models.HistoryEntry
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Router /users/{userID}/history [get]
func (h *StatsHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeHistory(w, r, userID)
}

// GetUserProfile godoc
// @Summary Профиль игрока
// @Tags stats
// @Description Имя, аватар, статистика и история одним запросом.
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.ProfileSummary
// @Failure 404 {object} map[string]string "Пользователь не найден"
// @Router /users/{userID}/profile [get]
func (h *StatsHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.statsService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatsHandler) writeStats(w http.ResponseWriter, r *http.Request, userID int64) {
	stats, err := h.statsService.GetStats(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatsHandler) writeHistory(w http.ResponseWriter, r *http.Request, userID int64) {
	history, err := h.statsService.GetHistory(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, history, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
