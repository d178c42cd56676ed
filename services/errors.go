package services

import (
	"errors"
	"fmt"
)

// Базовые виды ошибок. Каждая конкретная ошибка оборачивает один из них,
// handlers маппят вид в HTTP статус через errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("requested resource not found")
	ErrConflict     = errors.New("conflict")

	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Match Recorder / Game Registry
var (
	ErrGameNotFound      = fmt.Errorf("%w: game not found", ErrNotFound)
	ErrGameNotReady      = fmt.Errorf("%w: game must have exactly two registered participants", ErrInvalidState)
	ErrNotGameMember     = fmt.Errorf("%w: caller is not a participant of this game", ErrForbidden)
	ErrNegativeScore     = fmt.Errorf("%w: scores must be non-negative integers", ErrInvalidInput)
	ErrTieNotAllowed     = fmt.Errorf("%w: ties are not supported", ErrInvalidInput)
	ErrOutcomeConflict   = fmt.Errorf("%w: a different result is already recorded for this game", ErrConflict)
	ErrOutcomeNotFound   = fmt.Errorf("%w: match outcome not found", ErrNotFound)
	ErrNotOutcomeMember  = fmt.Errorf("%w: only participants can view this match", ErrForbidden)
	ErrInvalidCategory   = fmt.Errorf("%w: unknown game category", ErrInvalidInput)
	ErrInvalidOpponent   = fmt.Errorf("%w: opponent id must be a positive user id", ErrInvalidInput)
	ErrSelfPlay          = fmt.Errorf("%w: cannot create a game against yourself", ErrInvalidInput)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrAIUserUnavailable = errors.New("AI user is not provisioned")
)

// Tournament Engine
var (
	ErrInvalidPlayerCount      = fmt.Errorf("%w: player count must be between %d and %d", ErrInvalidInput, MinTournamentPlayers, MaxTournamentPlayers)
	ErrNoActiveTournament      = fmt.Errorf("%w: no active tournament", ErrInvalidState)
	ErrTournamentFull          = fmt.Errorf("%w: tournament is full", ErrInvalidState)
	ErrAlreadyRegistered       = fmt.Errorf("%w: already registered in this tournament", ErrInvalidState)
	ErrAliasTaken              = fmt.Errorf("%w: alias already taken in this tournament", ErrInvalidState)
	ErrAliasRequired           = fmt.Errorf("%w: alias is required", ErrInvalidInput)
	ErrAliasTooLong            = fmt.Errorf("%w: alias is too long", ErrInvalidInput)
	ErrTournamentMatchNotFound = fmt.Errorf("%w: tournament match not found", ErrNotFound)
	ErrMatchAlreadyPlayed      = fmt.Errorf("%w: tournament match already has a result", ErrConflict)
	ErrWinnerNotInMatch        = fmt.Errorf("%w: winner must be one of the two match players", ErrInvalidInput)
	ErrInvalidMatchScore       = fmt.Errorf("%w: score must be two non-negative integers", ErrInvalidInput)
	ErrInvalidDuration         = fmt.Errorf("%w: duration must be non-negative", ErrInvalidInput)
)
