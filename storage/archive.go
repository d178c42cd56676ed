package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/pong-ledger/models"
)

// TournamentArchiver stores the final snapshot of completed tournaments.
type TournamentArchiver struct {
	uploader FileUploader
}

func NewTournamentArchiver(uploader FileUploader) *TournamentArchiver {
	return &TournamentArchiver{uploader: uploader}
}

func ArchiveKey(tournamentID int64) string {
	return fmt.Sprintf("tournaments/%d/result.json", tournamentID)
}

// ArchiveTournament uploads the snapshot as JSON and returns its public location.
func (a *TournamentArchiver) ArchiveTournament(ctx context.Context, snapshot *models.TournamentSnapshot) (string, error) {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tournament %d: %w", snapshot.ID, err)
	}
	result, err := a.uploader.Upload(ctx, ArchiveKey(snapshot.ID), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
