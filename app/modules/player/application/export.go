package playerservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	"github.com/xuri/excelize/v2"
)

// LeaderboardSheet is the sheet name of the exported workbook.
const LeaderboardSheet = "Leaderboard"

// ExportLeaderboard renders the current leaderboard as an XLSX workbook.
func (s *PlayerService) ExportLeaderboard(ctx context.Context) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportLeaderboard", "all", func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		standings, err := s.leaderboard(ctx)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		data, err := BuildLeaderboardWorkbook(standings)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	return unwrap(result, err)
}

// BuildLeaderboardWorkbook writes a header row followed by one row per standing.
func BuildLeaderboardWorkbook(standings []playerdomain.Standing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), LeaderboardSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Rank", "Player", "Points"}
	if err := f.SetSheetRow(LeaderboardSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for idx, st := range standings {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve row %d: %w", idx+2, err)
		}
		row := []interface{}{st.Rank, st.Name, st.Points}
		if err := f.SetSheetRow(LeaderboardSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", st.Name, err)
		}
	}

	if err := f.SetColWidth(LeaderboardSheet, "B", "B", 24); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
