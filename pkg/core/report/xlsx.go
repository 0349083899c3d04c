package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/history"
	"github.com/moritz155/johanniter/pkg/db"
)

const (
	sheetOverview = "Übersicht"
	sheetMissions = "Einsätze"
	sheetSquads   = "Kräfte"
	sheetLog      = "Logbuch"
)

// Workbook renders the shift documentation as an XLSX file with one sheet
// per protocol section. The caller owns the returned file and must Close it.
func Workbook(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string) (*excelize.File, error) {
	d, err := load(ctx, store, logger, sessionID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetOverview)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeOverviewSheet(f, d); err != nil {
		return nil, err
	}
	if err := writeMissionSheet(f, d, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSquadSheet(f, d, headerStyle); err != nil {
		return nil, err
	}
	if err := writeLogSheet(f, d, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

func writeOverviewSheet(f *excelize.File, d *data) error {
	rows := [][]interface{}{
		{titleWorkbook, ""},
	}
	if d.shift != nil {
		end := ongoingText
		if d.shift.EndTime != nil {
			end = fmtDate(*d.shift.EndTime)
		}
		rows = append(rows,
			[]interface{}{lblService, d.shift.Location},
			[]interface{}{lblAddress, d.shift.Address},
			[]interface{}{lblPeriod, fmt.Sprintf("%s - %s", fmtDate(d.shift.StartTime), end)},
		)
	}
	active := 0
	for _, m := range d.missions {
		if !m.IsDeleted {
			active++
		}
	}
	rows = append(rows,
		[]interface{}{"Einsätze", active},
		[]interface{}{"Storniert", len(d.missions) - active},
		[]interface{}{"Kräfte", len(d.squads)},
	)
	if avg, ok := d.averageResponseMinutes(); ok {
		rows = append(rows, []interface{}{"Ø Hilfsfrist (Min.)", fmt.Sprintf("%.1f", avg)})
	}

	for i, row := range rows {
		if err := setRow(f, sheetOverview, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetOverview, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return f.SetColWidth(sheetOverview, "B", "B", 48)
}

func writeMissionSheet(f *excelize.File, d *data, headerStyle int) error {
	if _, err := f.NewSheet(sheetMissions); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	headers := []interface{}{
		"Nr.", "Beginn", "Ende", "Status", "Ausgang", "Ort", "Grund",
		"Meldebild", "NACA", "Kräfte", "Hilfsfrist (Min.)",
	}
	if err := setRow(f, sheetMissions, 1, headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetMissions, "A1", "K1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for _, m := range d.missions {
		if m.IsDeleted {
			continue
		}
		mission := m
		end := ongoingText
		if completed, ok := history.CompletionTime(&mission, d.missionLogs[m.ID]); ok {
			end = fmtDateSec(completed)
		}
		response := ""
		if delta, ok := history.ResponseTime(&mission, d.missionLogs[m.ID]); ok {
			response = fmt.Sprintf("%.1f", delta.Minutes())
		}
		values := []interface{}{
			missionLabel(m), fmtDateSec(m.CreatedAt), end, m.Status, outcomeDisplay(m),
			m.Location, m.Reason, m.AlarmingEntity, m.NacaScore,
			strings.Join(d.missionRoster[m.ID], ", "), response,
		}
		if err := setRow(f, sheetMissions, row, values); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sheetMissions, "A", "K", 18)
}

func writeSquadSheet(f *excelize.File, d *data, headerStyle int) error {
	if _, err := f.NewSheet(sheetSquads); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	headers := []interface{}{"Name", "Typ", "Qualifikation", "DN", "Einsätze", lblPauses}
	if err := setRow(f, sheetSquads, 1, headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSquads, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range d.squads {
		var spans []string
		for _, p := range history.PausePeriods(d.squadLogs[s.ID]) {
			if p.End != nil {
				spans = append(spans, fmt.Sprintf("%s - %s", fmtClock(p.Start), fmtClock(*p.End)))
			} else {
				spans = append(spans, fmt.Sprintf("%s - laufend", fmtClock(p.Start)))
			}
		}
		values := []interface{}{
			s.Name, s.Type, s.Qualification, s.ServiceNumbers,
			d.squadMissions[s.ID], strings.Join(spans, "; "),
		}
		if err := setRow(f, sheetSquads, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSquads, "A", "F", 20)
}

func writeLogSheet(f *excelize.File, d *data, headerStyle int) error {
	if _, err := f.NewSheet(sheetLog); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	headers := []interface{}{"Zeit", "Aktion", "Details", "Einsatz"}
	if err := setRow(f, sheetLog, 1, headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetLog, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, l := range d.logs {
		ref := ""
		if l.MissionID != 0 {
			ref = "#" + d.missionLabelByID(l.MissionID)
		}
		values := []interface{}{fmtFullStamp(l.Timestamp), l.Action, l.Details, ref}
		if err := setRow(f, sheetLog, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetLog, "A", "B", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return f.SetColWidth(sheetLog, "C", "C", 80)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
