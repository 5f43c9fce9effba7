package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/ycfeng/slimhub/internal/foodlog"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/workouts"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Generator builds the weekly intake/burn report from the food journal
// and the workout completion summary.
type Generator struct {
	foodLogs *foodlog.Service
	workouts *workouts.Service
}

func NewGenerator(foodLogs *foodlog.Service, workouts *workouts.Service) *Generator {
	return &Generator{
		foodLogs: foodLogs,
		workouts: workouts,
	}
}

// WeekData — собранные данные недели для отчёта
type WeekData struct {
	Intake [plan.DaysPerWeek]int
	Burned [plan.DaysPerWeek]int
}

func (d WeekData) IntakeTotal() int {
	total := 0
	for _, v := range d.Intake {
		total += v
	}
	return total
}

func (d WeekData) BurnedTotal() int {
	total := 0
	for _, v := range d.Burned {
		total += v
	}
	return total
}

// Generate builds the report in the requested format.
func (g *Generator) Generate(ctx context.Context, userID string, format string) ([]byte, string, error) {
	data, err := g.collect(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatPDF:
		out, err := g.generatePDF(data)
		return out, "application/pdf", err
	case FormatCSV:
		out, err := g.generateCSV(data)
		return out, "text/csv", err
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (g *Generator) collect(ctx context.Context, userID string) (*WeekData, error) {
	data := &WeekData{}

	journal, err := g.foodLogs.GetJournal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load food journal: %w", err)
	}
	data.Intake = journal.DailyCalories

	summary, err := g.workouts.Summary(ctx, userID)
	if err != nil && !errors.Is(err, workouts.ErrNoSportPlan) {
		return nil, fmt.Errorf("failed to load workout summary: %w", err)
	}
	if err == nil {
		data.Burned = summary.Days
	}

	return data, nil
}

func (g *Generator) generateCSV(data *WeekData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"day", "intake_kcal", "burned_kcal", "net_kcal"}); err != nil {
		return nil, err
	}

	for d := 0; d < plan.DaysPerWeek; d++ {
		row := []string{
			dayNames[d],
			strconv.Itoa(data.Intake[d]),
			strconv.Itoa(data.Burned[d]),
			strconv.Itoa(data.Intake[d] - data.Burned[d]),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *Generator) generatePDF(data *WeekData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Weekly Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total intake: %d kcal", data.IntakeTotal()))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total burned: %d kcal", data.BurnedTotal()))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Net balance: %d kcal", data.IntakeTotal()-data.BurnedTotal()))
	pdf.Ln(12)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 8, "Day", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Intake, kcal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Burned, kcal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Net, kcal", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for d := 0; d < plan.DaysPerWeek; d++ {
		pdf.CellFormat(40, 7, dayNames[d], "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, strconv.Itoa(data.Intake[d]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, strconv.Itoa(data.Burned[d]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, strconv.Itoa(data.Intake[d]-data.Burned[d]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
