package ports

import "github.com/jhoicas/forecast-cloud/internal/application/dto"

// WeeklyReportRenderer genera el PDF del resumen semanal.
type WeeklyReportRenderer interface {
	RenderWeeklySummary(summary *dto.WeeklySummaryResponse) ([]byte, error)
}
