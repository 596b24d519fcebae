package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	ucReport "github.com/BruksfildServices01/medspa-scheduler/internal/usecase/report"
)

type ReportHandler struct {
	statistics   *ucReport.GetMedspaStatistics
	usage        *ucReport.GetServiceUsage
	calendar     *ucReport.GetCalendar
	analytics    *ucReport.GetAnalytics
	dailyRevenue *ucReport.GetDailyRevenue

	log *zap.Logger
}

func NewReportHandler(repo domain.Repository, now ucReport.Clock, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		statistics:   ucReport.NewGetMedspaStatistics(repo, now),
		usage:        ucReport.NewGetServiceUsage(repo, now),
		calendar:     ucReport.NewGetCalendar(repo),
		analytics:    ucReport.NewGetAnalytics(repo, now),
		dailyRevenue: ucReport.NewGetDailyRevenue(repo, now),
		log:          logging.OrNop(log),
	}
}

// MedspaStatistics answers GET /medspas/:id/statistics.
func (h *ReportHandler) MedspaStatistics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	days, err := ucReport.ParseDays(c.Query("days"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	done := startAction(h.log, c, "statistics")
	out, err := h.statistics.Execute(c.Request.Context(), ucReport.MedspaStatisticsInput{MedspaID: id, Days: days})
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, out)
}

// ServiceUsage answers GET /services/:id/usage_statistics.
func (h *ReportHandler) ServiceUsage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	days, err := ucReport.ParseDays(c.Query("days"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	done := startAction(h.log, c, "usage_statistics")
	out, err := h.usage.Execute(c.Request.Context(), ucReport.ServiceUsageInput{ServiceID: id, Days: days})
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) Calendar(c *gin.Context) {
	medspaID, ok := queryUint(c, "medspa_id")
	if !ok {
		return
	}

	done := startAction(h.log, c, "calendar")
	rows, err := h.calendar.Execute(c.Request.Context(), ucReport.CalendarInput{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		MedspaID:  medspaID,
	})
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ReportHandler) Analytics(c *gin.Context) {
	days, err := ucReport.ParseDays(c.Query("days"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	done := startAction(h.log, c, "analytics")
	out, err := h.analytics.Execute(c.Request.Context(), days)
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.OK(c, out)
}

// DailyRevenue answers GET /medspas/:id/daily_revenue.
func (h *ReportHandler) DailyRevenue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	done := startAction(h.log, c, "daily_revenue")
	rows, err := h.dailyRevenue.Execute(c.Request.Context(), ucReport.DailyRevenueInput{
		MedspaID:  id,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	done(err)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	httpresp.List(c, rows)
}
