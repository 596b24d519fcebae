package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

const completed = "completed"

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *ReportGormRepository) MedspaExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Medspa{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *ReportGormRepository) GetServiceInfo(ctx context.Context, id uint) (*report.ServiceInfo, error) {
	var row report.ServiceInfo
	res := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.name, s.duration,
		       c.name AS category,
		       t.name AS service_type
		FROM service s
		JOIN service_category c ON c.id = s.category_id
		JOIN service_type t ON t.id = s.service_type_id
		WHERE s.id = ?
	`, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// --------------------------------------------------
// Medspa statistics
// --------------------------------------------------

type medspaStatsRow struct {
	ActiveServices    int64
	ActiveCategories  int64
	TotalAppointments int64
	Revenue           decimal.Decimal
}

func (r *ReportGormRepository) MedspaTotals(
	ctx context.Context,
	medspaID uint,
	dayStart, dayEnd time.Time,
) (*report.MedspaTotals, error) {

	var row medspaStatsRow
	res := r.db.WithContext(ctx).Raw(`
		SELECT active_services, active_categories, total_appointments, revenue
		FROM v_medspa_statistics
		WHERE medspa_id = ?
	`, medspaID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var today int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("medspa_id = ? AND start_time >= ? AND start_time < ?", medspaID, dayStart, dayEnd).
		Count(&today).Error; err != nil {
		return nil, err
	}

	return &report.MedspaTotals{
		TotalServices:     row.ActiveServices,
		TotalAppointments: row.TotalAppointments,
		AppointmentsToday: today,
		Revenue:           row.Revenue,
		ActiveCategories:  row.ActiveCategories,
	}, nil
}

type statusRow struct {
	Status  string
	Count   int64
	Revenue decimal.Decimal
}

func (r *ReportGormRepository) statusBreakdown(q *gorm.DB) (*report.PeriodSummary, error) {
	var rows []statusRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := &report.PeriodSummary{Revenue: decimal.Zero}
	for _, row := range rows {
		out.Counts.Add(row.Status, row.Count)
		if row.Status == completed {
			out.Revenue = out.Revenue.Add(row.Revenue)
		}
	}
	return out, nil
}

func (r *ReportGormRepository) MedspaPeriod(
	ctx context.Context,
	medspaID uint,
	p report.Period,
) (*report.PeriodSummary, error) {

	return r.statusBreakdown(r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue
		FROM appointment
		WHERE medspa_id = ? AND start_time >= ? AND start_time < ?
		GROUP BY status
	`, medspaID, p.Start, p.End))
}

func (r *ReportGormRepository) MostPopularServices(
	ctx context.Context,
	medspaID *uint,
	p report.Period,
	limit int,
) ([]report.PopularService, error) {

	q := r.db.WithContext(ctx).
		Table("appointment_service AS aps").
		Select("s.id AS id, s.name AS name, COUNT(*) AS usage_count").
		Joins("JOIN appointment a ON a.id = aps.appointment_id").
		Joins("JOIN service s ON s.id = aps.service_id").
		Where("a.start_time >= ? AND a.start_time < ?", p.Start, p.End)

	if medspaID != nil {
		q = q.Where("a.medspa_id = ?", *medspaID)
	}

	var out []report.PopularService
	if err := q.
		Group("s.id, s.name").
		Order("usage_count DESC, s.id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Service usage
// --------------------------------------------------

type serviceUtilRow struct {
	TotalBookings     int64
	CompletedBookings int64
	Revenue           decimal.Decimal
}

type servicePeriodRow struct {
	Completed int64
	Revenue   decimal.Decimal
}

func (r *ReportGormRepository) ServiceUsage(
	ctx context.Context,
	serviceID uint,
	p report.Period,
) (*report.ServiceUsage, error) {

	var all serviceUtilRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT total_bookings, completed_bookings, revenue
		FROM v_service_utilization
		WHERE service_id = ?
	`, serviceID).Scan(&all).Error; err != nil {
		return nil, err
	}

	var period servicePeriodRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS completed, COALESCE(SUM(s.price), 0) AS revenue
		FROM appointment_service aps
		JOIN appointment a ON a.id = aps.appointment_id
		JOIN service s ON s.id = aps.service_id
		WHERE aps.service_id = ? AND a.status = ?
		  AND a.start_time >= ? AND a.start_time < ?
	`, serviceID, completed, p.Start, p.End).Scan(&period).Error; err != nil {
		return nil, err
	}

	return &report.ServiceUsage{
		TotalAppointments:     all.TotalBookings,
		CompletedAppointments: all.CompletedBookings,
		Revenue:               all.Revenue,
		PeriodCompleted:       period.Completed,
		PeriodRevenue:         period.Revenue,
	}, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *ReportGormRepository) Calendar(
	ctx context.Context,
	f report.CalendarFilter,
) ([]report.CalendarEntry, error) {

	q := r.db.WithContext(ctx).
		Table("appointment AS a").
		Select(`a.id AS id, a.start_time AS start_time, a.status AS status,
			m.name AS medspa_name, COUNT(aps.id) AS service_count,
			a.total_duration AS total_duration, a.total_price AS total_price`).
		Joins("JOIN medspa m ON m.id = a.medspa_id").
		Joins("LEFT JOIN appointment_service aps ON aps.appointment_id = a.id")

	if f.MedspaID != nil {
		q = q.Where("a.medspa_id = ?", *f.MedspaID)
	}
	if f.From != nil {
		q = q.Where("a.start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("a.start_time < ?", *f.To)
	}

	var out []report.CalendarEntry
	if err := q.
		Group("a.id, m.name").
		Order("a.start_time ASC, a.id ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Analytics
// --------------------------------------------------

func (r *ReportGormRepository) Analytics(
	ctx context.Context,
	p report.Period,
) (*report.Analytics, error) {

	summary, err := r.statusBreakdown(r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue
		FROM appointment
		WHERE start_time >= ? AND start_time < ?
		GROUP BY status
	`, p.Start, p.End))
	if err != nil {
		return nil, err
	}

	var avg struct{ Avg float64 }
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(cnt), 0) AS avg
		FROM (
			SELECT COUNT(aps.id) AS cnt
			FROM appointment a
			LEFT JOIN appointment_service aps ON aps.appointment_id = a.id
			WHERE a.start_time >= ? AND a.start_time < ?
			GROUP BY a.id
		) per_appointment
	`, p.Start, p.End).Scan(&avg).Error; err != nil {
		return nil, err
	}

	popular, err := r.MostPopularServices(ctx, nil, p, 5)
	if err != nil {
		return nil, err
	}

	var cats []report.CategoryShare
	if err := r.db.WithContext(ctx).Raw(`
		SELECT c.name AS name, COUNT(*) AS count, COALESCE(SUM(s.price), 0) AS revenue
		FROM appointment a
		JOIN appointment_service aps ON aps.appointment_id = a.id
		JOIN service s ON s.id = aps.service_id
		JOIN service_category c ON c.id = s.category_id
		WHERE a.status = ? AND a.start_time >= ? AND a.start_time < ?
		GROUP BY c.name
		ORDER BY count DESC, c.name ASC
	`, completed, p.Start, p.End).Scan(&cats).Error; err != nil {
		return nil, err
	}

	return &report.Analytics{
		Counts:                    summary.Counts,
		Revenue:                   summary.Revenue,
		AvgServicesPerAppointment: avg.Avg,
		MostPopular:               popular,
		Categories:                cats,
	}, nil
}

// --------------------------------------------------
// Daily revenue (materialized view)
// --------------------------------------------------

type dailyRow struct {
	Date                  time.Time
	MedspaID              uint
	MedspaName            string
	TotalAppointments     int64
	DailyRevenue          decimal.Decimal
	ServiceCategoriesUsed int64
}

func (r *ReportGormRepository) DailyRevenue(
	ctx context.Context,
	medspaID uint,
	from, to time.Time,
) ([]report.DailyRevenue, error) {

	var rows []dailyRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT date, medspa_id, medspa_name, total_appointments,
		       daily_revenue, service_categories_used
		FROM mv_daily_revenue
		WHERE medspa_id = ? AND date >= ?::date AND date <= ?::date
		ORDER BY date ASC
	`, medspaID, from.Format("2006-01-02"), to.Format("2006-01-02")).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]report.DailyRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.DailyRevenue{
			Date:              row.Date,
			MedspaID:          row.MedspaID,
			MedspaName:        row.MedspaName,
			TotalAppointments: row.TotalAppointments,
			Revenue:           row.DailyRevenue,
			CategoriesUsed:    row.ServiceCategoriesUsed,
		})
	}
	return out, nil
}

var _ report.Repository = (*ReportGormRepository)(nil)
