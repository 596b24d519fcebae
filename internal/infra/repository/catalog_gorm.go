package repository

import (
	"gorm.io/gorm"
)

// RecomputeTotalsForService refreshes total_price and total_duration of
// every appointment that includes the service. Run it inside the
// transaction that changed the service's price or duration.
func RecomputeTotalsForService(tx *gorm.DB, serviceID uint) error {
	return tx.Exec(`
		UPDATE appointment AS a
		SET total_price = sub.total_price,
		    total_duration = sub.total_duration,
		    updated_at = NOW()
		FROM (
			SELECT aps.appointment_id,
			       COALESCE(SUM(s.price), 0) AS total_price,
			       COALESCE(SUM(s.duration), 0) AS total_duration
			FROM appointment_service aps
			JOIN service s ON s.id = aps.service_id
			WHERE aps.appointment_id IN (
				SELECT appointment_id FROM appointment_service WHERE service_id = ?
			)
			GROUP BY aps.appointment_id
		) AS sub
		WHERE a.id = sub.appointment_id
	`, serviceID).Error
}

// ServiceIsBooked reports whether any appointment references the service.
func ServiceIsBooked(db *gorm.DB, serviceID uint) (bool, error) {
	var n int64
	err := db.Table("appointment_service").
		Where("service_id = ?", serviceID).
		Count(&n).Error
	return n > 0, err
}

// MedspaTotals are the counters shown next to a medspa.
type MedspaTotals struct {
	MedspaID          uint
	TotalServices     int64
	TotalAppointments int64
}

// MedspaCounts returns active service and appointment counts keyed by
// medspa id. Medspas without rows are absent from the map.
func MedspaCounts(db *gorm.DB, ids []uint) (map[uint]MedspaTotals, error) {
	out := make(map[uint]MedspaTotals, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []MedspaTotals
	if err := db.Raw(`
		SELECT m.id AS medspa_id,
		       (SELECT COUNT(*) FROM service s WHERE s.medspa_id = m.id AND s.active) AS total_services,
		       (SELECT COUNT(*) FROM appointment a WHERE a.medspa_id = m.id) AS total_appointments
		FROM medspa m
		WHERE m.id IN ?
	`, ids).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		out[r.MedspaID] = r
	}
	return out, nil
}

// ServiceAppointmentCounts returns how many appointments include each
// service.
func ServiceAppointmentCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ServiceID uint
		Count     int64
	}
	if err := db.Table("appointment_service").
		Select("service_id, COUNT(*) AS count").
		Where("service_id IN ?", ids).
		Group("service_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		out[r.ServiceID] = r.Count
	}
	return out, nil
}
