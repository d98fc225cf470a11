package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm/clause"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/metrics"
	"github.com/openschool/schoolhub/backend/internal/models"
)

// SummaryService rolls yesterday's attendance into per-class summary rows
// once per day and keeps the roster/fee gauges current.
type SummaryService struct {
	mu            sync.RWMutex
	lastSummary   time.Time
	summaryHour   int // Hour of day to run the rollup (0-23)
	checkInterval time.Duration
}

func NewSummaryService() *SummaryService {
	return &SummaryService{
		summaryHour:   20, // Default: 8 PM, after any late attendance edits
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background summary worker
func (s *SummaryService) Start(ctx context.Context) {
	log.Println("Summary service started: will record daily attendance rollups")

	s.checkAndSummarize()
	s.refreshGauges()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Summary service stopping...")
			return
		case <-ticker.C:
			s.checkAndSummarize()
			s.refreshGauges()
		}
	}
}

// checkAndSummarize runs the rollup once per day at or after the
// configured hour.
func (s *SummaryService) checkAndSummarize() {
	now := time.Now()
	if now.Hour() < s.summaryHour {
		return
	}

	date := now.Format("2006-01-02")
	if s.hasSummaryForDate(date) {
		return
	}

	if err := s.Summarize(date); err != nil {
		log.Printf("Summary service: rollup for %s failed: %v", date, err)
	}
}

func (s *SummaryService) hasSummaryForDate(date string) bool {
	var count int64
	database.GetDB().Model(&models.AttendanceSummary{}).Where("date = ?", date).Count(&count)
	return count > 0
}

// Summarize computes per-class attendance counts for one date and upserts
// the summary rows. Safe to run repeatedly for the same date.
func (s *SummaryService) Summarize(date string) error {
	db := database.GetDB()

	type classCounts struct {
		Class  string
		Status models.AttendanceStatus
		Total  int
	}

	var rows []classCounts
	err := db.Model(&models.AttendanceRecord{}).
		Select("students.class AS class, attendance_records.status AS status, COUNT(*) AS total").
		Joins("JOIN students ON students.id = attendance_records.student_id").
		Where("attendance_records.date = ?", date).
		Group("students.class, attendance_records.status").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byClass := make(map[string]*models.AttendanceSummary)
	for _, row := range rows {
		sum, ok := byClass[row.Class]
		if !ok {
			sum = &models.AttendanceSummary{Date: date, Class: row.Class}
			byClass[row.Class] = sum
		}
		switch row.Status {
		case models.AttendancePresent:
			sum.Present += row.Total
		case models.AttendanceAbsent:
			sum.Absent += row.Total
		case models.AttendanceLate:
			sum.Late += row.Total
		case models.AttendanceExcused:
			sum.Excused += row.Total
		}
		sum.Total += row.Total
	}

	for _, sum := range byClass {
		if sum.Total > 0 {
			// Late counts as attended for the rate
			sum.PresentRate = float64(sum.Present+sum.Late) / float64(sum.Total)
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "class"}},
			UpdateAll: true,
		}).Create(sum).Error
		if err != nil {
			return err
		}
		metrics.AttendanceSummariesTotal.Inc()
	}

	s.mu.Lock()
	s.lastSummary = time.Now()
	s.mu.Unlock()

	log.Printf("Summary service: wrote %d class rollups for %s", len(byClass), date)
	return nil
}

// refreshGauges recomputes the roster and arrears gauges.
func (s *SummaryService) refreshGauges() {
	db := database.GetDB()

	var total int64
	if err := db.Model(&models.Student{}).Count(&total).Error; err == nil {
		metrics.StudentsTotal.Set(float64(total))
	}

	type classCount struct {
		Class string
		Total int64
	}
	var classes []classCount
	if err := db.Model(&models.Student{}).
		Select("class, COUNT(*) AS total").
		Group("class").
		Scan(&classes).Error; err == nil {
		for _, c := range classes {
			metrics.StudentsByClass.WithLabelValues(c.Class).Set(float64(c.Total))
		}
	}

	var outstanding float64
	err := db.Model(&models.FeePayment{}).
		Select("COALESCE(SUM(amount_due - amount_paid), 0)").
		Where("status != ?", models.FeePaid).
		Scan(&outstanding).Error
	if err == nil {
		metrics.FeesOutstandingTotal.Set(outstanding)
	}
}

// LastSummaryTime reports when the worker last wrote rollups.
func (s *SummaryService) LastSummaryTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSummary
}
