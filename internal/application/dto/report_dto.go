package dto

import "time"

// ReportData entrada del generador de reportes.
type ReportData struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy UserProfile
	Filter      AnalyticsFilter
	Stats       StatsSnapshot
	Recent      []Document
}
