package dto

// HealthStatus cuerpo de GET /health.
type HealthStatus struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Time    Timestamp `json:"time"`
}

// SystemStats cuerpo de GET /system/stats.
type SystemStats struct {
	Documents     int   `json:"documents"`
	Users         int   `json:"users"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}
