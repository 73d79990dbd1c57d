package dto

// DashboardStatsResponse aggregates the counters shown on the admin dashboard.
type DashboardStatsResponse struct {
	TotalUsers        int64              `json:"total_users"`
	ActiveUsers       int64              `json:"active_users"`
	TotalDepartements int64              `json:"total_departements"`
	TotalFilieres     int64              `json:"total_filieres"`
	TotalModules      int64              `json:"total_modules"`
	TotalSeances      int64              `json:"total_seances"`
	SeancesToday      int64              `json:"seances_today"`
	RecentActivity    []ActivityResponse `json:"recent_activity"`
}
