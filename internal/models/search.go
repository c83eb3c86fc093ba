// internal/models/search.go
package models

// SearchResult is one row of a live-search response. Subtitle carries
// the secondary line shown under the title (document number, case
// number, client name).
type SearchResult struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DashboardStats feeds the landing page counters.
type DashboardStats struct {
	ActiveClients     int            `json:"clientesAtivos"`
	ActiveCases       int            `json:"processosAtivos"`
	UpcomingDeadlines int            `json:"prazosProximos"`
	TodayAppointments int            `json:"compromissosHoje"`
	OverdueDeadlines  int            `json:"prazosVencidos"`
	MonthSummary      MonthlySummary `json:"resumoMensal"`
	RecentEvents      []CaseEvent    `json:"andamentosRecentes"`
	NextDeadlines     []Deadline     `json:"proximosPrazos"`
}
