package domain

// DashboardStats aggregates ticket counts for the analyst dashboard.
type DashboardStats struct {
	Total      int64                    `json:"total"`
	New        int64                    `json:"new"`
	InProgress int64                    `json:"in_progress"`
	Completed  int64                    `json:"completed"`
	ByType     map[TicketType]int64     `json:"by_type"`
	ByPriority map[TicketPriority]int64 `json:"by_priority"`
}
