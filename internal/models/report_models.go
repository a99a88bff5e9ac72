package models

// Report types. The type is a label carried through to the generated
// report; filtering is always by the raw date range.
const (
	ReportTypeDaily   = "daily"
	ReportTypeWeekly  = "weekly"
	ReportTypeMonthly = "monthly"
)

// ReportRow is one completed shift flattened for payroll-style output.
type ReportRow struct {
	Date         string  `json:"date"` // YYYY-MM-DD of the shift start
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	HoursWorked  float64 `json:"hours_worked"`
	Earnings     float64 `json:"earnings"`
}

// Report is a derived view over the shift ledger. Rows follow ledger
// order of the filtered set; totals are left to the consumer.
type Report struct {
	ID         string      `json:"id"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	Type       string      `json:"type"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
	Data       []ReportRow `json:"data"`
}

// DashboardSummary holds the live figures shown on the dashboard.
// Hours include active shifts measured up to the moment of the request.
type DashboardSummary struct {
	TodayHours      float64    `json:"today_hours"`
	WeekHours       float64    `json:"week_hours"`
	ActiveEmployees []Employee `json:"active_employees"`
}
