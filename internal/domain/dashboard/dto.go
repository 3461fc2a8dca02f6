package dashboard

import "github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	EmployeeSummary    EmployeeSummaryResponse             `json:"employee_summary"`
	ShipmentSummary    ShipmentSummaryResponse             `json:"shipment_summary"`
	UpcomingBirthdays  []employee.UpcomingBirthdayResponse `json:"upcoming_birthdays"`
	DueSoon            []DueShipmentItem                   `json:"due_soon"`
	UnreadNotification int                                 `json:"unread_notifications"`
	GeneratedAt        string                              `json:"generated_at"`
}

// EmployeeSummaryResponse contains employee counts
type EmployeeSummaryResponse struct {
	ActiveEmployees     int64 `json:"active_employees"`
	InactiveEmployees   int64 `json:"inactive_employees"`
	BirthdaysThisMonth  int64 `json:"birthdays_this_month"`
	NewEmployeesLast30d int64 `json:"new_employees_last_30_days"`
}

// ShipmentSummaryResponse counts the current year's shipments by status
type ShipmentSummaryResponse struct {
	Year        int   `json:"year"`
	Pending     int64 `json:"pending"`
	ReadyToShip int64 `json:"ready_to_ship"`
	Shipped     int64 `json:"shipped"`
	Delivered   int64 `json:"delivered"`
	Cancelled   int64 `json:"cancelled"`
}

// DueShipmentItem is a pending or ready shipment whose trigger date is near
type DueShipmentItem struct {
	ShipmentID   string `json:"shipment_id"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
	TriggerDate  string `json:"trigger_date"`
	BirthdayDate string `json:"birthday_date"`
}
