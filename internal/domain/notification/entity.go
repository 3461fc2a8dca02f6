package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeShipmentReady     NotificationType = "shipment_ready"
	TypeShipmentShipped   NotificationType = "shipment_shipped"
	TypeShipmentDelivered NotificationType = "shipment_delivered"
	TypeShipmentCancelled NotificationType = "shipment_cancelled"
	TypeEmployeeCreated   NotificationType = "employee_created"
	TypeYearGenerated     NotificationType = "year_generated"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeShipmentReady,
		TypeShipmentShipped,
		TypeShipmentDelivered,
		TypeShipmentCancelled,
		TypeEmployeeCreated,
		TypeYearGenerated,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID             string
	OrganizationID string
	RecipientID    string
	Type           NotificationType
	Title          string
	Message        string
	Data           map[string]interface{}
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
}
