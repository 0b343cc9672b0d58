package model

import "time"

// NotificationType categorises in-app notifications.
type NotificationType string

const (
	NotificationUpcomingMaintenance NotificationType = "UPCOMING_MAINTENANCE"
	NotificationOverdueMaintenance  NotificationType = "OVERDUE_MAINTENANCE"
	NotificationLowStock            NotificationType = "LOW_STOCK"
	NotificationWorkOrderAssigned   NotificationType = "WORK_ORDER_ASSIGNED"
	NotificationWorkOrderCompleted  NotificationType = "WORK_ORDER_COMPLETED"
)

// Notification is an in-app message about an entity.
type Notification struct {
	BaseEntity        `yaml:",inline"`
	Type              NotificationType `json:"type" yaml:"type" db:"type"`
	Message           string           `json:"message" yaml:"message" db:"message"`
	Severity          Severity         `json:"severity" yaml:"severity" db:"severity"`
	RelatedEntityType string           `json:"relatedEntityType,omitempty" yaml:"relatedEntityType" db:"related_entity_type"`
	RelatedEntityID   string           `json:"relatedEntityId,omitempty" yaml:"relatedEntityId" db:"related_entity_id"`
	ReadAt            *time.Time       `json:"readAt,omitempty" yaml:"readAt" db:"read_at"`
}

// IsRead reports whether the notification has been acknowledged.
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly      bool
	Type            NotificationType
	RelatedEntityID string
}

// NewNotification builds an unread notification about an entity.
func NewNotification(typ NotificationType, severity Severity, message, entityType, entityID string) *Notification {
	return &Notification{
		BaseEntity:        NewBaseEntity(PrefixNotification),
		Type:              typ,
		Message:           message,
		Severity:          severity,
		RelatedEntityType: entityType,
		RelatedEntityID:   entityID,
	}
}
