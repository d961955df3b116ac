package domain

import "time"

// AuditAction names an inventory-affecting mutation.
type AuditAction string

const (
	AuditOrderPlaced    AuditAction = "order.placed"
	AuditOrderUpdated   AuditAction = "order.updated"
	AuditOrderDeleted   AuditAction = "order.deleted"
	AuditProductDeleted AuditAction = "product.deleted"
)

// AuditEvent records who changed stock and by how much. StockDelta is the change
// applied to the product's stock (negative when units were reserved).
type AuditEvent struct {
	Action         AuditAction
	OrderID        string
	ProductID      string
	StockDelta     int
	ActorID        string
	ImpersonatedBy string
	OccurredAt     time.Time
}
