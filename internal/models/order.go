package models

import "github.com/google/uuid"

// Order statuses form an ordered progression; only pending orders may be
// modified or deleted by their owner.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in progress"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivered  = "delivered"
)

// FabricTypes is the fixed set of fabrics an order may request.
var FabricTypes = []string{"cotton", "silk", "linen", "polyester"}

// ValidFabricType reports whether the fabric is one of FabricTypes.
func ValidFabricType(fabric string) bool {
	for _, valid := range FabricTypes {
		if fabric == valid {
			return true
		}
	}
	return false
}

// SleeveLengths are the accepted sleeve preference values.
var SleeveLengths = []string{"short sleeve", "long sleeve"}

// ValidSleeveLength reports whether the value is one of SleeveLengths.
func ValidSleeveLength(sleeve string) bool {
	for _, valid := range SleeveLengths {
		if sleeve == valid {
			return true
		}
	}
	return false
}

// Order is a request to produce a garment from a chosen style.
type Order struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User    *User     `json:"user,omitempty"`
	StyleID uuid.UUID `gorm:"type:uuid;index" json:"style_id"`
	Style   *Style    `json:"style,omitempty"`

	Color        string `json:"color"`
	SleeveLength string `json:"sleeve_length"`
	FabricType   string `json:"fabric_type"`
	Status       string `json:"status"`
	Comments     string `json:"comments"`
}
