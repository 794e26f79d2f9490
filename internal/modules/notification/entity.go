package notification

import (
	"encoding/json"
	"time"
)

type Type string

const (
	TypeBookingRequested Type = "booking_requested" // owner
	TypeBookingApproved  Type = "booking_approved"  // borrower
	TypeBookingRejected  Type = "booking_rejected"  // borrower
	TypeBookingCancelled Type = "booking_cancelled" // owner
	TypeBookingStarted   Type = "booking_started"   // borrower
	TypeBookingCompleted Type = "booking_completed" // both
	TypeBookingExtended  Type = "booking_extended"  // the other party
)

// Notification is a persisted notice for one user.
type Notification struct {
	ID        int64           `gorm:"primaryKey;column:id" json:"id"`
	UserID    string          `gorm:"column:user_id;size:64;not null;index:idx_notifications_user_unread" json:"user_id"`
	Type      Type            `gorm:"column:type;size:32;not null" json:"type"`
	Title     string          `gorm:"column:title;not null" json:"title"`
	Message   string          `gorm:"column:message" json:"message"`
	Data      json.RawMessage `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool            `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    *time.Time      `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Data links a notice to its booking. ConversationRequested asks the messaging
// service to open a thread between owner and borrower.
type Data struct {
	BookingID             string `json:"booking_id"`
	ItemID                string `json:"item_id"`
	OwnerID               string `json:"owner_id"`
	BorrowerID            string `json:"borrower_id"`
	StartDate             string `json:"start_date,omitempty"`
	EndDate               string `json:"end_date,omitempty"`
	PreviousEndDate       string `json:"previous_end_date,omitempty"`
	Status                string `json:"status,omitempty"`
	PreviousStatus        string `json:"previous_status,omitempty"`
	ConversationRequested bool   `json:"conversation_requested,omitempty"`
}

func (n *Notification) SetData(data *Data) error {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.Data = b
	return nil
}

func (n *Notification) GetData() *Data {
	var data Data
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &data)
	}
	return &data
}

// Event is the websocket frame pushed to connected clients.
type Event struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}
