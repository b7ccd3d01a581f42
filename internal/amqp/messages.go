package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paycycle/internal/notify"
)

// ReminderMessage is one scheduled notification on the wire.
type ReminderMessage struct {
	FireAt time.Time       `json:"fire_at"`
	Amount decimal.Decimal `json:"amount"`
	Title  string          `json:"title"`
	Body   string          `json:"body"`
}

// ReminderBatch carries the complete outstanding reminder set. A consumer
// clears whatever it installed before and installs Reminders instead.
type ReminderBatch struct {
	Mode        notify.Mode       `json:"mode"`
	Reminders   []ReminderMessage `json:"reminders"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// NewReminderBatch wraps planned notifications for publishing.
func NewReminderBatch(mode notify.Mode, notifications []notify.Notification) *ReminderBatch {
	reminders := make([]ReminderMessage, len(notifications))
	for i, n := range notifications {
		reminders[i] = ReminderMessage{
			FireAt: n.FireAt,
			Amount: n.Amount,
			Title:  n.Title,
			Body:   n.Body,
		}
	}
	return &ReminderBatch{
		Mode:        mode,
		Reminders:   reminders,
		GeneratedAt: time.Now(),
	}
}

// Notifications converts the batch back to notify values.
func (b *ReminderBatch) Notifications() []notify.Notification {
	out := make([]notify.Notification, len(b.Reminders))
	for i, r := range b.Reminders {
		out[i] = notify.Notification{FireAt: r.FireAt, Amount: r.Amount, Title: r.Title, Body: r.Body}
	}
	return out
}

// ToJSON converts the message to JSON bytes
func (b *ReminderBatch) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

// ReminderBatchFromJSON decodes and checks a batch.
func ReminderBatchFromJSON(data []byte) (*ReminderBatch, error) {
	var b ReminderBatch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if _, err := notify.ParseMode(string(b.Mode)); err != nil {
		return nil, fmt.Errorf("reminder batch: %w", err)
	}
	return &b, nil
}
