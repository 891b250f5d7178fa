// Package amqp notifies interested consumers when the fleet dataset is
// rebuilt, via a durable RabbitMQ queue.
package amqp

import (
	"encoding/json"
	"time"
)

// RefreshMessage announces that the dataset was rebuilt. It carries only
// the trigger and per-sheet record counts; consumers read the snapshot
// store for the data itself.
type RefreshMessage struct {
	Trigger     string         `json:"trigger"`
	RefreshedAt time.Time      `json:"refreshedAt"`
	Counts      map[string]int `json:"counts"`
}

func NewRefreshMessage(trigger string, counts map[string]int) *RefreshMessage {
	return &RefreshMessage{
		Trigger:     trigger,
		RefreshedAt: time.Now().UTC(),
		Counts:      counts,
	}
}

func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
