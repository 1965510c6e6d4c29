package models

import "time"

// EventType classifies a timeline event.
type EventType string

const (
	EventMessage    EventType = "message"
	EventRedaction  EventType = "redaction"
	EventMembership EventType = "membership"
	EventReceipt    EventType = "receipt"
	EventOther      EventType = "other"
)

// MsgType classifies the payload of a message event.
type MsgType string

const (
	MsgText  MsgType = "text"
	MsgFile  MsgType = "file"
	MsgImage MsgType = "image"
)

// FileInfo describes an uploaded file attached to a message event.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Content is the variant payload of a message event.
type Content struct {
	MsgType  MsgType   `json:"msgtype,omitempty"`
	Body     string    `json:"body,omitempty"`
	File     *FileInfo `json:"file,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
}

// Event is a single item in a room timeline. Events are immutable once
// observed; a later redaction changes the projection, never the event.
type Event struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Type      EventType `json:"type"`
	SenderID  string    `json:"sender_id"`
	Timestamp int64     `json:"timestamp"`
	Content   Content   `json:"content"`
	// RedactsID is set on redaction events and names the target event.
	RedactsID string `json:"redacts_id,omitempty"`
}

// Time returns the event timestamp as a time.Time.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
