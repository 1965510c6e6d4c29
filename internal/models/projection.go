package models

import "time"

// MessageTarget says whether the local user sent or received a message.
type MessageTarget string

const (
	TargetSender   MessageTarget = "sender"
	TargetReceiver MessageTarget = "receiver"
)

// MessageStatus is the delivery state of a sender-authored message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// ProjectionKind classifies what a message projection renders as.
type ProjectionKind string

const (
	KindText     ProjectionKind = "text"
	KindFile     ProjectionKind = "file"
	KindImage    ProjectionKind = "image"
	KindRedacted ProjectionKind = "redacted"
)

// RedactedPlaceholder replaces the content of deleted messages.
const RedactedPlaceholder = "Message deleted"

// MessageProjection is the derived, render-ready view of a message event.
// Status is only meaningful when Target is TargetSender; received messages
// are always treated as read from the local user's perspective.
type MessageProjection struct {
	EventID        string         `json:"event_id"`
	SenderID       string         `json:"sender_id"`
	Time           time.Time      `json:"time"`
	Target         MessageTarget  `json:"target"`
	Status         MessageStatus  `json:"status"`
	Kind           ProjectionKind `json:"kind"`
	DisplayContent string         `json:"display_content"`
	IsRedacted     bool           `json:"is_redacted"`
	// SenderName is set only for receiver-target messages in group rooms.
	SenderName string `json:"sender_name,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	FileSize   string `json:"file_size,omitempty"`
	FileURL    string `json:"file_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}
