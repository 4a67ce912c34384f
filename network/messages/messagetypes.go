package messages

import "stopwatch/notification"

// MessageType identifies the payload of a datagram envelope
type MessageType string

const (
	MsgDisplay MessageType = "display" // watch -> panel, show or replace the notification
	MsgCancel  MessageType = "cancel"  // watch -> panel, remove the notification
	MsgAction  MessageType = "action"  // panel -> watch, a button was pressed
	MsgAck     MessageType = "ack"     // watch -> panel, action received
)

// Sequence increases with every display or cancel sent, so a panel can drop
// datagrams that arrive out of order. Epoch is picked once per watch process;
// sequences from a new epoch start over.
type NotificationDisplay struct {
	Epoch    uint64               `json:"epoch"`
	Sequence uint64               `json:"sequence"`
	Content  notification.Content `json:"content"`
}

type NotificationCancel struct {
	Epoch          uint64 `json:"epoch"`
	Sequence       uint64 `json:"sequence"`
	NotificationID string `json:"notification_id"`
}

// An action press is resent until acknowledged, MessageID lets the receiver act on it once
type ActionPress struct {
	MessageID uint64 `json:"message_id"`
	ActionID  string `json:"action_id"`
}

// a struct for acknowledging an action press is received
type Ack struct {
	MessageID uint64 `json:"message_id"`
}
