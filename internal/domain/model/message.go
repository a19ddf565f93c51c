package model

import "time"

type MessageType string

const (
	MessageTypeSent     MessageType = "sent"
	MessageTypeReceived MessageType = "received"
)

type Message struct {
	ID           int         `json:"id"`
	SenderID     int64       `json:"senderId"`
	SenderName   string      `json:"senderName"`
	SenderAvatar string      `json:"senderAvatar"`
	Message      string      `json:"message"`
	Timestamp    time.Time   `json:"timestamp"`
	Type         MessageType `json:"type"`
}

// Participant 對話中的一方
type Participant struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
