package websocket

import (
	"github.com/google/uuid"
)

type SocketMessageType int

const (
	Update SocketMessageType = iota
	Command
	Response
	ErrorResponse
	Welcome
)

// SocketMessage is the envelope for every message sent over the
// activity socket. Messages with a Target are only delivered to the
// client with the matching ID, otherwise they're broadcast to all clients.
type SocketMessage struct {
	Title  string            `json:"title"`
	Body   map[string]any    `json:"arguments"`
	Id     int               `json:"id"`
	Type   SocketMessageType `json:"type"`
	Origin *uuid.UUID        `json:"-"`
	Target *uuid.UUID        `json:"-"`
}

// FormReply returns a NEW message that has the same id as the original
// message and is targeted at it's origin, but with a new (caller
// provided) title, type, and arguments.
func (message *SocketMessage) FormReply(replyTitle string, replyBody map[string]any, replyType SocketMessageType) *SocketMessage {
	return &SocketMessage{
		Title:  replyTitle,
		Body:   replyBody,
		Type:   replyType,
		Id:     message.Id,
		Target: message.Origin,
	}
}
