package realtime

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Inbound event names.
const (
	EventConnect               = "connect"
	EventDisconnect            = "disconnect"
	EventError                 = "error"
	EventNewNotification       = "new_notification"
	EventNewMessage            = "new_message"
	EventMessageRead           = "message_read"
	EventTyping                = "typing"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendRequestReceived = "friend_request_received"
	EventUserJoined            = "user_joined"
	EventNotificationsJoined   = "notifications_joined"
)

// Outbound event names.
const (
	EventJoinUser          = "join_user"
	EventLeaveUser         = "leave_user"
	EventJoinDashboard     = "join_dashboard"
	EventLeaveDashboard    = "leave_dashboard"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventChatMessage       = "chat_message"
	EventMarkRead          = "mark_read"
)

// Notification is the payload of new_notification.
type Notification struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

// ChatMessage is the payload of new_message. The backend may attach
// more fields; unknown ones are ignored.
type ChatMessage struct {
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
	SenderID       int64  `json:"sender_id"`
	CreatedAt      string `json:"created_at"`
}

// TypingSignal is the payload of typing.
type TypingSignal struct {
	ConversationID int64 `json:"conversation_id"`
	UserID         int64 `json:"user_id"`
	IsTyping       bool  `json:"is_typing"`
}

// MessageRead is the payload of message_read.
type MessageRead struct {
	ConversationID int64 `json:"conversation_id"`
}

// UserJoined is the payload of user_joined, the server's join
// acknowledgment carrying the authenticated user ID.
type UserJoined struct {
	UserID int64 `json:"user_id"`
}

// FriendRequestAccepted is the payload of friend_request_accepted.
type FriendRequestAccepted struct {
	RequestID int64 `json:"request_id"`
}

// DecodePayload decodes a loosely-typed inbound payload (as produced
// by the frame codec: maps, slices and JSON scalars) into a typed
// struct, matching fields by their json tags.
func DecodePayload(data any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	})
	if err != nil {
		return fmt.Errorf("realtime: decode payload: %w", err)
	}
	err = decoder.Decode(data)
	if err != nil {
		return fmt.Errorf("realtime: decode payload: %w", err)
	}
	return nil
}

// onTyped registers a subscriber that decodes the payload into T
// before invoking f. Undecodable payloads are logged and dropped.
func onTyped[T any](c *Client, eventName string, f func(T)) func() {
	return c.On(eventName, func(data any) {
		var v T
		err := DecodePayload(data, &v)
		if err != nil {
			c.debug.Log("Dropping undecodable payload", eventName, err)
			return
		}
		f(v)
	})
}

func (c *Client) OnNewMessage(f func(ChatMessage)) func() {
	return onTyped(c, EventNewMessage, f)
}

func (c *Client) OnNewNotification(f func(Notification)) func() {
	return onTyped(c, EventNewNotification, f)
}

func (c *Client) OnTyping(f func(TypingSignal)) func() {
	return onTyped(c, EventTyping, f)
}

func (c *Client) OnMessageRead(f func(MessageRead)) func() {
	return onTyped(c, EventMessageRead, f)
}

func (c *Client) OnFriendRequestAccepted(f func(FriendRequestAccepted)) func() {
	return onTyped(c, EventFriendRequestAccepted, f)
}
