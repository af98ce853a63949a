package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SendChatMessage emits a chat message into a conversation. The server
// persists it and fans it out as new_message to the room.
func (c *Client) SendChatMessage(conversationID int64, content string) {
	c.Emit(EventChatMessage, map[string]any{
		"conversation_id": conversationID,
		"content":         content,
	})
}

// JoinConversation asserts interest in a conversation room. Membership
// is re-asserted automatically after a reconnect.
func (c *Client) JoinConversation(conversationID int64) {
	c.rooms.conversations.Add(conversationID)
	c.Emit(EventJoinConversation, map[string]any{
		"conversation_id": conversationID,
	})
}

// LeaveConversation drops interest in a conversation room.
func (c *Client) LeaveConversation(conversationID int64) {
	c.rooms.conversations.Remove(conversationID)
	c.Emit(EventLeaveConversation, map[string]any{
		"conversation_id": conversationID,
	})
}

// SendTyping emits a typing indicator. This layer imposes no rate
// limit; use TypingNotifier for keystroke-driven throttling.
func (c *Client) SendTyping(conversationID int64, isTyping bool) {
	c.Emit(EventTyping, map[string]any{
		"conversation_id": conversationID,
		"is_typing":       isTyping,
	})
}

// MarkRead records a read receipt. Persistence goes through REST while
// the mark_read emission lets peers see the update in real time. Best
// effort, not transactional: a REST failure is logged and the emission
// still proceeds.
func (c *Client) MarkRead(ctx context.Context, conversationID int64) {
	err := c.postReadReceipt(ctx, conversationID)
	if err != nil {
		c.debug.Log("Read receipt failed", err)
		c.onError(err)
	}
	c.Emit(EventMarkRead, map[string]any{
		"conversation_id": conversationID,
	})
}

func (c *Client) postReadReceipt(ctx context.Context, conversationID int64) error {
	token, ok := c.tokens.Token()
	if !ok || token == "" {
		return errors.New("realtime: read receipt: no auth token")
	}

	url := fmt.Sprintf("%s/api/chat/read/%d", strings.TrimSuffix(c.urls.APIBaseURL(), "/"), conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("realtime: read receipt: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("realtime: read receipt: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("realtime: read receipt: unexpected status %s", resp.Status)
	}
	return nil
}
