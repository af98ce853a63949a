package realtime

// CardID returns the card dashboard this client is currently anchored
// to. Empty for user-variant clients and after LeaveDashboard.
func (c *Client) CardID() string {
	c.cardMu.Lock()
	defer c.cardMu.Unlock()
	return c.cardID
}

// JoinDashboard asserts interest in a corporate card dashboard room.
// For the dashboard variant this also (re)anchors reconnection to the
// given card.
func (c *Client) JoinDashboard(cardID string) {
	if cardID == "" {
		return
	}
	if c.variant == variantDashboard {
		c.cardMu.Lock()
		c.cardID = cardID
		c.cardMu.Unlock()
	}
	c.rooms.dashboards.Add(cardID)

	token, ok := c.tokens.Token()
	if !ok || token == "" {
		c.debug.Log("No auth token, join_dashboard dropped", cardID)
		return
	}
	c.Emit(EventJoinDashboard, map[string]any{
		"card_id": cardID,
		"token":   token,
	})
}

// LeaveDashboard drops interest in a card dashboard room. When it is
// the card the dashboard variant is anchored to, the reconnect target
// is cleared and unexpected closes no longer trigger retries.
func (c *Client) LeaveDashboard(cardID string) {
	c.rooms.dashboards.Remove(cardID)

	if c.variant == variantDashboard {
		c.cardMu.Lock()
		if c.cardID == cardID {
			c.cardID = ""
		}
		c.cardMu.Unlock()
	}

	c.Emit(EventLeaveDashboard, map[string]any{
		"card_id": cardID,
	})
}
