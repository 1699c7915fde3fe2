package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const discordAPIBase = "https://discord.com/api/v10"

type discordGateway struct {
	token string
	http  *http.Client
}

// NewDiscord returns a Gateway backed by the Discord REST API using a bot
// token. Role changes require the bot role to sit above the managed roles.
func NewDiscord(botToken string) Gateway {
	return &discordGateway{
		token: botToken,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *discordGateway) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, discordAPIBase+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("discord %s %s: %d %s", method, path, resp.StatusCode, string(raw))
	}
	return raw, nil
}

func (d *discordGateway) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID)
	_, err := d.do(ctx, http.MethodPut, path, nil)
	return err
}

func (d *discordGateway) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID)
	_, err := d.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (d *discordGateway) SendDM(ctx context.Context, userID, message string) error {
	// DMs need a channel first; Discord reuses the existing one if present.
	raw, err := d.do(ctx, http.MethodPost, "/users/@me/channels", map[string]string{
		"recipient_id": userID,
	})
	if err != nil {
		return err
	}
	var ch struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &ch); err != nil {
		return err
	}
	return d.SendChannel(ctx, ch.ID, message)
}

func (d *discordGateway) SendChannel(ctx context.Context, channelID, message string) error {
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	_, err := d.do(ctx, http.MethodPost, path, map[string]string{"content": message})
	return err
}
