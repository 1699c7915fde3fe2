package chat

import (
	"context"
	"log"
)

type noopGateway struct{}

// NewNoop returns a Gateway that only logs. Used when no bot token is
// configured and in tests.
func NewNoop() Gateway { return noopGateway{} }

func (noopGateway) AddRole(_ context.Context, guildID, userID, roleID string) error {
	log.Printf("chat(noop): add role %s to %s in guild %s", roleID, userID, guildID)
	return nil
}

func (noopGateway) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	log.Printf("chat(noop): remove role %s from %s in guild %s", roleID, userID, guildID)
	return nil
}

func (noopGateway) SendDM(_ context.Context, userID, _ string) error {
	log.Printf("chat(noop): dm to %s", userID)
	return nil
}

func (noopGateway) SendChannel(_ context.Context, channelID, _ string) error {
	log.Printf("chat(noop): message to channel %s", channelID)
	return nil
}
