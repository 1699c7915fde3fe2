// Package chat abstracts the Discord side effects of membership and
// subscription changes (role grants, DMs, channel posts) so services and
// scanners stay testable without a live bot connection.
package chat

import "context"

type Gateway interface {
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SendDM(ctx context.Context, userID, message string) error
	SendChannel(ctx context.Context, channelID, message string) error
}
