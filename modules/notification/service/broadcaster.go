package service

import (
	"context"
	"encoding/json"

	"sportmeet/core/cache"
	"sportmeet/core/constants"
	"sportmeet/core/logger"
	"sportmeet/modules/notification/dto"
	"sportmeet/modules/notification/hub"
)

// Broadcaster delivers an envelope to the hubs that hold live connections.
type Broadcaster interface {
	Broadcast(ctx context.Context, env dto.Envelope) error
}

// LocalBroadcaster publishes straight to this process's hub.
type LocalBroadcaster struct {
	hub *hub.Hub
}

func NewLocalBroadcaster(h *hub.Hub) *LocalBroadcaster {
	return &LocalBroadcaster{hub: h}
}

func (b *LocalBroadcaster) Broadcast(_ context.Context, env dto.Envelope) error {
	_, err := b.hub.Publish(env.EventID, env.Frame)
	return err
}

// RedisBroadcaster fans envelopes out over a pub/sub channel so every
// instance's hub sees them.
type RedisBroadcaster struct {
	cache   *cache.Cache
	hub     *hub.Hub
	channel string
}

func NewRedisBroadcaster(c *cache.Cache, h *hub.Hub) *RedisBroadcaster {
	return &RedisBroadcaster{cache: c, hub: h, channel: constants.RedisChannelNotifications}
}

func (b *RedisBroadcaster) Broadcast(ctx context.Context, env dto.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.cache.Publish(ctx, b.channel, raw)
}

// Run relays channel messages into the local hub until ctx is done.
func (b *RedisBroadcaster) Run(ctx context.Context) error {
	return b.cache.Subscribe(ctx, b.channel, func(raw []byte) {
		var env dto.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			logger.Warn("RedisBroadcaster:Run:Unmarshal:Error", "error", err)
			return
		}
		if _, err := b.hub.Publish(env.EventID, env.Frame); err != nil {
			logger.Warn("RedisBroadcaster:Run:Publish:Error", "error", err)
		}
	})
}
