package identity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"garmentgrid/internal/domain"
)

// SessionEventsChannel is the Redis channel carrying session changes between
// API instances.
const SessionEventsChannel = "garmentgrid:session-events"

type relayEnvelope struct {
	Origin    string         `json:"origin"`
	SessionID string         `json:"session_id"`
	Session   domain.Session `json:"session"`
}

// RedisRelay publishes hub events on a Redis channel and replays events from
// other instances into the local hub.
type RedisRelay struct {
	client *redis.Client
	origin string
	logger zerolog.Logger
}

func NewRedisRelay(client *redis.Client, logger zerolog.Logger) *RedisRelay {
	return &RedisRelay{client: client, origin: uuid.NewString(), logger: logger}
}

func (r *RedisRelay) Publish(sessionID string, s domain.Session) {
	payload, err := encodeEnvelope(r.origin, sessionID, s)
	if err != nil {
		r.logger.Error().Err(err).Msg("encode session event failed")
		return
	}
	if err := r.client.Publish(context.Background(), SessionEventsChannel, payload).Err(); err != nil {
		r.logger.Warn().Err(err).Str("session_id", sessionID).Msg("relay session event failed")
	}
}

// Run replays remote events into hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context, hub *Hub) {
	pubsub := r.client.Subscribe(ctx, SessionEventsChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			env, err := decodeEnvelope(msg.Payload)
			if err != nil {
				r.logger.Warn().Err(err).Msg("drop malformed session event")
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			hub.Deliver(env.SessionID, env.Session)
		}
	}
}

func encodeEnvelope(origin, sessionID string, s domain.Session) (string, error) {
	b, err := json.Marshal(relayEnvelope{Origin: origin, SessionID: sessionID, Session: s})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeEnvelope(payload string) (relayEnvelope, error) {
	var env relayEnvelope
	err := json.Unmarshal([]byte(payload), &env)
	if err == nil {
		env.Session.ID = env.SessionID
	}
	return env, err
}

var _ Relay = (*RedisRelay)(nil)
