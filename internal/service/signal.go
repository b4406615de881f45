package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

const subscriberBuffer = 16

// SignalService distributes cache invalidation events. Events always reach
// local realtime subscribers; with a redis client they are also published
// to every other instance.
type SignalService struct {
	rdb    *redis.Client
	origin string

	mu          sync.RWMutex
	subscribers map[chan domain.Event]struct{}
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb:         redisClient,
		origin:      uuid.NewString(),
		subscribers: make(map[chan domain.Event]struct{}),
	}
}

// Origin identifies this instance in published events.
func (s *SignalService) Origin() string {
	return s.origin
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	event.Origin = s.origin
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	s.broadcast(event)

	if s.rdb == nil {
		return nil
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, domain.InvalidationChannel, jsonstr).Err()
	if err != nil {
		return errors.Wrap(err, "SignalService.Publish: redis publish failed")
	}

	return nil
}

// Listen relays events published by other instances to onRemote and to the
// local subscribers until ctx is done. It returns immediately without redis.
func (s *SignalService) Listen(ctx context.Context, onRemote func(context.Context, domain.Event)) error {
	if s.rdb == nil {
		return nil
	}

	pubsub := s.rdb.Subscribe(ctx, domain.InvalidationChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return errors.Wrap(err, "SignalService.Listen: subscribe failed")
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.WarnContext(
					ctx, "Invalid invalidation event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if event.Origin == s.origin {
				continue
			}
			if onRemote != nil {
				onRemote(ctx, event)
			}
			s.broadcast(event)
		}
	}
}

// Subscribe registers a local listener. The returned function unregisters it.
func (s *SignalService) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, subscriberBuffer)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
		})
	}
}

func (s *SignalService) broadcast(event domain.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			slog.Warn(
				"Dropping event for slow subscriber",
				slog.String("type", event.Type),
				slog.String("module", "signal"),
			)
		}
	}
}

// Realtime forwards events whose key starts with one of the prefixes most
// recently received on input. Cache-cleared events and an empty prefix list
// match everything. It returns when ctx is done.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- domain.Event) {
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	var prefixes []string
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			prefixes = p
		case event := <-events:
			if !matchPrefixes(event, prefixes) {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func matchPrefixes(event domain.Event, prefixes []string) bool {
	if len(prefixes) == 0 || event.Key == "" {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(event.Key, prefix) {
			return true
		}
	}
	return false
}
