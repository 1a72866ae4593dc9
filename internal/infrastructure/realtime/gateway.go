package realtime

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Gateway is the single publishing entry point for server-originated events.
// It delivers to local sessions through the Router and, when a Bus is set,
// relays the same frame to the other instances.
type Gateway struct {
	router     *Router
	bus        Bus
	instanceID string
	log        *zap.Logger
}

// NewGateway wires a gateway. bus may be nil for a single-instance deployment.
func NewGateway(router *Router, bus Bus, instanceID string, log *zap.Logger) *Gateway {
	return &Gateway{
		router:     router,
		bus:        bus,
		instanceID: instanceID,
		log:        log.With(zap.String("module", "realtime_gateway")),
	}
}

func (g *Gateway) Router() *Router { return g.router }

// PublishToConversation delivers an event to the conversation's broadcast group.
func (g *Gateway) PublishToConversation(ctx context.Context, conversationID, eventType string, payload any, excludeUserID string) error {
	return g.publish(ctx, Delivery{Scope: ScopeRoom, Target: conversationID, ExcludeUserID: excludeUserID}, eventType, payload)
}

// PublishToUser delivers an event to the user's personal channel.
func (g *Gateway) PublishToUser(ctx context.Context, userID, eventType string, payload any) error {
	return g.publish(ctx, Delivery{Scope: ScopeUser, Target: userID}, eventType, payload)
}

// PublishToAll delivers an event to every connected session.
func (g *Gateway) PublishToAll(ctx context.Context, eventType string, payload any, excludeUserID string) error {
	return g.publish(ctx, Delivery{Scope: ScopeAll, ExcludeUserID: excludeUserID}, eventType, payload)
}

// Run relays deliveries published by other instances until ctx is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	if g.bus == nil {
		<-ctx.Done()
		return nil
	}
	return g.bus.Subscribe(ctx, func(d Delivery) {
		if d.Origin == g.instanceID {
			return
		}
		g.deliverLocal(d)
	})
}

func (g *Gateway) publish(ctx context.Context, d Delivery, eventType string, payload any) error {
	frame, err := Encode(eventType, payload)
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", eventType, err)
	}
	d.Origin = g.instanceID
	d.Frame = frame

	g.deliverLocal(d)

	if g.bus == nil {
		return nil
	}
	if err := g.bus.Publish(ctx, d); err != nil {
		g.log.Warn("relay to peers failed", zap.String("event", eventType), zap.String("scope", string(d.Scope)), zap.Error(err))
		return err
	}
	return nil
}

func (g *Gateway) deliverLocal(d Delivery) int {
	switch d.Scope {
	case ScopeRoom:
		return g.router.Broadcast(d.Target, d.Frame, d.ExcludeUserID)
	case ScopeUser:
		return g.router.NotifyUser(d.Target, d.Frame)
	case ScopeAll:
		return g.router.BroadcastAll(d.Frame, d.ExcludeUserID)
	default:
		g.log.Warn("unknown delivery scope", zap.String("scope", string(d.Scope)))
		return 0
	}
}

// SendError writes an error frame to one session.
func SendError(s Session, code, message string) {
	SendErrorPayload(s, ErrorPayload{Code: code, Error: message})
}

func SendErrorPayload(s Session, p ErrorPayload) {
	if frame, err := Encode(EventError, p); err == nil {
		_ = s.Send(frame)
	}
}

// SendEvent writes an event frame to one session.
func SendEvent(s Session, eventType string, payload any) error {
	frame, err := Encode(eventType, payload)
	if err != nil {
		return err
	}
	return s.Send(frame)
}
