package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"SProject/logger"
)

type ServerConf struct {
	SendQueueSize int // per-connection outbound queue
	FanoutWorkers int
	FanoutQueue   int
	PingInterval  time.Duration
	PongWait      time.Duration
	WriteWait     time.Duration
}

func (c *ServerConf) norm() {
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.FanoutWorkers <= 0 {
		c.FanoutWorkers = 8
	}
	if c.FanoutQueue <= 0 {
		c.FanoutQueue = 1024
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 75 * time.Second
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
}

// Server is the realtime gateway: it admits authenticated websocket
// connections, tracks their sessions and presence, and fans conversation
// events out to the right recipients. Registry and throttle are owned here,
// constructed explicitly and reset on Close — no package-level state.
type Server struct {
	conf ServerConf
	gwID string

	auth     *AuthGate
	reg      *Registry
	presence *PresenceTracker
	throttle *TypingThrottle
	disp     *Dispatcher
	fanout   *Fanout

	closeOnce sync.Once
}

func NewServer(gwID string, conf ServerConf, auth *AuthGate, conv ConversationStore, presenceStore PresenceStore, mirror PresenceMirror) *Server {
	conf.norm()

	reg := NewRegistry()
	throttle := NewTypingThrottle()
	router := NewRouter(reg, conv, throttle)

	disp := NewDispatcher()
	for _, r := range router.Resolvers() {
		disp.Register(r)
	}

	return &Server{
		conf:     conf,
		gwID:     gwID,
		auth:     auth,
		reg:      reg,
		presence: NewPresenceTracker(presenceStore, mirror),
		throttle: throttle,
		disp:     disp,
		fanout:   NewFanout(conf.FanoutWorkers, conf.FanoutQueue),
	}
}

func (s *Server) GwID() string { return s.gwID }

func (s *Server) Registry() *Registry { return s.reg }

func (s *Server) Throttle() *TypingThrottle { return s.throttle }

// DispatchEvent resolves one inbound event and hands the deliveries to the
// fanout pool. Unresolvable or malformed events resolve to nothing; a
// collaborator failure is logged and the event skipped. Nothing here may
// surface an error back to the sending connection.
func (s *Server) DispatchEvent(ctx context.Context, from *Client, evt *Event) {
	targets, out, err := s.disp.Resolve(ctx, from, evt)
	if err != nil {
		if errors.Is(err, errNoResolver) {
			logger.Debugf("[server] dropping unhandled event type=%s user=%s", evt.Type, from.UserID)
		} else {
			logger.Warnf("[server] resolve failed type=%s user=%s: %v", evt.Type, from.UserID, err)
		}
		return
	}
	if len(targets) == 0 || out == nil {
		return
	}
	data, err := MarshalEvent(out)
	if err != nil {
		logger.Warnf("[server] marshal outbound type=%s: %v", out.Type, err)
		return
	}
	s.fanout.Broadcast(targets, data)
}

// Close stops the fanout pool and clears all shared state.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.fanout.Close()
		s.reg.Reset()
		s.throttle.Reset()
	})
}
