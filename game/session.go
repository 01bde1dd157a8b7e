package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	sessionOutboxSize = 256
	pingInterval      = 30 * time.Second
)

// Session is one live connection. The session id is the connection
// handle the game layer knows players by; a player keeps their identity
// across sessions via reconnect.
type Session struct {
	id      string
	conn    NetworkSession
	outbox  chan []byte
	limiter *rate.Limiter

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(conn NetworkSession) *Session {
	return &Session{
		id:      uuid.NewString(),
		conn:    conn,
		outbox:  make(chan []byte, sessionOutboxSize),
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		done:    make(chan struct{}),
	}
}

func (s *Session) Id() string {
	return s.id
}

// Send queues a packet without blocking; a session that cannot drain its
// outbox loses packets rather than stalling the sender.
func (s *Session) Send(p ServerPacket) {
	select {
	case s.outbox <- p.encode():
	default:
		log.Warn().Str("session", s.id).Str("packet", p.Type).Msg("outbox full, packet dropped")
	}
}

func (s *Session) release() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close("")
	})
}

// ReadPump decodes inbound packets and hands them to handle until the
// connection errors. closed runs exactly once on the way out.
func (s *Session) ReadPump(handle func(*Session, ClientPacket), closed func(*Session)) {
	defer func() {
		s.release()
		closed(s)
	}()

	for {
		data, err := s.conn.Read()
		if err != nil {
			return
		}

		if !s.limiter.Allow() {
			continue
		}

		var packet ClientPacket
		if err := json.Unmarshal(data, &packet); err != nil {
			log.Debug().Str("session", s.id).Err(err).Msg("dropping malformed packet")
			continue
		}

		handle(s, packet)
	}
}

func (s *Session) WritePump() {
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	for {
		select {
		case data := <-s.outbox:
			if err := s.conn.Write(data); err != nil {
				return
			}
		case <-pings.C:
			if err := s.conn.Ping(); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
