package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

// Limits of /trail streams.
const (
	defaultTrailSteps    = 500
	maxTrailSteps        = 100000
	defaultTrailInterval = 50 * time.Millisecond
	minTrailInterval     = 5 * time.Millisecond
)

// TrailMessage is one frame of a trail stream.
type TrailMessage struct {
	ID        string       `json:"id"`
	Seed      uint32       `json:"seed"`
	Step      int          `json:"step"`
	Head      grid.Point   `json:"head"`
	Positions []grid.Point `json:"positions"`
	Arrived   bool         `json:"arrived"`
}

type trailParams struct {
	seed     uint32
	start    grid.Point
	dest     grid.Point
	length   int
	steps    int
	interval time.Duration
}

func (s *Server) parseTrail(r *http.Request) (trailParams, error) {
	p := trailParams{interval: defaultTrailInterval}
	var err error
	if p.seed, err = seedParam(r); err != nil {
		return p, err
	}
	if p.start.X, err = intQuery(r, "x", 0); err != nil {
		return p, err
	}
	if p.start.Y, err = intQuery(r, "y", 0); err != nil {
		return p, err
	}
	if p.dest, err = pointQuery(r, "to"); err != nil {
		return p, err
	}
	if p.length, err = intQuery(r, "length", s.opts.TrailLength); err != nil {
		return p, err
	}
	if p.steps, err = intQuery(r, "steps", defaultTrailSteps); err != nil {
		return p, err
	}
	if p.steps < 1 || p.steps > maxTrailSteps {
		return p, errors.New(errors.ErrCodeInvalidInput, "steps must be between 1 and %d", maxTrailSteps)
	}
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidInput, err, "interval")
		}
		p.interval = max(d, minTrailInterval)
	}
	return p, nil
}

// handleTrail streams a trail walking toward a destination, one message per
// step, and closes the connection when the trail arrives or runs out of
// steps.
func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseTrail(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := trail.New(s.engine.Space(), p.seed, p.length, p.start)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.opts.OriginPatterns})
	if err != nil {
		s.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	// the client sends nothing; CloseRead ends ctx when it disconnects
	ctx := conn.CloseRead(r.Context())
	s.logger.Debug("trail stream opened", "id", t.ID, "seed", p.seed, "from", p.start, "to", p.dest)

	reason, err := s.streamTrail(ctx, conn, t, p)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("trail stream failed", "id", t.ID, "error", err)
			_ = conn.Close(websocket.StatusInternalError, errors.UserMessage(err))
		}
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, reason)
}

func (s *Server) streamTrail(ctx context.Context, conn *websocket.Conn, t *trail.Trail, p trailParams) (string, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for step := 0; ; step++ {
		msg := TrailMessage{
			ID:        t.ID.String(),
			Seed:      t.Seed,
			Step:      step,
			Head:      t.Head(),
			Positions: t.Positions,
			Arrived:   t.Head() == p.dest,
		}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			return "", err
		}
		if msg.Arrived {
			return "arrived", nil
		}
		if step == p.steps {
			return "step limit", nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		err := s.engine.Pump(ctx, s.opts.Budget, func() bool {
			_, ok := t.Advance(s.engine, p.dest)
			return ok
		})
		if err != nil {
			return "", err
		}
	}
}
