package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/fractal"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/pattern"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// Default viewport size for /view.
const (
	defaultViewWidth  = 40
	defaultViewHeight = 20
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type catalogResponse struct {
	Fingerprint string        `json:"fingerprint"`
	Stats       pattern.Stats `json:"stats"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	reg := s.engine.Registry()
	s.writeJSON(w, http.StatusOK, catalogResponse{Fingerprint: reg.Fingerprint(), Stats: reg.Stats()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	seed, err := seedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.engine.Stats(seed))
}

type cellResponse struct {
	Coord    fractal.Coord `json:"coord"`
	Position grid.Point    `json:"position"`
	Entry    string        `json:"entry"`
	Exit     string        `json:"exit"`
	Next     grid.Point    `json:"next"`
	Prev     grid.Point    `json:"prev"`
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	seed, err := seedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := parsePoint(chi.URLParam(r, "x") + "," + chi.URLParam(r, "y"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	space := s.engine.Space()
	c := space.AbsoluteToFractal(seed, p)
	var (
		entry, exit grid.Orientation
		next, prev  fractal.Coord
	)
	err = s.engine.Pump(r.Context(), s.opts.Budget, func() bool {
		var ok [4]bool
		entry, ok[0] = s.engine.OrientationAt(c)
		exit, ok[1] = s.engine.ExitAt(c)
		next, ok[2] = s.engine.NextCell(c)
		prev, ok[3] = s.engine.PrevCell(c)
		return ok == [4]bool{true, true, true, true}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, cellResponse{
		Coord:    c,
		Position: p,
		Entry:    entry.String(),
		Exit:     exit.String(),
		Next:     space.FractalToAbsolute(next),
		Prev:     space.FractalToAbsolute(prev),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	seed, err := seedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := render.Viewport{Seed: seed}
	for _, q := range []struct {
		name string
		dst  *int
		def  int
	}{
		{"x", &v.Center.X, 0},
		{"y", &v.Center.Y, 0},
		{"width", &v.Width, defaultViewWidth},
		{"height", &v.Height, defaultViewHeight},
		{"scale", &v.Scale, 0},
	} {
		if *q.dst, err = intQuery(r, q.name, q.def); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	res, err := s.runner.RenderView(r.Context(), pipeline.ViewOptions{
		Viewport: v,
		Format:   r.URL.Query().Get("format"),
		Partial:  boolQuery(r, "partial"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	s.writeBytes(w, contentType(res.Format), res.Data)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	raw := fmt.Sprintf("%s/%s/%s", chi.URLParam(r, "seed"), chi.URLParam(r, "height"), chi.URLParam(r, "trace"))
	c, err := fractal.ParseCoord(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.RenderTile(r.Context(), pipeline.TileOptions{
		Coord:    c,
		Format:   r.URL.Query().Get("format"),
		Detailed: boolQuery(r, "detailed"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	s.writeBytes(w, contentType(res.Format), res.Data)
}

type distanceResponse struct {
	From      fractal.Coord `json:"from"`
	To        fractal.Coord `json:"to"`
	Distance  int64         `json:"distance"`
	Direction int           `json:"direction"`
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	seed, err := seedParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	from, err := pointQuery(r, "from")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	to, err := pointQuery(r, "to")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	space := s.engine.Space()
	a, b := space.AbsoluteToFractal(seed, from), space.AbsoluteToFractal(seed, to)
	var (
		dist int64
		dir  int
	)
	err = s.engine.Pump(r.Context(), s.opts.Budget, func() bool {
		var ok1, ok2 bool
		dist, ok1 = s.engine.DistanceTo(a, b)
		dir, ok2 = s.engine.DirectionTowards(a, b)
		return ok1 && ok2
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, distanceResponse{From: a, To: b, Distance: dist, Direction: dir})
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
