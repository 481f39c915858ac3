package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/scoring"
)

type event struct {
	name string
	data any
}

// export streams analysis progress then the scoring report as SSE
func (s *Server) export(c *gin.Context) {
	sess := current(c)
	sess.mu.Lock()
	meta := sess.meta
	sess.mu.Unlock()
	if v := c.Query("platform"); v != "" {
		meta.Platform = v
	}
	if v := c.Query("niche"); v != "" {
		meta.Niche = v
	}
	if v := c.Query("trend"); v != "" {
		meta.Trend = v
	}
	comp := sess.engine().Composition(meta)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events := make(chan event)
	err := s.pool.Submit(func() {
		defer close(events)
		s.analyze(ctx, comp, events)
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for ev := range events {
		c.SSEvent(ev.name, ev.data)
		c.Writer.Flush()
	}
}

func (s *Server) analyze(ctx context.Context, comp scoring.Composition, events chan<- event) {
	send := func(ev event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	err := scoring.Progress(ctx, s.cfg.Server.ExportStep, s.cfg.Server.ExportIncrement, func(pct int) {
		send(event{name: "progress", data: gin.H{"progress": pct}})
	})
	if err != nil {
		return
	}

	report, err := s.scorer.Score(ctx, comp)
	if err != nil {
		send(event{name: "error", data: gin.H{"error": editor.UserMessage(err)}})
		return
	}
	send(event{name: "report", data: report})
}
