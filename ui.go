package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/dom"
	"github.com/Zachkp/folio/internal/resume"
	"github.com/Zachkp/folio/internal/session"
)

// sessionHeader carries the live page id. The event stream, which cannot set
// headers, passes it as the session query parameter.
const sessionHeader = "X-Folio-Session"

type eventRequest struct {
	Type  string `json:"type" binding:"required"`
	UID   string `json:"uid"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Alt   bool   `json:"alt"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
}

type boxReport struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

type scrollRequest struct {
	Y      float64              `json:"y"`
	Width  float64              `json:"width"`
	Height float64              `json:"height"`
	Boxes  map[string]boxReport `json:"boxes"`
}

type colorSchemeRequest struct {
	Dark bool `json:"dark"`
}

type navigation struct {
	URL    string `json:"url"`
	Target string `json:"target,omitempty"`
}

// uiUpdate is what the browser applies after every interaction.
type uiUpdate struct {
	Body     string       `json:"body"`
	Theme    string       `json:"theme"`
	Navigate []navigation `json:"navigate,omitempty"`
	Scroll   *float64     `json:"scroll,omitempty"`
}

func snapshot(p *app.App) uiUpdate {
	u := uiUpdate{Body: p.Body(), Theme: p.Theme()}
	for _, n := range p.TakeNavigations() {
		u.Navigate = append(u.Navigate, navigation{URL: n.URL, Target: n.Target})
	}
	if y, ok := p.TakeScroll(); ok {
		u.Scroll = &y
	}
	return u
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	return c.Query("session")
}

// requireSession resolves the live page or answers 410 so the client reloads.
func (s *server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.sessions.Get(sessionID(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "session expired"})
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

func liveSession(c *gin.Context) *session.Session {
	return c.MustGet("session").(*session.Session)
}

// apply runs fn on the page and answers with the resulting update.
func apply(c *gin.Context, fn func(*app.App)) {
	var u uiUpdate
	err := liveSession(c).Do(func(p *app.App) {
		fn(p)
		u = snapshot(p)
	})
	if err != nil {
		c.JSON(http.StatusGone, gin.H{"error": "session expired"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *server) uiEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var run func(*app.App)
	switch req.Type {
	case dom.Click:
		run = func(p *app.App) { p.Click(req.UID) }
	case dom.KeyDown:
		mods := dom.Modifiers{Alt: req.Alt, Ctrl: req.Ctrl, Meta: req.Meta, Shift: req.Shift}
		run = func(p *app.App) { p.Key(req.UID, req.Key, mods) }
	case dom.Input:
		run = func(p *app.App) { p.Input(req.UID, req.Value) }
	case dom.MouseEnter, dom.MouseLeave:
		enter := req.Type == dom.MouseEnter
		run = func(p *app.App) { p.Hover(req.UID, enter) }
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported event type %q", req.Type)})
		return
	}
	apply(c, run)
}

func (s *server) uiScroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report := app.ScrollReport{Y: req.Y, Width: req.Width, Height: req.Height}
	if len(req.Boxes) > 0 {
		report.Boxes = make(map[string]dom.Rect, len(req.Boxes))
		for uid, b := range req.Boxes {
			report.Boxes[uid] = dom.Rect{Top: b.Top, Height: b.Height}
		}
	}
	apply(c, func(p *app.App) { p.Scroll(report) })
}

func (s *server) uiColorScheme(c *gin.Context) {
	var req colorSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	apply(c, func(p *app.App) { p.ColorScheme(req.Dark) })
}

// uiStream pushes updates the page makes on its own: animation frames,
// toasts and finished downloads.
func (s *server) uiStream(c *gin.Context) {
	sess := liveSession(c)
	_, changed := sess.Watch()
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-changed:
		}
		_, changed = sess.Watch()
		var u uiUpdate
		if err := sess.Do(func(p *app.App) { u = snapshot(p) }); err != nil {
			c.SSEvent("expired", "")
			return false
		}
		c.SSEvent("update", u)
		return true
	})
	s.log.Debug("stream closed", zap.String("session", sess.ID))
}

// resume hands over the document a page fetched for its download. Without
// one, it fetches the export directly.
// pendingResume takes the document the page already downloaded, if any.
func (s *server) pendingResume(sess *session.Session) *resume.Document {
	var doc *resume.Document
	if err := sess.Do(func(p *app.App) { doc, _ = p.TakeResume() }); err != nil {
		s.log.Debug("resume session expired, fetching directly", zap.String("session", sess.ID), zap.Error(err))
		return nil
	}
	return doc
}

func (s *server) resume(c *gin.Context) {
	var doc *resume.Document
	if sess, ok := s.sessions.Get(sessionID(c)); ok {
		doc = s.pendingResume(sess)
	}
	if doc == nil {
		site := s.catalog.Current()
		shareURL := s.cfg.Resume.ShareURL
		if shareURL == "" {
			shareURL = site.ResumeURL
		}
		var err error
		doc, err = s.fetcher(site).Fetch(c.Request.Context(), shareURL)
		if err != nil {
			s.log.Warn("resume fetch failed", zap.Error(err))
			c.String(http.StatusBadGateway, resume.MsgFailed)
			return
		}
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
