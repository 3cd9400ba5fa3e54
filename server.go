package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/app"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/prefs"
	"github.com/Zachkp/folio/internal/resume"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/session"
)

// visitorCookieAge keeps the visitor id, and with it the stored theme, for a
// year.
const visitorCookieAge = 365 * 24 * 3600

// server holds everything the HTTP handlers share.
type server struct {
	cfg      *config.Config
	log      *zap.Logger
	catalog  *content.Catalog
	sessions *session.Manager
	db       *prefs.DB
	hasher   *prefs.Hasher
	mail     mailer
	now      func() time.Time

	adminToken string
}

func newServer(cfg *config.Config, log *zap.Logger, catalog *content.Catalog, db *prefs.DB, mail mailer) (*server, error) {
	hasher, err := prefs.NewHasher()
	if err != nil {
		return nil, err
	}
	token, err := prefs.RandomToken()
	if err != nil {
		return nil, err
	}
	s := &server{
		cfg:     cfg,
		log:     log,
		catalog: catalog,
		sessions: session.NewManager(session.Options{
			TTL:       cfg.Session.TTL,
			Sweep:     cfg.Session.Sweep,
			MaxActive: cfg.Session.MaxActive,
		}, log.Named("session")),
		db:         db,
		hasher:     hasher,
		mail:       mail,
		now:        time.Now,
		adminToken: token,
	}
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		log.Warn("admin credentials not configured; dashboard login disabled")
	}
	if cfg.Tracking.Enabled {
		log.Info("visitor tracking enabled with hashed addresses")
	}
	return s, nil
}

func (s *server) routes() *gin.Engine {
	if s.cfg.Server.Mode != "" {
		gin.SetMode(s.cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(logging.Gin(s.log), logging.Recovery(s.log))
	if s.cfg.Tracking.Enabled {
		r.Use(s.visitorTrackingMiddleware())
	}
	r.LoadHTMLGlob(s.cfg.Server.Templates)

	r.Static("/images", s.cfg.Server.ImagesDir)
	r.Static("/static", s.cfg.Server.StaticDir)

	r.GET("/", s.index)
	r.GET("/healthz", s.healthz)
	r.GET("/resume", s.resume)
	r.POST("/contact", s.contact)

	ui := r.Group("/ui", s.requireSession())
	ui.POST("/event", s.uiEvent)
	ui.POST("/scroll", s.uiScroll)
	ui.POST("/color-scheme", s.uiColorScheme)
	ui.GET("/stream", s.uiStream)

	s.setupPrivacyRoutes(r)
	s.setupAdminRoutes(r)
	return r
}

// index starts a fresh live page for the visitor and returns it.
func (s *server) index(c *gin.Context) {
	visitor := s.visitorID(c)
	sess, err := s.sessions.Start(s.pageFactory(visitor))
	if err != nil {
		s.log.Error("building page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Sorry, the page could not be built.")
		return
	}
	var page string
	if err := sess.Do(func(p *app.App) { page = p.HTML() }); err != nil {
		c.String(http.StatusServiceUnavailable, "Please reload the page.")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *server) pageFactory(visitor string) session.Factory {
	return func(id string, sched schedule.Scheduler, post func(func())) (*app.App, error) {
		site := s.catalog.Current()
		return app.New(app.Options{
			Site:       site,
			Log:        s.log.With(zap.String("session", id)),
			Store:      s.db.Visitor(visitor),
			SessionID:  id,
			Sched:      sched,
			Post:       post,
			Fetcher:    s.fetcher(site),
			ResumeURL:  s.cfg.Resume.ShareURL,
			Theme:      s.cfg.Theme,
			Navigation: s.cfg.Navigation,
			Static:     "/static",
		})
	}
}

func (s *server) fetcher(site *content.Site) *resume.Fetcher {
	name := s.cfg.Resume.Filename
	if name == "" {
		name = site.ResumeFilename
	}
	return &resume.Fetcher{BaseURL: s.cfg.Resume.BaseURL, Filename: name, Timeout: s.cfg.Resume.Timeout}
}

// visitorID returns the visitor cookie, issuing one when missing.
func (s *server) visitorID(c *gin.Context) string {
	name := s.cfg.Session.CookieName
	if id, err := c.Cookie(name); err == nil && session.ValidID(id) {
		return id
	}
	id := session.NewID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, id, visitorCookieAge, "/", "", false, true)
	return id
}

func (s *server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"content":  s.catalog.LoadedAt(),
	})
}
