// admin.go - privacy-conscious visitor tracking, the privacy page and the
// admin dashboard
package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/prefs"
)

const (
	adminCookie   = "admin_token"
	adminSession  = 3600 * 24
	visitorsLimit = 200
	trackTimeout  = 5 * time.Second
)

// untracked lists path prefixes that never produce a visit record.
var untracked = []string{"/static/", "/images/", "/admin/", "/favicon", "/privacy", "/ui/", "/healthz", "/resume"}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untracked {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		go s.trackVisit(s.hasher.Hash(c.ClientIP()), c.GetHeader("User-Agent"), path, s.now())
		c.Next()
	}
}

func (s *server) trackVisit(hashedIP, userAgent, path string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()
	if err := s.db.RecordVisit(ctx, hashedIP, userAgent, path, at); err != nil {
		s.log.Warn("recording visit", zap.Error(err))
	}
}

// cleanupVisits removes visit records past retention now and then daily
// until ctx is done.
func (s *server) cleanupVisits(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if _, err := s.db.Cleanup(ctx, s.now()); err != nil && ctx.Err() == nil {
			s.log.Warn("privacy cleanup failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *server) stats(c *gin.Context) (*prefs.Stats, error) {
	return s.db.Stats(c.Request.Context(), s.now(), s.cfg.Theme.StorageKey)
}

func (s *server) setupPrivacyRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":       "Privacy Policy",
			"tracking":    s.cfg.Tracking.Enabled,
			"trackingTxt": PrivacyTracking,
			"prefsTxt":    PrivacyPreferences,
			"retention":   PrivacyRetention,
			"forgetTxt":   PrivacyForget,
			"forgotten":   c.Query("forgotten") != "",
		})
	})

	// Visitors can delete what is stored under their visitor id.
	r.POST("/privacy/forget", func(c *gin.Context) {
		name := s.cfg.Session.CookieName
		if id, err := c.Cookie(name); err == nil && id != "" {
			removed, err := s.db.ForgetVisitor(c.Request.Context(), id)
			if err != nil {
				s.log.Warn("forgetting visitor", zap.Error(err))
				c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
					"error": "Failed to delete your preferences",
				})
				return
			}
			s.log.Info("visitor preferences deleted", zap.Int64("rows", removed))
		}
		c.SetCookie(name, "", -1, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, "/privacy?forgotten=1")
	})
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.adminCredentialsMatch(c.PostForm("username"), c.PostForm("password")) {
			s.log.Warn("failed admin login", zap.String("client", s.hasher.Hash(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetCookie(adminCookie, s.adminToken, adminSession, "/admin", "", false, true)
		s.log.Info("admin login", zap.String("client", s.hasher.Hash(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.log.Info("admin logout", zap.String("client", s.hasher.Hash(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			s.log.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.Len(),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.db.RecentVisits(c.Request.Context(), visitorsLimit)
		if err != nil {
			s.log.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Runs the retention cleanup on demand.
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		removed, err := s.db.Cleanup(c.Request.Context(), s.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.stats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info("admin stats exported", zap.String("client", s.hasher.Hash(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}

// adminCredentialsMatch compares against the configured credentials. With
// none configured nobody can log in.
func (s *server) adminCredentialsMatch(username, password string) bool {
	want := s.cfg.Admin
	if want.Username == "" || want.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(want.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(want.Password)) == 1
	return userOK && passOK
}
