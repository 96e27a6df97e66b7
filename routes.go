package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/page"
	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	themeCookie        = "theme"
	themeCookieMaxAge  = 365 * 24 * 3600
	reducedMotionHint  = "Sec-CH-Prefers-Reduced-Motion"
	contactOutcomeHead = "X-Contact-Outcome"
)

type server struct {
	store  *content.Store
	desk   *contact.Desk
	salt   string
	logger *zap.Logger
	clock  clock.Clock
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(content.Templates())
	r.StaticFS("/static", http.FS(content.Static()))

	// Home page route
	r.GET("/", s.handleHome)

	// HTMX contact form fragment
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, content.ContactFormTemplate, content.FormData(s.store.Site(), content.FormView{}))
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", s.handleContact)

	r.POST("/theme", s.handleTheme)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, content.PrivacyTemplate, content.PageData(s.store.Site(), content.View{Theme: s.themeOf(c).String()}))
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// prefersReducedMotion reads the client hint, with a query override for
// browsers that do not send hints.
func prefersReducedMotion(c *gin.Context) bool {
	if c.Query("motion") == "reduce" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader(reducedMotionHint)), "reduce")
}

func (s *server) themeOf(c *gin.Context) theme.Theme {
	v, _ := c.Cookie(themeCookie)
	return theme.Parse(v)
}

func (s *server) handleHome(c *gin.Context) {
	site := s.store.Site()
	sess := page.NewSession(site, page.Env{
		ReducedMotion: prefersReducedMotion(c),
		Theme:         s.themeOf(c),
		Clock:         s.clock,
		Logger:        s.logger,
	})
	sess.Mount()
	defer sess.Close()

	c.Header("Accept-CH", reducedMotionHint)
	c.Header("Vary", reducedMotionHint+", Cookie")
	c.HTML(http.StatusOK, content.PageTemplate, content.PageData(site, sess.View()))
}

func (s *server) handleContact(c *gin.Context) {
	var p contact.Payload
	if err := c.ShouldBind(&p); err != nil {
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	res, err := s.desk.Submit(c.Request.Context(), s.clientKey(c), p)
	form := content.FormView{Values: res.Values, Errors: res.FieldErrors, Status: res.Status}

	// HTMX only swaps 2xx responses, so every outcome is a 200 fragment.
	switch {
	case err == nil:
		c.Header(contactOutcomeHead, "sent")
	case errors.Is(err, contact.ErrInvalid):
		c.Header(contactOutcomeHead, "invalid")
	case errors.Is(err, contact.ErrSubmissionPending):
		c.Header(contactOutcomeHead, "pending")
		form.Disabled = true
	default:
		c.Header(contactOutcomeHead, "failed")
		_ = c.Error(err)
	}
	c.HTML(http.StatusOK, content.ContactFormTemplate, content.FormData(s.store.Site(), form))
}

func (s *server) handleTheme(c *gin.Context) {
	next := s.themeOf(c).Toggle()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next.String(), themeCookieMaxAge, "/", "", false, true)

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.JSON(http.StatusOK, gin.H{"theme": next, "announcement": next.Announcement()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
