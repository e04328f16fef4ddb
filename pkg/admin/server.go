package admin

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

//go:embed templates/*.html
var templates embed.FS

const userGenerationsLimit = 50

type Config struct {
	Password     string
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
	// Secure marks the session cookie HTTPS-only.
	Secure bool
}

type UserStore interface {
	List(ctx context.Context) ([]domain.UserSummary, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	SetAllowance(ctx context.Context, id int64, allowance int) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
}

type GenerationStore interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Generation, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type PricingStore interface {
	List(ctx context.Context) ([]domain.Pricing, error)
	Update(ctx context.Context, id int64, cost, salePrice float64) error
}

type handler struct {
	auth        *authenticator
	secure      bool
	users       UserStore
	generations GenerationStore
	pricing     PricingStore
}

// NewRouter builds the web console. Only allowance, blocked and admin flags of
// users and the two pricing columns are writable.
func NewRouter(cfg Config, users UserStore, generations GenerationStore, pricing PricingStore) (*gin.Engine, error) {
	auth, err := newAuthenticator(cfg)
	if err != nil {
		return nil, err
	}

	h := &handler{
		auth:        auth,
		secure:      cfg.Secure,
		users:       users,
		generations: generations,
		pricing:     pricing,
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(tmpl)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/admin") })
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	g := r.Group("/admin", h.requireSession())
	g.GET("", h.dashboard)
	g.GET("/users", h.listUsers)
	g.GET("/users/:id", h.showUser)
	g.POST("/users/:id/allowance", h.setAllowance)
	g.POST("/users/:id/block", h.setBlocked)
	g.POST("/users/:id/admin", h.setAdmin)
	g.GET("/pricing", h.listPricing)
	g.POST("/pricing/:id", h.updatePricing)

	return r, nil
}

var templateFuncs = template.FuncMap{
	"ago":   humanize.Time,
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"money": func(v float64) string { return humanize.FormatFloat("#,###.####", v) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}
