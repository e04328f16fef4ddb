package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

func (h *handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *handler) login(c *gin.Context) {
	if err := h.auth.checkPassword(c.PostForm("password")); err != nil {
		slog.WarnContext(c.Request.Context(), "Failed admin login", "ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Wrong password"})
		return
	}

	token, expiry, err := h.auth.issueToken()
	if err != nil {
		h.fail(c, err)
		return
	}

	maxAge := int(expiry.Sub(h.auth.now()).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *handler) logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *handler) dashboard(c *gin.Context) {
	stats, err := h.generations.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Stats": stats})
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "users.html", gin.H{"Users": users})
}

func (h *handler) showUser(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	generations, err := h.generations.ListByUser(ctx, id, userGenerationsLimit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "user.html", gin.H{"User": user, "Generations": generations})
}

func (h *handler) setAllowance(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	allowance, err := strconv.Atoi(c.PostForm("allowance"))
	if err != nil || allowance < 0 {
		c.String(http.StatusBadRequest, "allowance must be a non-negative integer")
		return
	}

	if err := h.users.SetAllowance(c.Request.Context(), id, allowance); err != nil {
		h.fail(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "Allowance changed", "user_id", id, "allowance", allowance)
	c.Redirect(http.StatusSeeOther, userPath(id))
}

func (h *handler) setBlocked(c *gin.Context) {
	h.setFlag(c, "blocked", h.users.SetBlocked)
}

func (h *handler) setAdmin(c *gin.Context) {
	h.setFlag(c, "admin", h.users.SetAdmin)
}

func (h *handler) setFlag(c *gin.Context, name string, set func(ctx context.Context, id int64, v bool) error) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	value, err := strconv.ParseBool(c.PostForm(name))
	if err != nil {
		c.String(http.StatusBadRequest, "%s must be true or false", name)
		return
	}

	if err := set(c.Request.Context(), id, value); err != nil {
		h.fail(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "User flag changed", "user_id", id, "flag", name, "value", value)
	c.Redirect(http.StatusSeeOther, userPath(id))
}

func (h *handler) listPricing(c *gin.Context) {
	prices, err := h.pricing.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "pricing.html", gin.H{"Pricing": prices})
}

func (h *handler) updatePricing(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	cost, costErr := strconv.ParseFloat(c.PostForm("api_cost"), 64)
	sale, saleErr := strconv.ParseFloat(c.PostForm("sale_price"), 64)
	if costErr != nil || saleErr != nil || cost < 0 || sale < 0 {
		c.String(http.StatusBadRequest, "prices must be non-negative numbers")
		return
	}

	if err := h.pricing.Update(c.Request.Context(), id, cost, sale); err != nil {
		h.fail(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "Pricing changed", "pricing_id", id, "api_cost", cost, "sale_price", sale)
	c.Redirect(http.StatusSeeOther, "/admin/pricing")
}

func (h *handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *handler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.String(http.StatusNotFound, "not found")
		return
	}
	slog.ErrorContext(c.Request.Context(), "Admin request failed", "path", c.FullPath(), logger.Err(err))
	c.String(http.StatusInternalServerError, "internal error")
}

func userPath(id int64) string {
	return "/admin/users/" + strconv.FormatInt(id, 10)
}
