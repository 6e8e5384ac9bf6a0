// Package server exposes the market state and the shared records to web
// viewers over HTTP and a websocket.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/store"
	"github.com/snowgift/snow-gift/ticker"
	"github.com/snowgift/snow-gift/wallet"
)

const (
	MessageMarket   = "market"
	MessageSettings = "settings"
	MessageWallets  = "wallets"
	MessageWinners  = "winners"
)

type MarketSource interface {
	State() ticker.State
}

type SettingsRepo interface {
	Get(ctx context.Context) (*store.Settings, error)
	Update(ctx context.Context, milestones []store.Milestone, stats store.Stats) error
}

type WalletRepo interface {
	List(ctx context.Context) ([]store.Wallet, error)
}

type WinnerRepo interface {
	List(ctx context.Context) ([]store.Winner, error)
}

type WalletConnector interface {
	Connect(ctx context.Context, address string) (*store.Wallet, error)
	Disconnect()
}

// Deps are the handler dependencies. Record repos are nil when no database
// is configured.
type Deps struct {
	Market    MarketSource
	Settings  SettingsRepo
	Wallets   WalletRepo
	Winners   WinnerRepo
	Connector WalletConnector
	Hub       *Hub
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.Hub == nil {
		deps.Hub = NewHub()
	}
	return &Handler{deps: deps}
}

func (h *Handler) Hub() *Hub {
	return h.deps.Hub
}

var errNoDatabase = errors.New("records are disabled, no database configured")

type connectReq struct {
	Address string `json:"address" binding:"required"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/market
func (h *Handler) Market(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Market.State())
}

// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	if h.deps.Settings == nil {
		c.JSON(http.StatusOK, store.DefaultSettings())
		return
	}
	settings, err := h.deps.Settings.Get(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	if h.deps.Settings == nil {
		unavailable(c)
		return
	}
	var req store.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Milestones == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "milestones are required"})
		return
	}
	if err := h.deps.Settings.Update(c.Request.Context(), req.Milestones, req.Stats); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// GET /api/wallets?q=
func (h *Handler) ListWallets(c *gin.Context) {
	if h.deps.Wallets == nil {
		unavailable(c)
		return
	}
	wallets, err := h.deps.Wallets.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, store.FilterWallets(wallets, c.Query("q")))
}

// POST /api/wallets/connect
func (h *Handler) ConnectWallet(c *gin.Context) {
	if h.deps.Connector == nil {
		unavailable(c)
		return
	}
	var req connectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := h.deps.Connector.Connect(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// DELETE /api/wallets/connect
func (h *Handler) DisconnectWallet(c *gin.Context) {
	if h.deps.Connector == nil {
		unavailable(c)
		return
	}
	h.deps.Connector.Disconnect()
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}

// GET /api/winners?q=
func (h *Handler) ListWinners(c *gin.Context) {
	if h.deps.Winners == nil {
		unavailable(c)
		return
	}
	winners, err := h.deps.Winners.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, store.FilterWinners(winners, c.Query("q")))
}

// GET /ws
func (h *Handler) Stream(c *gin.Context) {
	h.deps.Hub.ServeWS(c.Writer, c.Request, func() []Message {
		return []Message{{Type: MessageMarket, Data: h.deps.Market.State()}}
	})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	logrus.WithError(err).Warnf("%s %s failed", c.Request.Method, c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoDatabase.Error()})
}
