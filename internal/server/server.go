package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pix-checkout/internal/config"
	"pix-checkout/internal/domain"
	"pix-checkout/internal/usecase"
)

const sessionHeader = "X-Checkout-Session"

type ChargeIssuer interface {
	CreateCharge(ctx context.Context, customerID string, amount decimal.Decimal, description string) (domain.Charge, error)
}

type OrderReader interface {
	Order(ctx context.Context, id string) (domain.Order, error)
}

type Deps struct {
	Checkout *usecase.Checkout
	Orders   OrderReader
	Charges  ChargeIssuer
	Tokens   *usecase.SessionTokens
	Logger   *slog.Logger
}

type Server struct {
	cfg    config.Config
	deps   Deps
	log    *slog.Logger
	router *gin.Engine
}

func New(cfg config.Config, d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, deps: d, log: log, router: gin.New()}
	s.router.Use(gin.Recovery(), s.requestLog(), cors())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/asaas/criar-cobranca", s.handleCreateCharge)
		api.POST("/pix", s.handleCreateCharge)
		api.GET("/orders/:id", s.handleGetOrder)
	}

	co := api.Group("/checkout")
	{
		co.POST("/:ref/session", s.handleStart)
		co.GET("/:ref/config", s.handleConfig)
		co.POST("/identification", s.withSession(s.handleIdentification))
		co.POST("/payment-method", s.withSession(s.handlePaymentMethod))
		co.POST("/continue", s.withSession(s.handleContinue))
		co.POST("/pix", s.withSession(s.handlePix))
		co.POST("/card", s.withSession(s.handleCard))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Expose-Headers", sessionHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type createChargeReq struct {
	Customer    string           `json:"customer"`
	Value       *decimal.Decimal `json:"value"`
	Description string           `json:"description"`
}

// handleCreateCharge issues a PIX charge for a customer already registered
// at the gateway and relays the gateway's answer.
func (s *Server) handleCreateCharge(c *gin.Context) {
	var req createChargeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}
	if strings.TrimSpace(req.Customer) == "" || req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios: customer, value"})
		return
	}
	charge, err := s.deps.Charges.CreateCharge(c.Request.Context(), req.Customer, *req.Value, req.Description)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "charge failed", "kind", domain.Kind(err), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstreamError(err)})
		return
	}
	if len(charge.Raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", charge.Raw)
		return
	}
	c.JSON(http.StatusOK, charge)
}

// upstreamError echoes the gateway body when there is one.
func upstreamError(err error) any {
	var gerr *domain.GatewayError
	if errors.As(err, &gerr) && gerr.Body != "" {
		if json.Valid([]byte(gerr.Body)) {
			return json.RawMessage(gerr.Body)
		}
		return gerr.Body
	}
	return err.Error()
}

type orderView struct {
	ID            string               `json:"id"`
	ProductID     string               `json:"productId"`
	Status        domain.OrderStatus   `json:"status"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (s *Server) handleGetOrder(c *gin.Context) {
	o, err := s.deps.Orders.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, orderView{
		ID:            o.ID,
		ProductID:     o.ProductID,
		Status:        o.Status,
		Amount:        o.Amount,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	})
}

func (s *Server) handleConfig(c *gin.Context) {
	p, cfg, err := s.deps.Checkout.Describe(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p, "config": cfg, "steps": usecase.FlowFor(cfg.OneCheckoutEnabled).Labels})
}

func (s *Server) handleStart(c *gin.Context) {
	out, err := s.deps.Checkout.Start(c.Request.Context(), c.Param("ref"))
	s.respond(c, out, err)
}
