package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pix-checkout/internal/domain"
	"pix-checkout/internal/usecase"
)

type sessionHandler func(c *gin.Context, sess usecase.Session)

// withSession verifies the session token before calling next.
func (s *Server) withSession(next sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.deps.Tokens.Verify(c.GetHeader(sessionHeader))
		if err != nil {
			s.fail(c, err, nil)
			return
		}
		next(c, sess)
	}
}

func (s *Server) handleIdentification(c *gin.Context, sess usecase.Session) {
	var b domain.Buyer
	if err := c.ShouldBindJSON(&b); err != nil {
		s.badJSON(c)
		return
	}
	out, err := s.deps.Checkout.SubmitIdentification(c.Request.Context(), sess, b)
	s.respond(c, out, err)
}

type paymentMethodReq struct {
	Method domain.PaymentMethod `json:"method"`
}

func (s *Server) handlePaymentMethod(c *gin.Context, sess usecase.Session) {
	var req paymentMethodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badJSON(c)
		return
	}
	out, err := s.deps.Checkout.SelectPaymentMethod(c.Request.Context(), sess, req.Method)
	s.respond(c, out, err)
}

func (s *Server) handleContinue(c *gin.Context, sess usecase.Session) {
	out, err := s.deps.Checkout.Continue(c.Request.Context(), sess)
	s.respond(c, out, err)
}

func (s *Server) handlePix(c *gin.Context, sess usecase.Session) {
	out, err := s.deps.Checkout.PayWithPix(c.Request.Context(), sess)
	s.respond(c, out, err)
}

func (s *Server) handleCard(c *gin.Context, sess usecase.Session) {
	var card usecase.CardInput
	if err := c.ShouldBindJSON(&card); err != nil {
		s.badJSON(c)
		return
	}
	out, err := s.deps.Checkout.PayWithCard(c.Request.Context(), sess, card)
	s.respond(c, out, err)
}

type stepView struct {
	Session    string         `json:"session,omitempty"`
	Step       usecase.Step   `json:"step,omitempty"`
	StepLabel  string         `json:"stepLabel,omitempty"`
	Steps      []string       `json:"steps,omitempty"`
	View       usecase.View   `json:"view,omitempty"`
	ProductRef string         `json:"productRef,omitempty"`
	OrderID    string         `json:"orderId,omitempty"`
	Charge     *domain.Charge `json:"charge,omitempty"`
	Error      *errorView     `json:"error,omitempty"`
}

type errorView struct {
	Kind      string            `json:"kind"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable"`
	Fallback  string            `json:"fallback,omitempty"`
}

// respond writes the next view and a freshly signed session. The session is
// returned on errors too, so a retry carries any order already created.
func (s *Server) respond(c *gin.Context, out usecase.Outcome, err error) {
	var v *stepView
	if out.Session.ID != "" {
		tok, serr := s.deps.Tokens.Sign(out.Session)
		if serr != nil {
			s.log.ErrorContext(c.Request.Context(), "session not signed", "session_id", out.Session.ID, "err", serr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errorView{Kind: "internal", Message: "Erro inesperado no checkout."}})
			return
		}
		flow := out.Session.Flow()
		v = &stepView{
			Session:    tok,
			Step:       out.Session.Step,
			StepLabel:  flow.Label(out.Session.Step),
			Steps:      flow.Labels,
			View:       out.View,
			ProductRef: out.ProductRef,
			OrderID:    out.OrderID,
			Charge:     out.Charge,
		}
		c.Header(sessionHeader, tok)
	}
	if err != nil {
		s.fail(c, err, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

var statusByKind = map[string]int{
	"validation":             http.StatusBadRequest,
	"session_invalid":        http.StatusUnauthorized,
	"product_not_found":      http.StatusNotFound,
	"order_not_found":        http.StatusNotFound,
	"invalid_step":           http.StatusConflict,
	"invalid_transition":     http.StatusConflict,
	"config_unavailable":     http.StatusServiceUnavailable,
	"gateway_not_configured": http.StatusServiceUnavailable,
	"gateway_customer":       http.StatusBadGateway,
	"gateway_charge":         http.StatusBadGateway,
	"timeout":                http.StatusGatewayTimeout,
	"canceled":               http.StatusRequestTimeout,
}

func statusOf(kind string) int {
	if st, ok := statusByKind[kind]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error, v *stepView) {
	if v == nil {
		v = &stepView{}
	}
	ev := &errorView{Kind: domain.Kind(err), Message: "Erro inesperado no checkout."}
	var ve *domain.ValidationError
	var ce *usecase.CheckoutError
	switch {
	case errors.As(err, &ve):
		ev.Message = "Verifique os campos destacados."
		ev.Fields = ve.Fields
	case errors.As(err, &ce):
		ev.Kind = ce.Kind
		ev.Message = ce.Message
		ev.Retryable = ce.Retryable
		ev.Fallback = ce.Fallback
	case errors.Is(err, domain.ErrSessionInvalid):
		ev.Message = "Sessão expirada. Recarregue o checkout."
	case errors.Is(err, domain.ErrOrderNotFound):
		ev.Message = "Pedido não encontrado."
	}
	v.Error = ev
	c.JSON(statusOf(ev.Kind), v)
}

func (s *Server) badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, stepView{Error: &errorView{Kind: "validation", Message: "JSON inválido"}})
}
