package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quantex/fixgate/internal/fix"
	"github.com/quantex/fixgate/internal/gateway"
	"github.com/quantex/fixgate/internal/order"
)

// OrderRequest represents an order submission request
type OrderRequest struct {
	Symbol   string `json:"symbol" binding:"required" validate:"required,min=1,max=16,alphanum"`
	Side     string `json:"side" binding:"required,oneof=BUY SELL" validate:"required,oneof=BUY SELL"`
	Type     string `json:"type" binding:"omitempty,oneof=LIMIT MARKET" validate:"omitempty,oneof=LIMIT MARKET"`
	Quantity int64  `json:"quantity" binding:"required,gt=0" validate:"required,gt=0"`
	Price    string `json:"price" validate:"omitempty"`
}

// DecodeRequest carries a raw wire message
type DecodeRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// createOrder builds an order from the request, runs it through the risk
// gate and returns the encoded wire message on acceptance. Risk rejection
// is a 200 with status REJECTED: it is an outcome, not a request error.
func (s *Server) createOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		o   *order.Order
		err error
	)
	if req.Type == order.TypeMarket {
		o, err = order.NewMarket(req.Symbol, req.Side, req.Quantity)
	} else {
		price, perr := decimal.NewFromString(req.Price)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price: " + req.Price})
			return
		}
		o, err = order.New(req.Symbol, req.Side, req.Quantity, price)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": gateway.ErrorKind(err)})
		return
	}

	res, err := s.svc.Submit(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "kind": gateway.ErrorKind(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

// decodeMessage parses a raw wire message and returns its typed fields.
func (s *Server) decodeMessage(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := fix.Decode(req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": gateway.ErrorKind(err)})
		return
	}
	resp := gin.H{
		"begin_string": msg.BeginString,
		"symbol":       msg.Symbol,
		"side":         msg.Side,
		"type":         msg.OrdType,
		"quantity":     msg.Quantity,
		"checksum":     msg.Checksum,
	}
	if msg.OrdType == order.TypeLimit {
		resp["price"] = msg.Price.StringFixed(2)
	}
	if len(msg.Extras) > 0 {
		resp["extras"] = msg.Extras
	}
	c.JSON(http.StatusOK, resp)
}

// processMessage runs a raw wire message through the full inbound pipeline:
// decode, risk check, ack, fill, position update.
func (s *Server) processMessage(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.svc.Process(req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": gateway.ErrorKind(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

// getPosition returns the current net position for a symbol.
func (s *Server) getPosition(c *gin.Context) {
	symbol := c.Param("symbol")
	c.JSON(http.StatusOK, gin.H{
		"symbol":   symbol,
		"position": s.svc.Risk().Position(symbol),
	})
}
