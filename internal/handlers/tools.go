package handlers

import (
	"net/http"

	"stockdesk/internal/assistant"
	"stockdesk/internal/barcode"
	"stockdesk/internal/database"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := database.LoadSummary(c.Request.Context(), h.DB, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GenerateBarcode renders a label sheet for an arbitrary value.
func (h *Handler) GenerateBarcode(c *gin.Context) {
	var opts barcode.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		badJSON(c)
		return
	}
	h.writeBarcode(c, opts)
}

// ProductBarcode renders labels for a product. Options come from the query.
func (h *Handler) ProductBarcode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var opts barcode.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		fail(c, fieldError("query", "invalid barcode options"))
		return
	}

	var p models.Product
	if err := h.DB.WithContext(c.Request.Context()).First(&p, id).Error; err != nil {
		fail(c, err)
		return
	}
	opts.Value = p.BarcodeValue()
	h.writeBarcode(c, opts)
}

func (h *Handler) writeBarcode(c *gin.Context, opts barcode.Options) {
	png, err := barcode.Render(opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) AssistantQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"welcome":   assistant.Welcome,
		"questions": assistant.Questions(),
	})
}

type chatMessage struct {
	Text string `json:"text"`
}

func (h *Handler) AssistantMessage(c *gin.Context) {
	var msg chatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badJSON(c)
		return
	}
	reply, err := assistant.Answer(msg.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
