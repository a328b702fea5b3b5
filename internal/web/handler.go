// Package web serves the single-page question form.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/GoSim-25-26J-441/nfl-knowledge-hub/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	emptyQuestionMessage = "Please enter a question!"
	failureMessage       = "Sorry, something went wrong while searching my football playbook. Please try again."
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Answerer interface {
	GetAnswer(ctx context.Context, question string) (string, error)
}

type Handler struct {
	answerer Answerer
	logger   *zap.Logger
}

type pageData struct {
	Question string
	Answer   string
	Message  string
	Error    string
}

func New(answerer Answerer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{answerer: answerer, logger: logger}
}

func (h *Handler) Register(r *gin.Engine) {
	r.SetHTMLTemplate(pageTemplates)
	r.GET("/", h.index)
	r.POST("/", h.ask)
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{})
}

func (h *Handler) ask(c *gin.Context) {
	question := c.PostForm("question")
	if strings.TrimSpace(question) == "" {
		c.HTML(http.StatusOK, "index.html", pageData{Message: emptyQuestionMessage})
		return
	}

	ctx := c.Request.Context()
	answer, err := h.answerer.GetAnswer(ctx, question)
	if err != nil {
		logging.FromContext(ctx, h.logger).Error("answer failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "index.html", pageData{
			Question: question,
			Error:    failureMessage,
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", pageData{Question: question, Answer: answer})
}
