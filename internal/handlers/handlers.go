package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"investdash/internal/database"
	"investdash/internal/models"
	"investdash/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type InvestmentStore interface {
	CreateInvestment(ctx context.Context, in models.InvestmentInput) (int64, error)
	ListInvestments(ctx context.Context) ([]models.Investment, error)
	GetInvestment(ctx context.Context, id int64) (models.Investment, error)
	UpdateInvestment(ctx context.Context, id int64, in models.InvestmentInput) error
	DeleteInvestment(ctx context.Context, id int64) error
}

type Handler struct {
	repo InvestmentStore
	dash *service.Dashboard
	log  *logrus.Logger
}

func NewHandler(r InvestmentStore, d *service.Dashboard, log *logrus.Logger) *Handler {
	return &Handler{repo: r, dash: d, log: log}
}

// Register mounts the dashboard pages and the JSON API on rg.
func (h *Handler) Register(rg *gin.Engine) {
	rg.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	rg.GET("/", h.Dashboard)
	rg.POST("/investments", h.SubmitCreate)
	rg.GET("/investments/:id/edit", h.EditForm)
	rg.POST("/investments/update", h.SubmitUpdate)
	rg.POST("/investments/delete", h.SubmitDelete)

	api := rg.Group("/api")
	api.GET("/investments", h.ListInvestments)
	api.POST("/investments", h.CreateInvestment)
	api.PUT("/investments/:id", h.UpdateInvestment)
	api.DELETE("/investments/:id", h.DeleteInvestment)
	api.GET("/charts/monthly", h.MonthlyChart)
	api.GET("/charts/top-profitable", h.TopProfitableChart)
}

var flashMessages = map[string]string{
	"added":   "Investment added successfully!",
	"updated": "Investment updated successfully!",
	"deleted": "Investment deleted successfully!",
}

type pageData struct {
	Title       string
	Flash       string
	Error       string
	ID          int64
	Form        investmentForm
	Investments []models.Investment
	MonthlyBars []bar
	ProfitBars  []bar
	TopK        int
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, http.StatusOK, flashMessages[c.Query("msg")], "", investmentForm{})
}

// renderDashboard rebuilds the whole page from the store. A failed read still
// renders the page shell so the error text reaches the user.
func (h *Handler) renderDashboard(c *gin.Context, status int, flash, errMsg string, form investmentForm) {
	data := pageData{Title: "Investment Dashboard", Flash: flash, Error: errMsg, Form: form, TopK: h.dash.TopK()}
	v, err := h.dash.Build(c.Request.Context())
	if err != nil {
		h.log.Errorf("build dashboard failed: %v", err)
		data.Error = joinErrors(errMsg, err.Error())
		c.HTML(http.StatusInternalServerError, "dashboard", data)
		return
	}
	data.Investments = v.Investments
	data.MonthlyBars = monthlyBars(v.MonthlyTotals)
	data.ProfitBars = profitBars(v.TopProfitable)
	c.HTML(status, "dashboard", data)
}

func (h *Handler) SubmitCreate(c *gin.Context) {
	var f investmentForm
	if err := c.ShouldBind(&f); err != nil {
		h.log.Warnf("invalid create form: %v", err)
		h.renderDashboard(c, http.StatusBadRequest, "", err.Error(), f)
		return
	}
	in, err := f.toInput()
	if err != nil {
		h.log.Warnf("invalid create form: %v", err)
		h.renderDashboard(c, http.StatusBadRequest, "", err.Error(), f)
		return
	}
	if _, err := h.repo.CreateInvestment(c.Request.Context(), in); err != nil {
		h.log.Errorf("create investment failed: %v", err)
		h.renderDashboard(c, http.StatusInternalServerError, "", err.Error(), f)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?msg=added")
}

func (h *Handler) EditForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.renderDashboard(c, http.StatusBadRequest, "", "invalid investment id", investmentForm{})
		return
	}
	inv, err := h.repo.GetInvestment(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		h.renderDashboard(c, http.StatusNotFound, "", fmt.Sprintf("investment %d not found", id), investmentForm{})
		return
	}
	if err != nil {
		h.log.Errorf("get investment failed: %v", err)
		h.renderDashboard(c, http.StatusInternalServerError, "", err.Error(), investmentForm{})
		return
	}
	c.HTML(http.StatusOK, "edit", pageData{Title: fmt.Sprintf("Edit Investment %d", id), ID: id, Form: formFromInvestment(inv)})
}

func (h *Handler) SubmitUpdate(c *gin.Context) {
	var f investmentForm
	if err := c.ShouldBind(&f); err != nil {
		h.log.Warnf("invalid update form: %v", err)
		h.renderDashboard(c, http.StatusBadRequest, "", err.Error(), investmentForm{})
		return
	}
	id, err := strconv.ParseInt(f.ID, 10, 64)
	if err != nil {
		h.renderDashboard(c, http.StatusBadRequest, "", "invalid investment id", investmentForm{})
		return
	}
	in, err := f.toInput()
	if err != nil {
		h.log.Warnf("invalid update form: %v", err)
		c.HTML(http.StatusBadRequest, "edit", pageData{Title: fmt.Sprintf("Edit Investment %d", id), Error: err.Error(), ID: id, Form: f})
		return
	}
	if err := h.repo.UpdateInvestment(c.Request.Context(), id, in); err != nil {
		h.log.Errorf("update investment failed: %v", err)
		h.renderDashboard(c, http.StatusInternalServerError, "", err.Error(), investmentForm{})
		return
	}
	c.Redirect(http.StatusSeeOther, "/?msg=updated")
}

// SubmitDelete treats a missing id (nothing to select) as a no-op delete.
func (h *Handler) SubmitDelete(c *gin.Context) {
	raw := strings.TrimSpace(c.PostForm("id"))
	if raw == "" {
		h.log.Debugf("delete submitted without an id")
		c.Redirect(http.StatusSeeOther, "/?msg=deleted")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.log.Warnf("invalid delete id %q", raw)
		h.renderDashboard(c, http.StatusBadRequest, "", "select an investment to delete", investmentForm{})
		return
	}
	if err := h.repo.DeleteInvestment(c.Request.Context(), id); err != nil {
		h.log.Errorf("delete investment failed: %v", err)
		h.renderDashboard(c, http.StatusInternalServerError, "", err.Error(), investmentForm{})
		return
	}
	c.Redirect(http.StatusSeeOther, "/?msg=deleted")
}

func (h *Handler) ListInvestments(c *gin.Context) {
	rows, err := h.repo.ListInvestments(c.Request.Context())
	if err != nil {
		h.log.Errorf("list investments failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	res := make([]investmentResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, toResponse(r))
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateInvestment(c *gin.Context) {
	var req investmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid post body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.log.Warnf("invalid post body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.repo.CreateInvestment(c.Request.Context(), in)
	if err != nil {
		h.log.Errorf("create investment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req investmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid put body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.log.Warnf("invalid put body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.UpdateInvestment(c.Request.Context(), id, in); err != nil {
		h.log.Errorf("update investment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.repo.DeleteInvestment(c.Request.Context(), id); err != nil {
		h.log.Errorf("delete investment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) MonthlyChart(c *gin.Context) {
	v, err := h.dash.Build(c.Request.Context())
	if err != nil {
		h.log.Errorf("build dashboard failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, v.MonthlyTotals)
}

func (h *Handler) TopProfitableChart(c *gin.Context) {
	k := h.dash.TopK()
	if v := c.Query("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = n
	}
	rows, err := h.repo.ListInvestments(c.Request.Context())
	if err != nil {
		h.log.Errorf("list investments failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	top := service.TopProfitable(rows, k)
	res := make([]profitResponse, 0, len(top))
	for _, r := range top {
		res = append(res, profitResponse{investmentResponse: toResponse(r.Investment), Profit: r.Profit.String()})
	}
	c.JSON(http.StatusOK, res)
}

func joinErrors(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
