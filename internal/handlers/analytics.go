package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"expense_tracker/internal/analytics"

	"github.com/gin-gonic/gin"
)

// queryInt reads an optional integer query parameter; missing means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %q: must be an integer", name)
	}
	return v, nil
}

// parseMonthFilter reads ?month=&year=. Missing month means the current one.
func parseMonthFilter(c *gin.Context) (analytics.MonthFilter, error) {
	month, err := queryInt(c, "month")
	if err != nil {
		return analytics.MonthFilter{}, err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return analytics.MonthFilter{}, err
	}
	return analytics.MonthFilter{Month: month, Year: year}, nil
}

// @Summary      Dashboard
// @Description  Monthly trend, category distribution and summary over all of the caller's expenses, plus one page of the selected month (most recent first).
// @Tags         analytics
// @Produce      json
// @Param        month      query     int  false  "Month 1-12, defaults to the current month"
// @Param        year       query     int  false  "Year, 0 or omitted matches any year"
// @Param        page       query     int  false  "1-based page"  default(1)
// @Param        page_size  query     int  false  "Items per page"  default(10)
// @Success      200        {object}  analytics.Dashboard
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Router       /api/expenses/dashboard [get]
// @Security     BearerAuth
func (h *Handler) dashboard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	f, err := parseMonthFilter(c)
	if err != nil {
		h.badRequest(c, "dashboard_bad_query", err)
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		h.badRequest(c, "dashboard_bad_query", err)
		return
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		h.badRequest(c, "dashboard_bad_query", err)
		return
	}

	d, err := h.services.Analytics.Dashboard(c.Request.Context(), uid, f, page, size)
	if err != nil {
		h.fail(c, err, "dashboard_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Calendar day
// @Description  Expenses of one day grouped into Breakfast, Lunch, Dinner and other, with totals.
// @Tags         analytics
// @Produce      json
// @Param        date  query     string  true  "Day as YYYY-MM-DD"  example(2025-08-27)
// @Success      200   {object}  analytics.DayBreakdown
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/expenses/calendar [get]
// @Security     BearerAuth
func (h *Handler) calendar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	qs := c.Query("date")
	if qs == "" {
		h.badRequest(c, "calendar_bad_query", errors.New("date is required"))
		return
	}
	day, err := parseQueryTime(qs, h.loc)
	if err != nil {
		h.badRequest(c, "calendar_bad_query", err)
		return
	}

	out, err := h.services.Analytics.Calendar(c.Request.Context(), uid, day)
	if err != nil {
		h.fail(c, err, "calendar_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, out)
}
