package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scheduling-service/internal/timeutil"
)

// statusFromError maps the error taxonomy onto HTTP codes: validation 400,
// not found 404, state conflict 409, infrastructure 503 (retryable).
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrEventTypeNotFound), errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrNotReschedulable), errors.Is(err, ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

// GET /api/event-types/:id/slots?start_date=ISO&end_date=ISO&timezone=IANA
func (a *App) GetSlotsHandler(c *gin.Context) {
	eventTypeID := c.Param("id")
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	timezone := c.Query("timezone")
	if startStr == "" || endStr == "" || timezone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date, end_date and timezone are required"})
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	slots, err := a.GenerateAvailableSlots(c.Request.Context(), eventTypeID, start, end, timezone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// DELETE /api/bookings/:id
func (a *App) CancelBookingHandler(c *gin.Context) {
	booking, err := a.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

type rescheduleReq struct {
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
	Timezone string `json:"timezone" binding:"required"`
}

// POST /api/bookings/:id/reschedule
func (a *App) RescheduleBookingHandler(c *gin.Context) {
	var req rescheduleReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
		return
	}

	booking, err := a.RescheduleBooking(c.Request.Context(), c.Param("id"), start, end, req.Timezone)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /api/event-types/:id/bookings?from=ISO&to=ISO
func (a *App) ListBookingsHandler(c *gin.Context) {
	eventTypeID := c.Param("id")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	var (
		from, to time.Time
		err      error
	)
	filtered := fromStr != "" && toStr != ""
	if filtered {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
			return
		}
	}

	bookings, err := a.Store.ListBookings(c.Request.Context(), eventTypeID, from, to, filtered)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /api/hosts/:id/availability
// Accepts a list of weekly rules for the host.
func (a *App) SetAvailabilityHandler(c *gin.Context) {
	hostID := c.Param("id")
	var payload []AvailabilityRule
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var saved []AvailabilityRule
	for i := range payload {
		r := &payload[i]
		r.HostID = hostID
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day_of_week must be between 0 and 6"})
			return
		}
		if _, _, err := timeutil.ParseHHMM(r.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time"})
			return
		}
		if _, _, err := timeutil.ParseHHMM(r.EndTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
			return
		}
		if err := a.Store.InsertRule(ctx, r); err != nil {
			abortWithError(c, err)
			return
		}
		saved = append(saved, *r)
	}
	c.JSON(http.StatusCreated, saved)
}

// GET /api/hosts/:id/availability
func (a *App) ListAvailabilityHandler(c *gin.Context) {
	rules, err := a.Store.ListRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

type exceptionReq struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Available *bool  `json:"is_available" binding:"required"`
}

// POST /api/hosts/:id/exceptions
func (a *App) SetExceptionHandler(c *gin.Context) {
	hostID := c.Param("id")
	var req exceptionReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	e := &AvailabilityException{HostID: hostID, Date: date, Available: *req.Available}
	if err := a.Store.InsertException(c.Request.Context(), e); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// GET /api/hosts/:id/exceptions?from=YYYY-MM-DD&to=YYYY-MM-DD
func (a *App) ListExceptionsHandler(c *gin.Context) {
	hostID := c.Param("id")
	from, err := parseDateQuery(c.Query("from"), timeutil.DateOnly(a.now()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c.Query("to"), from.Add(maxRangeDays*24*time.Hour))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to, expected YYYY-MM-DD"})
		return
	}

	exceptions, err := a.Store.ListExceptions(c.Request.Context(), hostID, from, to)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exceptions)
}

func parseDateQuery(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
