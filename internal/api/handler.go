package api

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/forecastpulse/internal/domain/dto"
	"github.com/guttosm/forecastpulse/internal/domain/models"
	"github.com/guttosm/forecastpulse/internal/export"
	"github.com/guttosm/forecastpulse/internal/middleware"
	"github.com/guttosm/forecastpulse/internal/series"
	"github.com/guttosm/forecastpulse/internal/service"
)

const dateLayout = "2006-01-02"

// Handler provides HTTP handlers for the dashboard endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters (gin binding tags)
//   - Call the dashboard service, which always fetches fresh upstream data
//   - Translate results into response DTOs or export files
type Handler struct {
	svc service.DashboardService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

// seriesQuery is the range selection shared by /series and /export.
type seriesQuery struct {
	Ticker    string `form:"ticker" binding:"omitempty,max=32"`
	Mode      string `form:"mode" binding:"omitempty,oneof=year calendar"`
	StartYear string `form:"start_year" binding:"omitempty,len=4|eq=all"`
	EndYear   string `form:"end_year" binding:"omitempty,len=4|eq=all"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Preset    string `form:"preset" binding:"omitempty,oneof=1y 5y all"`
	Aggregate bool   `form:"aggregate"`
}

type exportQuery struct {
	seriesQuery
	Kind   string `form:"kind" binding:"required,oneof=history predictions aggregated"`
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

func (q seriesQuery) toService() service.Query {
	out := service.Query{
		Ticker:    strings.TrimSpace(q.Ticker),
		Mode:      models.RangeMode(q.Mode),
		StartYear: q.StartYear,
		EndYear:   q.EndYear,
		StartDate: parseDay(q.StartDate),
		EndDate:   parseDay(q.EndDate),
		Preset:    series.Preset(q.Preset),
		Aggregate: q.Aggregate,
	}
	if out.Mode == "" {
		out.Mode = models.RangeModeYear
	}
	return out
}

// parseDay parses an already validated YYYY-MM-DD value.
func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}

// GetTickers handles GET /api/v1/tickers.
//
// GetTickers godoc
// @Summary      List tickers
// @Description  Returns the tickers offered by the prediction service, fetched fresh on every call
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.TickersResponse  "Success"
// @Failure      502  {object}  dto.ErrorResponse    "Upstream unavailable"
// @Router       /api/v1/tickers [get]
func (h *Handler) GetTickers(c *gin.Context) {
	list, err := h.svc.Tickers(c.Request.Context())
	if err != nil {
		h.abortLoad(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TickersResponse{Tickers: list.Tickers, Stale: list.Stale})
}

// GetSeries handles GET /api/v1/series.
//
// Query Parameters:
//   - ticker (string, optional): defaults to DEFAULT_TICKER.
//   - mode (string, optional): "year" (default) or "calendar".
//   - start_year, end_year (string, optional): 4-digit year or "all".
//   - start_date, end_date (string, optional): YYYY-MM-DD, calendar mode only.
//   - preset (string, optional): 1y, 5y or all; overrides the year bounds.
//   - aggregate (bool, optional): include per-date prediction statistics.
//
// GetSeries godoc
// @Summary      Get filtered history and predictions
// @Description  Loads a ticker fresh from upstream, then filters it to the requested range
// @Tags         dashboard
// @Produce      json
// @Param        ticker      query     string  false  "Ticker"                       example(SPY)
// @Param        mode        query     string  false  "Range mode"                   Enums(year, calendar)
// @Param        start_year  query     string  false  "First year or all"            example(2020)
// @Param        end_year    query     string  false  "Last year or all"             example(all)
// @Param        start_date  query     string  false  "Calendar start (YYYY-MM-DD)"  example(2020-01-01)
// @Param        end_date    query     string  false  "Calendar end (YYYY-MM-DD)"    example(2020-12-31)
// @Param        preset      query     string  false  "Year preset"                  Enums(1y, 5y, all)
// @Param        aggregate   query     bool    false  "Include aggregated predictions"
// @Success      200         {object}  dto.SeriesResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse   "Bad Request"
// @Failure      502         {object}  dto.ErrorResponse   "Upstream unavailable"
// @Router       /api/v1/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	var q seriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	res, err := h.svc.Series(c.Request.Context(), q.toService())
	if err != nil {
		h.abortLoad(c, err)
		return
	}
	c.JSON(http.StatusOK, newSeriesResponse(res))
}

// Export handles GET /api/v1/export.
//
// Export godoc
// @Summary      Export a filtered series
// @Description  Same range parameters as /series; returns the chosen series as a semicolon-separated CSV or an XLSX workbook
// @Tags         dashboard
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        ticker      query     string  false  "Ticker"  example(SPY)
// @Param        kind        query     string  true   "Series"  Enums(history, predictions, aggregated)
// @Param        format      query     string  false  "Format"  Enums(csv, xlsx)
// @Param        mode        query     string  false  "Range mode"  Enums(year, calendar)
// @Param        start_year  query     string  false  "First year or all"
// @Param        end_year    query     string  false  "Last year or all"
// @Param        start_date  query     string  false  "Calendar start (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Calendar end (YYYY-MM-DD)"
// @Param        preset      query     string  false  "Year preset"  Enums(1y, 5y, all)
// @Success      200         {file}    binary
// @Failure      400         {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404         {object}  dto.ErrorResponse  "Nothing to export"
// @Failure      502         {object}  dto.ErrorResponse  "Upstream unavailable"
// @Router       /api/v1/export [get]
func (h *Handler) Export(c *gin.Context) {
	var q exportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	sq := q.toService()
	kind := export.Kind(q.Kind)
	format := export.Format(q.Format)
	if format == "" {
		format = export.FormatCSV
	}
	sq.Aggregate = kind == export.KindAggregated

	res, err := h.svc.Series(c.Request.Context(), sq)
	if err != nil {
		h.abortLoad(c, err)
		return
	}

	var buf bytes.Buffer
	if err := (export.Presenter{W: &buf, Kind: kind, Format: format}).Present(res.View); err != nil {
		if errors.Is(err, export.ErrNoData) {
			middleware.AbortWithError(c, http.StatusNotFound, "no data to export", nil)
			return
		}
		middleware.AbortWithError(c, http.StatusInternalServerError, "export failed", err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(export.FileName(res.Ticker, kind, format)))
	c.Header("Cache-Control", "no-store")
	if res.Stale {
		c.Header("X-Data-Stale", "true")
	}
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// abortLoad maps service errors: no data to fall back on is a 502, anything
// else a 500.
func (h *Handler) abortLoad(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnavailable) {
		middleware.AbortWithError(c, http.StatusBadGateway, "upstream unavailable", err)
		return
	}
	middleware.AbortWithError(c, http.StatusInternalServerError, "failed to load data", err)
}

func newSeriesResponse(res *service.Result) dto.SeriesResponse {
	out := dto.SeriesResponse{
		Ticker: res.Ticker,
		Years:  res.Years,
		Range: dto.RangeResponse{
			Mode:      string(res.Range.Mode),
			StartYear: res.Range.StartYear,
			EndYear:   res.Range.EndYear,
			StartDate: formatDay(res.Range.StartDate),
			EndDate:   formatDay(res.Range.EndDate),
		},
		History:     make([]dto.HistoryPoint, 0, len(res.History)),
		Predictions: make([]dto.PredictionPoint, 0, len(res.Predictions)),
		Stats: dto.StatsResponse{
			HistoryPoints:    len(res.History),
			PredictionPoints: len(res.Predictions),
			TotalHistory:     res.TotalHistory,
			TotalPredictions: res.TotalPredictions,
		},
		Stale:     res.Stale,
		FetchedAt: res.FetchedAt,
	}
	for _, p := range res.History {
		out.History = append(out.History, dto.HistoryPoint{Date: p.Date, Close: floatPtr(p.Value)})
	}
	for _, p := range res.Predictions {
		out.Predictions = append(out.Predictions, dto.PredictionPoint{Date: p.Date, Value: floatPtr(p.Value)})
	}
	if res.Aggregated != nil {
		out.Aggregated = make([]dto.AggregatedPoint, 0, len(res.Aggregated))
		for _, a := range res.Aggregated {
			out.Aggregated = append(out.Aggregated, dto.AggregatedPoint{
				Date:  a.Date,
				Avg:   floatPtr(a.Avg),
				Min:   floatPtr(a.Min),
				Max:   floatPtr(a.Max),
				Count: a.Count,
			})
		}
	}
	if out.Years == nil {
		out.Years = []string{}
	}
	return out
}

func floatPtr(o models.OptionalFloat) *float64 {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// contentDisposition quotes or encodes name as needed for the header.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
