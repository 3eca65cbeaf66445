package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	kratoshttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/scan"
	"github.com/go-tangra/go-tangra-advisor/internal/store"
)

// Operation names, used for middleware selection.
const (
	OperationCreateScan = "/advisor.v1.Advisor/CreateScan"
	OperationLatestScan = "/advisor.v1.Advisor/LatestScan"
	OperationListReport = "/advisor.v1.Advisor/ListReports"
	OperationGetReport  = "/advisor.v1.Advisor/GetReport"
	OperationDelReport  = "/advisor.v1.Advisor/DeleteReport"
	OperationGetCatalog = "/advisor.v1.Advisor/GetCatalog"
)

// Handler serves the advisor HTTP API.
type Handler struct {
	scans *scan.Service
	store *store.Store
}

// NewHandler creates a handler. db may be nil when archiving is disabled.
func NewHandler(scans *scan.Service, db *store.Store) *Handler {
	return &Handler{scans: scans, store: db}
}

// ReportList is the response of the report listing.
type ReportList struct {
	Reports []store.Record `json:"reports"`
	Total   int            `json:"total"`
}

// CatalogView is the response of the catalog endpoint.
type CatalogView struct {
	Entries  catalog.Document `json:"entries"`
	Problems []string         `json:"problems,omitempty"`
}

// Register mounts the API routes on srv.
func (h *Handler) Register(srv *kratoshttp.Server) {
	r := srv.Route("/v1")
	r.POST("/scans", h.call(OperationCreateScan, h.createScan))
	r.GET("/scans/latest", h.call(OperationLatestScan, h.latestScan))
	r.GET("/reports", h.call(OperationListReport, h.listReports))
	r.GET("/reports/{id}", h.call(OperationGetReport, h.getReport))
	r.DELETE("/reports/{id}", h.call(OperationDelReport, h.deleteReport))
	r.GET("/catalog", h.call(OperationGetCatalog, h.getCatalog))
}

type endpoint func(ctx context.Context, c kratoshttp.Context) (any, error)

// call runs fn through the server middleware chain under the given
// operation name and encodes the result.
func (h *Handler) call(operation string, fn endpoint) kratoshttp.HandlerFunc {
	return func(c kratoshttp.Context) error {
		kratoshttp.SetOperation(c, operation)
		next := c.Middleware(func(ctx context.Context, _ any) (any, error) {
			return fn(ctx, c)
		})
		out, err := next(c, nil)
		if err != nil {
			return toHTTPError(err)
		}
		return c.Result(http.StatusOK, out)
	}
}

func (h *Handler) createScan(ctx context.Context, _ kratoshttp.Context) (any, error) {
	return h.scans.Run(ctx)
}

func (h *Handler) latestScan(context.Context, kratoshttp.Context) (any, error) {
	r, ok := h.scans.Latest()
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no scan has completed yet")
	}
	return r, nil
}

func (h *Handler) listReports(ctx context.Context, c kratoshttp.Context) (any, error) {
	if h.store == nil {
		return nil, errArchiveDisabled
	}
	q := c.Query()
	f := store.ListFilter{Hostname: q.Get("hostname")}

	var err error
	if f.Page, err = intParam(q.Get("page")); err != nil {
		return nil, err
	}
	if f.PageSize, err = intParam(q.Get("page_size")); err != nil {
		return nil, err
	}
	if f.ScannedAfter, err = timeParam(q.Get("scanned_after")); err != nil {
		return nil, err
	}
	if f.ScannedBefore, err = timeParam(q.Get("scanned_before")); err != nil {
		return nil, err
	}

	recs, total, err := h.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []store.Record{}
	}
	return &ReportList{Reports: recs, Total: total}, nil
}

func (h *Handler) getReport(ctx context.Context, c kratoshttp.Context) (any, error) {
	if h.store == nil {
		return nil, errArchiveDisabled
	}
	return h.store.Report(ctx, c.Vars().Get("id"))
}

func (h *Handler) deleteReport(ctx context.Context, c kratoshttp.Context) (any, error) {
	if h.store == nil {
		return nil, errArchiveDisabled
	}
	if err := h.store.Delete(ctx, c.Vars().Get("id")); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (h *Handler) getCatalog(context.Context, kratoshttp.Context) (any, error) {
	cat := h.scans.Builder().Catalog()
	return &CatalogView{Entries: cat.Document(), Problems: cat.Problems()}, nil
}

var errArchiveDisabled = apperrors.New(apperrors.ErrCodeUnavailable, "report archive is disabled")

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid integer parameter "+strconv.Quote(s))
	}
	return n, nil
}

func timeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid time parameter "+strconv.Quote(s), err)
	}
	return &t, nil
}
