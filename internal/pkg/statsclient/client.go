// Package statsclient fetches the dashboard statistics payload and turns it
// into validated domain stats.
package statsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 4 << 20

// TokenSource issues the bearer token sent with every request
type TokenSource interface {
	GenerateServiceToken() (token string, expiresAt int64, err error)
}

// Client wraps the statistics endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client for endpoint. tokens may be nil for unauthenticated endpoints.
func NewClient(endpoint string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// payload keeps pointers for the fields whose presence is checked
type payload struct {
	Success            *bool            `json:"success"`
	Error              string           `json:"error"`
	TotalAmount        *decimal.Decimal `json:"total_amount"`
	TotalDocs          *int64           `json:"total_docs"`
	RecurringCount     *int64           `json:"recurring_count"`
	CurrentMonthAmount *decimal.Decimal `json:"current_month_amount"`
	ByType             []typeCount      `json:"by_type"`
	Trends             []monthlyTotal   `json:"trends"`
	RecentActivity     []activityItem   `json:"recent_activity"`
}

type typeCount struct {
	Tipo  string `json:"tipo"`
	Count int64  `json:"count"`
}

type monthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type activityItem struct {
	Tipo             string          `json:"tipo"`
	CodigoGeneracion string          `json:"codigo_generacion"`
	NombreEmisor     string          `json:"nombre_emisor"`
	FechaEmision     string          `json:"fecha_emision"`
	TotalPagar       decimal.Decimal `json:"total_pagar"`
}

// FetchStats issues one GET and returns validated stats.
// Non-2xx and transport failures return *dashboard.NetworkError; a token that
// cannot be issued, an undecodable body, success false/absent or missing
// required fields return *dashboard.ApplicationError.
func (c *Client) FetchStats(ctx context.Context) (*dashboard.DashboardStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, _, err := c.tokens.GenerateServiceToken()
		if err != nil {
			return nil, &dashboard.ApplicationError{
				Message: "service token unavailable",
				Err:     fmt.Errorf("issue service token: %w", err),
			}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &dashboard.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &dashboard.NetworkError{StatusCode: resp.StatusCode}
	}

	var body payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, &dashboard.ApplicationError{
			Message: dashboard.DefaultApplicationMessage,
			Err:     fmt.Errorf("decode stats body: %w", err),
		}
	}

	return body.toStats()
}

func (p *payload) toStats() (*dashboard.DashboardStats, error) {
	if p.Success == nil || !*p.Success {
		msg := strings.TrimSpace(p.Error)
		if msg == "" {
			msg = dashboard.DefaultApplicationMessage
		}
		return nil, &dashboard.ApplicationError{Message: msg}
	}

	if errs := validator.Required(
		validator.Field{Name: "total_amount", Present: p.TotalAmount != nil},
		validator.Field{Name: "total_docs", Present: p.TotalDocs != nil},
		validator.Field{Name: "recurring_count", Present: p.RecurringCount != nil},
		validator.Field{Name: "current_month_amount", Present: p.CurrentMonthAmount != nil},
	); len(errs) > 0 {
		return nil, &dashboard.ApplicationError{Message: "incomplete statistics payload", Err: errs}
	}

	stats := &dashboard.DashboardStats{
		TotalAmount:        *p.TotalAmount,
		TotalDocs:          *p.TotalDocs,
		RecurringCount:     *p.RecurringCount,
		CurrentMonthAmount: *p.CurrentMonthAmount,
		ByType:             make([]dashboard.CategoryCount, 0, len(p.ByType)),
		Trends:             make([]dashboard.TrendPoint, 0, len(p.Trends)),
		RecentActivity:     make([]dashboard.ActivityRecord, 0, len(p.RecentActivity)),
	}

	for _, t := range p.ByType {
		stats.ByType = append(stats.ByType, dashboard.CategoryCount{Category: t.Tipo, Count: t.Count})
	}
	for _, t := range p.Trends {
		stats.Trends = append(stats.Trends, dashboard.TrendPoint{Month: t.Month, Total: t.Total})
	}
	for _, a := range p.RecentActivity {
		// Unparseable dates stay zero and render as an absolute date
		issued, _ := validator.ParseIssueDate(a.FechaEmision)
		stats.RecentActivity = append(stats.RecentActivity, dashboard.ActivityRecord{
			DocumentType:  a.Tipo,
			ReferenceCode: a.CodigoGeneracion,
			IssuerName:    a.NombreEmisor,
			IssueDate:     issued,
			TotalAmount:   a.TotalPagar,
		})
	}

	return stats, nil
}
