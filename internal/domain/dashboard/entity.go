package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is one successful, validated fetch of the statistics endpoint
type DashboardStats struct {
	TotalAmount        decimal.Decimal
	TotalDocs          int64
	RecurringCount     int64
	CurrentMonthAmount decimal.Decimal
	ByType             []CategoryCount
	Trends             []TrendPoint
	RecentActivity     []ActivityRecord
}

// CategoryCount is one slice of the category distribution
type CategoryCount struct {
	Category string
	Count    int64
}

// TrendPoint is one month of the trend series, in server order
type TrendPoint struct {
	Month string // Format: "YYYY-MM"
	Total decimal.Decimal
}

// ActivityRecord is one processed document shown in the recent-activity feed
type ActivityRecord struct {
	DocumentType  string
	ReferenceCode string
	IssuerName    string
	IssueDate     time.Time
	TotalAmount   decimal.Decimal
}
