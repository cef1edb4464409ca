package domain

// UserStats aggregates the user table for the overview cards.
type UserStats struct {
	Total      int `json:"total"`
	Verified   int `json:"verified"`
	Admins     int `json:"admins"`
	Moderators int `json:"moderators"`
}

// BookingStats aggregates bookings by status.
type BookingStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Confirmed   int `json:"confirmed"`
	Completed   int `json:"completed"`
	Cancelled   int `json:"cancelled"`
	Recent7Days int `json:"recent_7_days"`
}

// RevenueStats totals booking prices.
type RevenueStats struct {
	Total float64 `json:"total"`
}

// DashboardSummary is the aggregate analytics payload.
type DashboardSummary struct {
	Users    UserStats    `json:"users"`
	Bookings BookingStats `json:"bookings"`
	Revenue  RevenueStats `json:"revenue"`
}

// ChartPoint is one bucket of a time series.
type ChartPoint struct {
	Date    string  `json:"date"`
	Count   int     `json:"count,omitempty"`
	Revenue float64 `json:"revenue,omitempty"`
}

// DashboardCharts groups the time series rendered on the overview page.
type DashboardCharts struct {
	BookingsOverTime []ChartPoint `json:"bookings_over_time"`
	RevenueOverTime  []ChartPoint `json:"revenue_over_time"`
	UsersOverTime    []ChartPoint `json:"users_over_time"`
}

// ChartRanges are the accepted values for the charts range parameter.
var ChartRanges = []string{"7d", "30d", "90d"}

// ValidChartRange reports whether r is an accepted charts range.
func ValidChartRange(r string) bool {
	for _, known := range ChartRanges {
		if r == known {
			return true
		}
	}
	return false
}
