package gateway

import (
	"context"
	"fmt"
	"time"
)

// DailyReport lists every appointment on date (YYYY-MM-DD). Requires an
// admin token.
func (c *Client) DailyReport(ctx context.Context, token, date string) ([]DailyRow, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return []DailyRow{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	var env struct {
		Rows []DailyRow `json:"rows"`
	}
	path := fmt.Sprintf("/reports/daily/%s/%s", date, seg(token))
	if err := c.read(ctx, "report_daily", path, token, &env); err != nil {
		return []DailyRow{}, err
	}
	if env.Rows == nil {
		return []DailyRow{}, nil
	}
	return env.Rows, nil
}

// TopDoctorByMonth ranks doctors by patients seen in month/year.
func (c *Client) TopDoctorByMonth(ctx context.Context, token string, month, year int) ([]TopDoctorRow, error) {
	if month < 1 || month > 12 || year < 1 {
		return []TopDoctorRow{}, fmt.Errorf("gateway: invalid month %d/%d", month, year)
	}
	path := fmt.Sprintf("/reports/top-doctor/month/%d/%d/%s", month, year, seg(token))
	return c.fetchTopDoctors(ctx, "report_top_month", path, token)
}

// TopDoctorByYear ranks doctors by patients seen in year.
func (c *Client) TopDoctorByYear(ctx context.Context, token string, year int) ([]TopDoctorRow, error) {
	if year < 1 {
		return []TopDoctorRow{}, fmt.Errorf("gateway: invalid year %d", year)
	}
	path := fmt.Sprintf("/reports/top-doctor/year/%d/%s", year, seg(token))
	return c.fetchTopDoctors(ctx, "report_top_year", path, token)
}

func (c *Client) fetchTopDoctors(ctx context.Context, op, path, token string) ([]TopDoctorRow, error) {
	var env struct {
		Rows []TopDoctorRow `json:"rows"`
	}
	if err := c.read(ctx, op, path, token, &env); err != nil {
		return []TopDoctorRow{}, err
	}
	if env.Rows == nil {
		return []TopDoctorRow{}, nil
	}
	return env.Rows, nil
}
