package client

import (
	"net/url"

	"roombook/pkg/model"
)

// AdminPasswordHeader carries the administrator password.
const AdminPasswordHeader = "X-Admin-Password"

type AdminClient struct {
	httpClient *HttpClient
}

func NewAdminClient(baseUrl, password string) *AdminClient {
	hc := NewHttpClient(baseUrl)
	hc.Headers[AdminPasswordHeader] = password
	return &AdminClient{httpClient: hc}
}

func (c *AdminClient) Transactions(from, to string) (*Response, error) {
	return c.httpClient.GET("/api/v1/admin/transactions" + rangeQuery(from, to, ""))
}

func (c *AdminClient) ExportTransactions(from, to string) (*Response, error) {
	return c.httpClient.GET("/api/v1/admin/transactions/export" + rangeQuery(from, to, ""))
}

func (c *AdminClient) BlockedDates() (*Response, error) {
	return c.httpClient.GET("/api/v1/admin/blocked-dates")
}

func (c *AdminClient) BlockDate(date, reason string) (*Response, error) {
	return c.httpClient.POST("/api/v1/admin/blocked-dates", &model.BlockDateRequest{Date: date, Reason: reason})
}

func (c *AdminClient) UnblockDate(date string) (*Response, error) {
	return c.httpClient.DELETEWithHeaders("/api/v1/admin/blocked-dates/"+url.PathEscape(date), nil)
}

func (c *AdminClient) Usage(from, to, room string) (*Response, error) {
	return c.httpClient.GET("/api/v1/admin/usage" + rangeQuery(from, to, room))
}

func rangeQuery(from, to, room string) string {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	if room != "" {
		q.Set("room", room)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
