package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"roombook/pkg/model"
)

// SecretHeader carries the booking secret on Edit and Cancel.
const SecretHeader = "X-Booking-Secret"

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) Create(req *model.BookingRequest) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings", req)
}

func (c *BookingClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/bookings", rawBody)
}

func (c *BookingClient) List(date, room string) (*Response, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if room != "" {
		q.Set("room", room)
	}
	path := "/api/v1/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.httpClient.GET(path)
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/bookings/id/" + url.PathEscape(id))
}

func (c *BookingClient) Lookup(secret string) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/lookup", map[string]string{"secret": secret})
}

func (c *BookingClient) Update(id, secret string, upd *model.BookingUpdate) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.PATCHWithHeaders(path, upd, map[string]string{SecretHeader: secret})
}

func (c *BookingClient) Cancel(id, secret string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.DELETEWithHeaders(path, map[string]string{SecretHeader: secret})
}

func (c *BookingClient) Rooms() (*Response, error) {
	return c.httpClient.GET("/api/v1/rooms")
}

func (c *BookingClient) Slots() (*Response, error) {
	return c.httpClient.GET("/api/v1/slots")
}

func (c *BookingClient) Availability(date string) (*Response, error) {
	return c.httpClient.GET("/api/v1/availability?date=" + url.QueryEscape(date))
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
