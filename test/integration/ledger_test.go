//go:build integration

package integration

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultRoom = "DFO Conference Room (Max 15 Pax)"

func serverURL() string {
	if url := os.Getenv("TEST_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func setup(t *testing.T) *client.BookingClient {
	t.Helper()

	require.NoError(t, client.NewHttpClient(serverURL()).WaitForHealthy(30*time.Second))
	return client.NewBookingClient(serverURL())
}

// futureWeekday returns a Monday a few weeks out so runs do not collide with
// real bookings or the past-date check.
func futureWeekday(weeks int) string {
	d := time.Now().UTC().AddDate(0, 0, 7*weeks)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(time.DateOnly)
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	c := setup(t)
	date := futureWeekday(8)
	run := strconv.FormatInt(time.Now().UnixNano(), 36)

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []*model.Booking
		secrets = map[string]string{}
		codes   = map[int]int{}
	)

	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			secret := run + "-" + strconv.Itoa(i)
			resp, err := c.Create(&model.BookingRequest{
				Room:    defaultRoom,
				Date:    date,
				Start:   "14:00",
				End:     "15:00",
				Holder:  "Writer " + strconv.Itoa(i),
				Title:   "Race " + run,
				Contact: "+6591234567",
				Secret:  secret,
			})
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			codes[resp.StatusCode]++
			if resp.StatusCode == http.StatusCreated {
				b, err := c.DecodeBooking(resp)
				if assert.NoError(t, err) {
					created = append(created, b)
					secrets[b.ID] = secret
				}
			}
		}()
	}
	wg.Wait()

	t.Cleanup(func() {
		for _, b := range created {
			_, _ = c.Cancel(b.ID, secrets[b.ID])
		}
	})

	assert.Equal(t, 1, codes[http.StatusCreated], "exactly one writer wins the slot")
	assert.Equal(t, writers-1, codes[http.StatusConflict])
}

func TestBookingRoundTrip(t *testing.T) {
	c := setup(t)
	date := futureWeekday(9)
	secret := "round-trip-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	resp, err := c.Create(&model.BookingRequest{
		Room:    defaultRoom,
		Date:    date,
		Start:   "08:00",
		End:     "09:30",
		Holder:  "Integration",
		Title:   "Round trip",
		Contact: "+6591234567",
		Secret:  secret,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.ToString())
	booking, err := c.DecodeBooking(resp)
	require.NoError(t, err)

	resp, err = c.Availability(date)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Update(booking.ID, secret, &model.BookingUpdate{End: "10:00"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.ToString())

	resp, err = c.Cancel(booking.ID, secret)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = c.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminBlockedDates(t *testing.T) {
	pw := os.Getenv("TEST_ADMIN_PASSWORD")
	if pw == "" {
		t.Skip("TEST_ADMIN_PASSWORD not set")
	}
	setup(t)
	admin := client.NewAdminClient(serverURL(), pw)
	date := futureWeekday(10)

	resp, err := admin.BlockDate(date, "integration")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.ToString())
	t.Cleanup(func() { _, _ = admin.UnblockDate(date) })

	resp, err = admin.BlockDate(date, "again")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = admin.UnblockDate(date)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
