package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roombook/internal/admin/service"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/internal/slots"
	"roombook/pkg/client"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/password"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminPassword = "letmein"
	roomA         = "DFO Conference Room (Max 15 Pax)"
)

func newTestServer(t *testing.T) (string, *repository.Stores) {
	t.Helper()

	cfg := &config.Config{
		Log: logger.NewNop(),
		Ledger: config.Ledger{
			Rooms:       []string{roomA},
			DayStart:    "08:00",
			DayEnd:      "18:00",
			SlotMinutes: 30,
		},
	}
	grid, err := slots.NewGrid(cfg.Ledger.DayStart, cfg.Ledger.DayEnd, cfg.Ledger.SlotMinutes)
	require.NoError(t, err)

	hash, err := password.NewHasher(password.MinCost).Hash(adminPassword)
	require.NoError(t, err)

	stores := repository.NewMemoryStores()
	svc := service.NewAdminService(
		stores,
		validator.NewBookingValidator(cfg.Log, cfg.Ledger, grid),
		grid,
		clock.NewMockClock(time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)),
		cfg,
	)

	router := httprouter.New()
	NewAdminHandler(svc, hash, cfg.Log).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL, stores
}

func TestAdmin_RejectsWrongPassword(t *testing.T) {
	url, _ := newTestServer(t)

	for _, pw := range []string{"", "guess"} {
		c := client.NewAdminClient(url, pw)
		resp, err := c.Transactions("", "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, apperrors.CodeUnauthorized, client.GetErrorCode(resp))
	}
}

func TestAdmin_BlockedDatesLifecycle(t *testing.T) {
	url, stores := newTestServer(t)
	c := client.NewAdminClient(url, adminPassword)

	require.NoError(t, stores.Bookings.Save(context.Background(), []*model.Booking{
		{ID: "a", Room: roomA, Date: "2025-03-10", Start: "09:00", End: "10:00", Holder: "Alice"},
	}))

	resp, err := c.BlockDate("2025-03-10", "Maintenance")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.ToString())
	var created struct {
		Data model.BlockDateResult `json:"data"`
	}
	require.NoError(t, resp.DecodeJSON(&created))
	assert.Equal(t, "2025-03-10", created.Data.BlockedDate.Date)
	require.Len(t, created.Data.Affected, 1)
	assert.Equal(t, "a", created.Data.Affected[0].ID)

	resp, err = c.BlockDate("2025-03-10", "again")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = c.BlockedDates()
	require.NoError(t, err)
	var list struct {
		Data []model.BlockedDate `json:"data"`
	}
	require.NoError(t, resp.DecodeJSON(&list))
	require.Len(t, list.Data, 1)

	resp, err = c.UnblockDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = c.UnblockDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_TransactionsAndExport(t *testing.T) {
	url, stores := newTestServer(t)
	c := client.NewAdminClient(url, adminPassword)

	b := &model.Booking{ID: "a", Room: roomA, Date: "2025-03-10", Start: "09:00", End: "10:00", Holder: "Alice"}
	require.NoError(t, stores.Log.Append(context.Background(),
		model.NewTransactionRecord("tx-1", model.ActionBooking, b, time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC))))

	resp, err := c.Transactions("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs struct {
		Data []model.TransactionRecord `json:"data"`
	}
	require.NoError(t, resp.DecodeJSON(&recs))
	require.Len(t, recs.Data, 1)
	assert.Equal(t, model.ActionBooking, recs.Data[0].Action)

	resp, err = c.ExportTransactions("", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), exportFilename)
	assert.True(t, strings.HasPrefix(string(resp.Body), "ID,Action,Booking ID"))

	resp, err = c.ExportTransactions("bad", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdmin_Usage(t *testing.T) {
	url, stores := newTestServer(t)
	c := client.NewAdminClient(url, adminPassword)

	require.NoError(t, stores.Bookings.Save(context.Background(), []*model.Booking{
		{ID: "a", Room: roomA, Date: "2025-03-03", Start: "08:00", End: "18:00", Holder: "Alice"},
	}))

	resp, err := c.Usage("2025-03-03", "2025-03-03", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.ToString())
	var report struct {
		Data model.UsageReport `json:"data"`
	}
	require.NoError(t, resp.DecodeJSON(&report))
	assert.Equal(t, 20, report.Data.BookedSlots)
	assert.Equal(t, 20, report.Data.AvailableSlots)
	assert.Equal(t, 100.0, report.Data.UtilizationRate)
}
