package service

import (
	"context"
	"errors"
	"io"
	"math"
	"slices"
	"sort"
	"time"

	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/internal/slots"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/google/uuid"
)

// MaxUsageDays bounds a usage report to roughly one year.
const MaxUsageDays = 366

type AdminService interface {
	Transactions(ctx context.Context, from, to string) ([]*model.TransactionRecord, error)
	ExportTransactions(ctx context.Context, w io.Writer, from, to string) error
	BlockedDates(ctx context.Context) ([]model.BlockedDate, error)
	BlockDate(ctx context.Context, req *model.BlockDateRequest) (*model.BlockDateResult, error)
	UnblockDate(ctx context.Context, date string) error
	Usage(ctx context.Context, from, to, room string) (*model.UsageReport, error)
}

type adminService struct {
	stores    *repository.Stores
	validator *validator.BookingValidator
	grid      *slots.Grid
	clock     clock.Clock
	cfg       *config.Config

	owner string
}

func NewAdminService(
	stores *repository.Stores,
	validator *validator.BookingValidator,
	grid *slots.Grid,
	clk clock.Clock,
	cfg *config.Config,
) AdminService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &adminService{
		stores:    stores,
		validator: validator,
		grid:      grid,
		clock:     clk,
		cfg:       cfg,
		owner:     uuid.NewString(),
	}
}

// Transactions returns the audit log in append order, limited to records whose
// timestamp falls on a day in [from, to]. Empty bounds are open.
func (s *adminService) Transactions(ctx context.Context, from, to string) ([]*model.TransactionRecord, error) {
	lo, hi, err := parseOpenRange(from, to)
	if err != nil {
		return nil, err
	}

	log, err := s.stores.Log.LoadLog(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load transaction log", "error", err)
		return nil, apperrors.Persistence("Failed to load transaction log", err)
	}

	out := make([]*model.TransactionRecord, 0, len(log))
	for _, rec := range log {
		day := rec.Timestamp.UTC().Format(model.DateLayout)
		if lo != "" && day < lo {
			continue
		}
		if hi != "" && day > hi {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *adminService) ExportTransactions(ctx context.Context, w io.Writer, from, to string) error {
	recs, err := s.Transactions(ctx, from, to)
	if err != nil {
		return err
	}
	if err := repository.WriteTransactionsCSV(w, recs); err != nil {
		s.cfg.Log.Error("Failed to export transaction log", "error", err)
		return apperrors.Internal("Failed to export transaction log", err)
	}
	s.cfg.Log.Info("Transaction log exported", "records", len(recs), "from", from, "to", to)
	return nil
}

func (s *adminService) BlockedDates(ctx context.Context) ([]model.BlockedDate, error) {
	blocked, err := s.loadBlockedDates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.BlockedDate, 0, len(blocked))
	for _, d := range blocked {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// BlockDate closes every room on a date. Bookings already on that date are
// reported back and left in place.
func (s *adminService) BlockDate(ctx context.Context, req *model.BlockDateRequest) (*model.BlockDateResult, error) {
	entry := model.BlockedDate{
		Date:      req.Date,
		Reason:    req.Reason,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Second),
	}
	if err := s.validator.ValidateBlockedDate(&entry); err != nil {
		s.cfg.Log.Warn("Blocked date validation failed", "error", err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Blocked date validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Blocked date validation failed", map[string]any{"error": err.Error()})
	}

	result := &model.BlockDateResult{BlockedDate: entry, Affected: []*model.Booking{}}
	err := s.stores.WithLedger(ctx, s.owner, s.cfg.Log, func() error {
		blocked, err := s.loadBlockedDates(ctx)
		if err != nil {
			return err
		}
		if existing, ok := blocked[entry.Date]; ok {
			return apperrors.Conflict("Date " + existing.Date + " is already blocked")
		}

		blocked[entry.Date] = entry
		if err := s.stores.BlockedDates.SaveBlockedDates(ctx, blocked); err != nil {
			s.cfg.Log.Error("Failed to save blocked dates", "date", entry.Date, "error", err)
			return apperrors.Persistence("Failed to save blocked dates", err)
		}

		bookings, err := s.stores.Bookings.Load(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to load bookings", "error", err)
			return apperrors.Persistence("Failed to load bookings", err)
		}
		for _, b := range bookings {
			if b.Date == entry.Date {
				result.Affected = append(result.Affected, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Date blocked",
		"date", entry.Date,
		"reason", entry.Reason,
		"affected_bookings", len(result.Affected),
	)
	return result, nil
}

func (s *adminService) UnblockDate(ctx context.Context, date string) error {
	if _, err := slots.ParseDate(date); err != nil {
		return apperrors.InvalidInput("Invalid date, must be YYYY-MM-DD: " + date)
	}

	err := s.stores.WithLedger(ctx, s.owner, s.cfg.Log, func() error {
		blocked, err := s.loadBlockedDates(ctx)
		if err != nil {
			return err
		}
		if !blocked.Contains(date) {
			return apperrors.NotFoundWithID("Blocked date", date)
		}

		delete(blocked, date)
		if err := s.stores.BlockedDates.SaveBlockedDates(ctx, blocked); err != nil {
			s.cfg.Log.Error("Failed to save blocked dates", "date", date, "error", err)
			return apperrors.Persistence("Failed to save blocked dates", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Date unblocked", "date", date)
	return nil
}

// Usage reports utilisation over [from, to]. Both bounds default to the current
// month. An empty room covers every configured room.
func (s *adminService) Usage(ctx context.Context, from, to, room string) (*model.UsageReport, error) {
	start, end, err := s.usageRange(from, to)
	if err != nil {
		return nil, err
	}

	rooms := s.cfg.Ledger.Rooms
	if room != "" {
		if !slices.Contains(rooms, room) {
			return nil, apperrors.InvalidInput("Unknown room: " + room)
		}
		rooms = []string{room}
	}

	blocked, err := s.loadBlockedDates(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.stores.Bookings.Load(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "error", err)
		return nil, apperrors.Persistence("Failed to load bookings", err)
	}

	lo, hi := start.Format(model.DateLayout), end.Format(model.DateLayout)
	openDays := slots.OpenDays(start, end, blocked)
	perRoomCapacity := len(openDays) * s.grid.SlotsPerDay()

	report := &model.UsageReport{
		From:           lo,
		To:             hi,
		Room:           room,
		OpenDays:       len(openDays),
		AvailableSlots: perRoomCapacity * len(rooms),
		ByRoom:         make([]model.RoomUsage, 0, len(rooms)),
		ByDay:          []model.DailyUsage{},
	}

	byRoom := make(map[string]*model.RoomUsage, len(rooms))
	for _, r := range rooms {
		byRoom[r] = &model.RoomUsage{Room: r, AvailableSlots: perRoomCapacity}
	}
	byDay := map[string]*model.DailyUsage{}
	holders := map[string]struct{}{}

	for _, b := range bookings {
		if b.Date < lo || b.Date > hi {
			continue
		}
		ru, ok := byRoom[b.Room]
		if !ok {
			continue
		}
		n := s.grid.SlotCount(b.Start, b.End)

		report.TotalBookings++
		report.BookedSlots += n
		holders[b.Holder] = struct{}{}

		ru.Bookings++
		ru.BookedSlots += n

		du, ok := byDay[b.Date]
		if !ok {
			du = &model.DailyUsage{Date: b.Date}
			byDay[b.Date] = du
		}
		du.Bookings++
		du.BookedSlots += n
	}

	report.UniqueHolders = len(holders)
	report.UtilizationRate = rate(report.BookedSlots, report.AvailableSlots)
	for _, r := range rooms {
		ru := byRoom[r]
		ru.UtilizationRate = rate(ru.BookedSlots, ru.AvailableSlots)
		report.ByRoom = append(report.ByRoom, *ru)
	}
	for _, du := range byDay {
		report.ByDay = append(report.ByDay, *du)
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })

	s.cfg.Log.Debug("Usage report computed",
		"from", lo,
		"to", hi,
		"room", room,
		"bookings", report.TotalBookings,
		"rate", report.UtilizationRate,
	)
	return report, nil
}

// --- Helpers ---

func (s *adminService) loadBlockedDates(ctx context.Context) (model.BlockedDates, error) {
	blocked, err := s.stores.BlockedDates.LoadBlockedDates(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load blocked dates", "error", err)
		return nil, apperrors.Persistence("Failed to load blocked dates", err)
	}
	return blocked, nil
}

func (s *adminService) usageRange(from, to string) (time.Time, time.Time, error) {
	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	start, end := monthStart, monthStart.AddDate(0, 1, -1)
	var err error
	if from != "" {
		if start, err = slots.ParseDate(from); err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("Invalid from date, must be YYYY-MM-DD: " + from)
		}
	}
	if to != "" {
		if end, err = slots.ParseDate(to); err != nil {
			return time.Time{}, time.Time{}, apperrors.InvalidInput("Invalid to date, must be YYYY-MM-DD: " + to)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("from must not be after to")
	}
	if end.Sub(start) >= MaxUsageDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("Usage range is limited to one year")
	}
	return start, end, nil
}

func parseOpenRange(from, to string) (string, string, error) {
	if from != "" {
		if _, err := slots.ParseDate(from); err != nil {
			return "", "", apperrors.InvalidInput("Invalid from date, must be YYYY-MM-DD: " + from)
		}
	}
	if to != "" {
		if _, err := slots.ParseDate(to); err != nil {
			return "", "", apperrors.InvalidInput("Invalid to date, must be YYYY-MM-DD: " + to)
		}
	}
	if from != "" && to != "" && to < from {
		return "", "", apperrors.InvalidInput("from must not be after to")
	}
	return from, to, nil
}

// rate is booked/available as a percentage rounded to two decimals.
func rate(booked, available int) float64 {
	if available == 0 {
		return 0
	}
	return math.Round(float64(booked)*10000/float64(available)) / 100
}
