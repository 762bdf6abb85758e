package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/internal/slots"
	"roombook/pkg/clock"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/password"
	"roombook/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, date, room string) ([]*model.Booking, error)
	Lookup(ctx context.Context, secret string) ([]*model.Booking, error)
	Update(ctx context.Context, id, secret string, upd *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id, secret string) (*model.Booking, error)
	Availability(ctx context.Context, date string) (*model.Availability, error)
	Rooms() []string
	TimeOptions() []string
}

// Notifier is told about every committed change. It must not block for long and
// its failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, action model.Action, booking *model.Booking)
}

type bookingService struct {
	stores    *repository.Stores
	validator *validator.BookingValidator
	grid      *slots.Grid
	hasher    *password.Hasher
	notifier  Notifier
	clock     clock.Clock
	cfg       *config.Config

	owner string
}

func NewBookingService(
	stores *repository.Stores,
	validator *validator.BookingValidator,
	grid *slots.Grid,
	hasher *password.Hasher,
	notifier Notifier,
	clk clock.Clock,
	cfg *config.Config,
) BookingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &bookingService{
		stores:    stores,
		validator: validator,
		grid:      grid,
		hasher:    hasher,
		notifier:  notifier,
		clock:     clk,
		cfg:       cfg,
		owner:     uuid.NewString(),
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	sanitizer.SanitizeBookingRequest(req, s.cfg.Ledger.ContactRegion)

	if err := s.validator.ValidateSecret(req.Secret); err != nil {
		return nil, s.validationError(err)
	}

	now := s.now()
	booking := &model.Booking{
		ID:        uuid.NewString(),
		Room:      req.Room,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Holder:    req.Holder,
		Title:     req.Title,
		Contact:   req.Contact,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.validator.Validate(booking); err != nil {
		return nil, s.validationError(err)
	}

	if req.Secret != "" {
		hash, err := s.hasher.Hash(req.Secret)
		if err != nil {
			return nil, apperrors.Internal("Failed to secure booking secret", err)
		}
		booking.SecretHash = hash
	}

	err := s.stores.WithLedger(ctx, s.owner, s.cfg.Log, func() error {
		if err := s.checkDate(ctx, booking.Date); err != nil {
			return err
		}

		current, err := s.loadBookings(ctx)
		if err != nil {
			return err
		}

		if c := FindConflict(current, booking.Room, booking.Date, booking.Start, booking.End, ""); c != nil {
			s.cfg.Log.Warn("Booking conflict",
				"room", booking.Room,
				"date", booking.Date,
				"start", booking.Start,
				"end", booking.End,
				"conflicting_id", c.ID,
			)
			return apperrors.BookedBy(c.Holder, c.ID)
		}

		next := append(model.CloneBookings(current), booking.Clone())
		return s.commit(ctx, current, next, model.ActionBooking, booking)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room", booking.Room,
		"date", booking.Date,
		"start", booking.Start,
		"end", booking.End,
	)
	s.notifier.Notify(context.WithoutCancel(ctx), model.ActionBooking, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	current, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range current {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (s *bookingService) List(ctx context.Context, date, room string) ([]*model.Booking, error) {
	current, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Booking, 0, len(current))
	for _, b := range current {
		if date != "" && b.Date != date {
			continue
		}
		if room != "" && b.Room != room {
			continue
		}
		out = append(out, b)
	}
	sortBookings(out)
	return out, nil
}

// Lookup returns every booking protected by secret.
func (s *bookingService) Lookup(ctx context.Context, secret string) ([]*model.Booking, error) {
	if secret == "" {
		return nil, apperrors.InvalidInput("Secret cannot be empty")
	}

	current, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	out := []*model.Booking{}
	for _, b := range current {
		if b.SecretHash != "" && s.hasher.Compare(b.SecretHash, secret) == nil {
			out = append(out, b)
		}
	}
	sortBookings(out)

	s.cfg.Log.Debug("Booking lookup completed", "matches", len(out))
	return out, nil
}

func (s *bookingService) Update(ctx context.Context, id, secret string, upd *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	sanitizer.SanitizeBookingUpdate(upd)

	var updated *model.Booking
	err := s.stores.WithLedger(ctx, s.owner, s.cfg.Log, func() error {
		current, err := s.loadBookings(ctx)
		if err != nil {
			return err
		}

		idx, err := s.resolveTarget(current, id, secret)
		if err != nil {
			return err
		}
		target := current[idx]

		merged := mergeBookingUpdate(target, upd)
		merged.UpdatedAt = s.now()
		if err := s.validator.Validate(merged); err != nil {
			return s.validationError(err)
		}
		// A booking keeps its date even after that date is blocked or has passed.
		if merged.Date != target.Date {
			if err := s.checkDate(ctx, merged.Date); err != nil {
				return err
			}
		}

		conflicts := FindConflicts(current, merged.Room, merged.Date, merged.Start, merged.End, target.ID)
		if c := FirstForeignHolder(conflicts, target.Holder); c != nil {
			s.cfg.Log.Warn("Booking conflict on edit",
				"id", target.ID,
				"room", merged.Room,
				"date", merged.Date,
				"conflicting_id", c.ID,
			)
			return apperrors.BookedBy(c.Holder, c.ID)
		}
		if len(conflicts) > 0 {
			s.cfg.Log.Info("Same-holder overlap permitted on edit",
				"id", target.ID,
				"overlapping", len(conflicts),
			)
		}

		next := model.CloneBookings(current)
		next[idx] = merged.Clone()
		if err := s.commit(ctx, current, next, model.ActionEdit, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully",
		"id", updated.ID,
		"room", updated.Room,
		"date", updated.Date,
		"start", updated.Start,
		"end", updated.End,
	)
	s.notifier.Notify(context.WithoutCancel(ctx), model.ActionEdit, updated)
	return updated, nil
}

func (s *bookingService) Cancel(ctx context.Context, id, secret string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var removed *model.Booking
	err := s.stores.WithLedger(ctx, s.owner, s.cfg.Log, func() error {
		current, err := s.loadBookings(ctx)
		if err != nil {
			return err
		}

		idx, err := s.resolveTarget(current, id, secret)
		if err != nil {
			return err
		}

		next := make([]*model.Booking, 0, len(current)-1)
		for i, b := range current {
			if i != idx {
				next = append(next, b.Clone())
			}
		}
		if err := s.commit(ctx, current, next, model.ActionCancellation, current[idx]); err != nil {
			return err
		}
		removed = current[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", removed.ID, "room", removed.Room, "date", removed.Date)
	s.notifier.Notify(context.WithoutCancel(ctx), model.ActionCancellation, removed)
	return removed, nil
}

func (s *bookingService) Availability(ctx context.Context, date string) (*model.Availability, error) {
	if _, err := slots.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput("Invalid date, must be YYYY-MM-DD: " + date)
	}

	blocked, err := s.loadBlockedDates(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	closed, reason := slots.IsBlockedOrWeekend(date, blocked)
	result := &model.Availability{
		Date:   date,
		Open:   !closed,
		Reason: reason,
		Rooms:  make([]model.RoomAvailability, 0, len(s.cfg.Ledger.Rooms)),
	}

	for _, room := range s.cfg.Ledger.Rooms {
		ra := model.RoomAvailability{Room: room, Booked: []*model.Booking{}, FreeSlots: []string{}}
		for _, b := range current {
			if b.SameDay(room, date) {
				ra.Booked = append(ra.Booked, b)
			}
		}
		sortBookings(ra.Booked)

		if !closed {
			for _, start := range s.grid.StartOptions() {
				m, _ := slots.ParseMinute(start)
				end := slots.FormatMinute(m + s.grid.Step)
				if FindConflict(ra.Booked, room, date, start, end, "") == nil {
					ra.FreeSlots = append(ra.FreeSlots, start)
				}
			}
		}
		result.Rooms = append(result.Rooms, ra)
	}

	return result, nil
}

func (s *bookingService) Rooms() []string {
	return append([]string(nil), s.cfg.Ledger.Rooms...)
}

func (s *bookingService) TimeOptions() []string {
	return s.grid.Options()
}

// --- Helpers ---

// commit saves next and appends the audit record. When the append fails the
// previous table is written back so the ledger and its log never disagree.
func (s *bookingService) commit(ctx context.Context, prev, next []*model.Booking, action model.Action, b *model.Booking) error {
	if err := s.stores.Bookings.Save(ctx, next); err != nil {
		s.cfg.Log.Error("Failed to save bookings", "action", action, "id", b.ID, "error", err)
		return apperrors.Persistence("Failed to save bookings", err)
	}

	rec := model.NewTransactionRecord(uuid.NewString(), action, b, s.now())
	if err := s.stores.Log.Append(ctx, rec); err != nil {
		s.cfg.Log.Error("Failed to record transaction, restoring bookings", "action", action, "id", b.ID, "error", err)
		if rbErr := s.stores.Bookings.Save(context.WithoutCancel(ctx), prev); rbErr != nil {
			s.cfg.Log.Error("Failed to restore bookings after log failure", "error", rbErr)
		}
		return apperrors.Persistence("Failed to record transaction", err)
	}
	return nil
}

// resolveTarget finds the booking addressed by id. A missing booking and a wrong
// secret are indistinguishable to the caller.
func (s *bookingService) resolveTarget(bookings []*model.Booking, id, secret string) (int, error) {
	for i, b := range bookings {
		if b.ID != id {
			continue
		}
		if !s.cfg.Ledger.RequireSecret {
			return i, nil
		}
		if secret != "" && s.hasher.Compare(b.SecretHash, secret) == nil {
			return i, nil
		}
		s.cfg.Log.Warn("Booking secret mismatch", "id", id)
		break
	}
	return -1, apperrors.NotFoundWithID("Booking", id)
}

func (s *bookingService) checkDate(ctx context.Context, date string) error {
	blocked, err := s.loadBlockedDates(ctx)
	if err != nil {
		return err
	}
	if err := slots.CheckDate(date, blocked, s.clock.Now()); err != nil {
		s.cfg.Log.Warn("Date unavailable", "date", date, "error", err)
		return err
	}
	return nil
}

func (s *bookingService) loadBookings(ctx context.Context) ([]*model.Booking, error) {
	current, err := s.stores.Bookings.Load(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "error", err)
		return nil, apperrors.Persistence("Failed to load bookings", err)
	}
	return current, nil
}

func (s *bookingService) loadBlockedDates(ctx context.Context) (model.BlockedDates, error) {
	blocked, err := s.stores.BlockedDates.LoadBlockedDates(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load blocked dates", "error", err)
		return nil, apperrors.Persistence("Failed to load blocked dates", err)
	}
	return blocked, nil
}

func (s *bookingService) validationError(err error) error {
	s.cfg.Log.Warn("Booking validation failed", "error", err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func (s *bookingService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func mergeBookingUpdate(existing *model.Booking, upd *model.BookingUpdate) *model.Booking {
	merged := existing.Clone()

	if upd.Room != "" {
		merged.Room = upd.Room
	}
	if upd.Date != "" {
		merged.Date = upd.Date
	}
	if upd.Start != "" {
		merged.Start = upd.Start
	}
	if upd.End != "" {
		merged.End = upd.End
	}
	if upd.Title != "" {
		merged.Title = upd.Title
	}

	return merged
}

func sortBookings(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		return a.Start < b.Start
	})
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Action, *model.Booking) {}
