package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/model"
)

const (
	BookingsFile     = "bookings.csv"
	BlockedDatesFile = "blocked_dates.csv"
	TransactionsFile = "transaction_log.csv"
	lockFile         = "ledger.lock"
)

var (
	bookingHeader = []string{
		"ID", "Room", "Date", "Start Time", "End Time", "Booked By",
		"Meeting Title", "Contact Number", "Password", "Created At", "Updated At",
	}
	blockedDateHeader = []string{"Date", "Reason", "Created At"}
	transactionHeader = []string{
		"ID", "Action", "Booking ID", "Room", "Date", "Start Time", "End Time", "User",
		"Meeting Title", "Contact Number", "Password", "Timestamp",
	}
)

// csvStore keeps each table in a flat file under dir. Whole-table writes go through
// a temp file and rename so a crash never leaves a truncated table behind.
type csvStore struct {
	dir string
	mu  sync.Mutex
}

type csvLedgerLock struct {
	path string
	opts LockOptions
}

func NewCSVStores(dir string, opts LockOptions) (*Stores, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store := &csvStore{dir: dir}
	return &Stores{
		Bookings:     store,
		BlockedDates: store,
		Log:          store,
		Lock:         &csvLedgerLock{path: filepath.Join(dir, lockFile), opts: opts},
	}, nil
}

func (s *csvStore) Load(ctx context.Context) ([]*model.Booking, error) {
	rows, err := s.readRows(BookingsFile, bookingHeader)
	if err != nil {
		return nil, err
	}

	bookings := make([]*model.Booking, 0, len(rows))
	for i, row := range rows {
		b, err := bookingFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", BookingsFile, i+2, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (s *csvStore) Save(ctx context.Context, bookings []*model.Booking) error {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, bookingToRow(b))
	}
	return s.writeRows(BookingsFile, bookingHeader, rows)
}

func (s *csvStore) LoadBlockedDates(ctx context.Context) (model.BlockedDates, error) {
	rows, err := s.readRows(BlockedDatesFile, blockedDateHeader)
	if err != nil {
		return nil, err
	}

	dates := make(model.BlockedDates, len(rows))
	for i, row := range rows {
		createdAt, err := parseTimestamp(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", BlockedDatesFile, i+2, err)
		}
		dates[row[0]] = model.BlockedDate{Date: row[0], Reason: row[1], CreatedAt: createdAt}
	}
	return dates, nil
}

func (s *csvStore) SaveBlockedDates(ctx context.Context, dates model.BlockedDates) error {
	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		d := dates[k]
		rows = append(rows, []string{d.Date, d.Reason, formatTimestamp(d.CreatedAt)})
	}
	return s.writeRows(BlockedDatesFile, blockedDateHeader, rows)
}

func (s *csvStore) LoadLog(ctx context.Context) ([]*model.TransactionRecord, error) {
	rows, err := s.readRows(TransactionsFile, transactionHeader)
	if err != nil {
		return nil, err
	}

	records := make([]*model.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := transactionFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", TransactionsFile, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds one row to the log without rewriting earlier rows.
func (s *csvStore) Append(ctx context.Context, rec *model.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, TransactionsFile)
	info, statErr := os.Stat(path)
	writeHeader := errors.Is(statErr, os.ErrNotExist) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open transaction log: %w", err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		_ = w.Write(transactionHeader)
	}
	_ = w.Write(transactionToRow(rec))
	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync transaction log: %w", err)
	}
	return f.Close()
}

func (s *csvStore) readRows(name string, header []string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}
	for i := range header {
		if first[i] != header[i] {
			return nil, fmt.Errorf("%w: %s has unexpected column %q", bookingserrors.ErrCorruptRecord, name, first[i])
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", bookingserrors.ErrCorruptRecord, name, err)
	}
	return rows, nil
}

func (s *csvStore) writeRows(name string, header []string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Acquire creates the lock file exclusively. A lock file older than the TTL
// belongs to a crashed writer and is removed.
func (l *csvLedgerLock) Acquire(ctx context.Context, owner string) (ReleaseFunc, error) {
	err := retryAcquire(ctx, l.opts, func() (bool, error) {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, werr := f.WriteString(owner)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(l.path)
				return false, fmt.Errorf("failed to write ledger lock: %w", errors.Join(werr, cerr))
			}
			return true, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return false, fmt.Errorf("failed to acquire ledger lock: %w", err)
		}

		if info, statErr := os.Stat(l.path); statErr == nil && time.Since(info.ModTime()) > l.opts.TTL {
			os.Remove(l.path)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return func(context.Context) error {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return err
		}
		if string(data) != owner {
			return nil
		}
		return os.Remove(l.path)
	}, nil
}

func bookingToRow(b *model.Booking) []string {
	return []string{
		b.ID,
		b.Room,
		b.Date,
		joinDateTime(b.Date, b.Start),
		joinDateTime(b.Date, b.End),
		b.Holder,
		b.Title,
		b.Contact,
		b.SecretHash,
		formatTimestamp(b.CreatedAt),
		formatTimestamp(b.UpdatedAt),
	}
}

func bookingFromRow(row []string) (*model.Booking, error) {
	start, err := splitTimeOfDay(row[3])
	if err != nil {
		return nil, err
	}
	end, err := splitTimeOfDay(row[4])
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTimestamp(row[9])
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTimestamp(row[10])
	if err != nil {
		return nil, err
	}
	return &model.Booking{
		ID:         row[0],
		Room:       row[1],
		Date:       row[2],
		Start:      start,
		End:        end,
		Holder:     row[5],
		Title:      row[6],
		Contact:    row[7],
		SecretHash: row[8],
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func transactionToRow(rec *model.TransactionRecord) []string {
	return []string{
		rec.ID,
		string(rec.Action),
		rec.BookingID,
		rec.Room,
		rec.Date,
		joinDateTime(rec.Date, rec.Start),
		joinDateTime(rec.Date, rec.End),
		rec.Holder,
		rec.Title,
		rec.Contact,
		rec.SecretHash,
		formatTimestamp(rec.Timestamp),
	}
}

func transactionFromRow(row []string) (*model.TransactionRecord, error) {
	start, err := splitTimeOfDay(row[5])
	if err != nil {
		return nil, err
	}
	end, err := splitTimeOfDay(row[6])
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(row[11])
	if err != nil {
		return nil, err
	}
	return &model.TransactionRecord{
		ID:         row[0],
		Action:     model.Action(row[1]),
		BookingID:  row[2],
		Room:       row[3],
		Date:       row[4],
		Start:      start,
		End:        end,
		Holder:     row[7],
		Title:      row[8],
		Contact:    row[9],
		SecretHash: row[10],
		Timestamp:  ts,
	}, nil
}

// joinDateTime renders a time of day as a full timestamp on date.
func joinDateTime(date, hhmm string) string {
	return date + " " + hhmm + ":00"
}

func splitTimeOfDay(s string) (string, error) {
	if t, err := time.Parse(model.TimestampLayout, s); err == nil {
		return t.Format(model.TimeOfDayLayout), nil
	}
	if t, err := time.Parse(model.TimeOfDayLayout, s); err == nil {
		return t.Format(model.TimeOfDayLayout), nil
	}
	return "", fmt.Errorf("%w: bad time %q", bookingserrors.ErrCorruptRecord, s)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(model.TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(model.TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", bookingserrors.ErrCorruptRecord, s)
	}
	return t, nil
}

// secretColumn is the position of the password column in transactionHeader.
const secretColumn = 10

// WriteTransactionsCSV renders recs in the transaction log file layout with the
// password column left out.
func WriteTransactionsCSV(w io.Writer, recs []*model.TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(withoutColumn(transactionHeader, secretColumn)); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := cw.Write(withoutColumn(transactionToRow(rec), secretColumn)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func withoutColumn(row []string, col int) []string {
	out := make([]string, 0, len(row)-1)
	out = append(out, row[:col]...)
	return append(out, row[col+1:]...)
}
