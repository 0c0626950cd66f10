package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/shiftboard/shiftboard-backend/internal/schedule/domain"
	"github.com/shiftboard/shiftboard-backend/internal/schedule/lock"
	"github.com/shiftboard/shiftboard-backend/pkg/actor"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
	"github.com/shiftboard/shiftboard-backend/pkg/logger"
)

// CreateShiftInput is a proposed shift
type CreateShiftInput struct {
	EmployeeID string
	Date       string
	StartTime  string
	EndTime    string
	// Approved is honored for privileged callers only
	Approved *bool
}

// SlotInput is one shift in a replaced day
type SlotInput struct {
	StartTime string
	EndTime   string
	Approved  *bool
}

// maxRelockAttempts bounds how often Update chases a shift that keeps moving
// between days while it waits for the lock.
const maxRelockAttempts = 3

// ShiftService handles the shift write path and single-shift reads
type ShiftService struct {
	shifts    ShiftStore
	windows   *WindowResolver
	conflicts *ConflictDetector
	locker    lock.Locker
	publisher EventPublisher
	logger    *logger.Logger
}

// NewShiftService creates a new shift service. A nil locker leaves
// concurrent writes to the same day unserialized.
func NewShiftService(
	shifts ShiftStore,
	windows *WindowResolver,
	locker lock.Locker,
	publisher EventPublisher,
	log *logger.Logger,
) *ShiftService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ShiftService{
		shifts:    shifts,
		windows:   windows,
		conflicts: NewConflictDetector(shifts),
		locker:    locker,
		publisher: publisher,
		logger:    log.WithComponent("shift-service"),
	}
}

// Create validates a proposed shift against the employee's business window
// and existing shifts, then stores it. New shifts are pending unless a
// privileged caller asks otherwise.
func (s *ShiftService) Create(ctx context.Context, in CreateShiftInput) (*domain.Shift, error) {
	if err := requireFields(
		"employee_id", in.EmployeeID,
		"date", in.Date,
		"start_time", in.StartTime,
		"end_time", in.EndTime,
	); err != nil {
		return nil, err
	}
	if err := checkDate(in.Date); err != nil {
		return nil, err
	}

	by := actor.FromContext(ctx)

	release, err := s.lockDay(ctx, in.EmployeeID, in.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	emp, w := s.windows.resolve(ctx, in.EmployeeID)

	iv, rejErr := validateTimes(in.StartTime, in.EndTime, w)
	if rejErr != nil {
		s.logRejected(rejErr, in.EmployeeID, in.Date)
		return nil, rejErr
	}

	conflict, err := s.conflicts.FindConflict(ctx, in.EmployeeID, in.Date, iv, w, "")
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		s.logRejected(conflictError(conflict), in.EmployeeID, in.Date)
		return nil, conflictError(conflict)
	}

	shift := &domain.Shift{
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		StartTime:  domain.NormalizeClock(in.StartTime),
		EndTime:    domain.NormalizeClock(in.EndTime),
		Approved:   by.IsPrivileged() && in.Approved != nil && *in.Approved,
		CreatedBy:  by.IDPtr(),
	}
	if emp != nil {
		shift.EmployeeCategoryTag = emp.CategoryTag
	}

	if err := s.shifts.Insert(ctx, shift); err != nil {
		return nil, err
	}

	s.publisher.PublishShiftCreated(ctx, shift, by)

	s.logger.Info().
		Str("shift_id", shift.ID).
		Str("employee_id", shift.EmployeeID).
		Str("date", shift.Date).
		Str("actor", by.String()).
		Msg("shift created")

	return shift, nil
}

// Update merges upd into the stored shift. Times are re-validated, and
// conflicts re-checked excluding the shift itself, only when the update
// touches the date or a time. The merge happens on a fresh read taken under
// the day lock, and the validated date and times are written together. An
// approval change from a caller who may not approve is dropped.
func (s *ShiftService) Update(ctx context.Context, id string, upd domain.ShiftUpdate) (*domain.Shift, error) {
	by := actor.FromContext(ctx)

	existing, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Approved != nil && !by.IsPrivileged() {
		upd.Approved = nil
	}
	if upd.IsEmpty() {
		return existing, nil
	}

	if upd.TouchesTimes() {
		if upd.Date != nil {
			if err := requireFields("date", *upd.Date); err != nil {
				return nil, err
			}
			if err := checkDate(*upd.Date); err != nil {
				return nil, err
			}
		}

		current, release, err := s.lockShift(ctx, existing, upd.Date)
		if err != nil {
			return nil, err
		}
		defer release()
		existing = current

		date := valueOr(upd.Date, existing.Date)
		start := valueOr(upd.StartTime, existing.StartTime)
		end := valueOr(upd.EndTime, existing.EndTime)

		if err := requireFields("date", date, "start_time", start, "end_time", end); err != nil {
			return nil, err
		}

		w := s.windows.Resolve(ctx, existing.EmployeeID)

		iv, rejErr := validateTimes(start, end, w)
		if rejErr != nil {
			s.logRejected(rejErr, existing.EmployeeID, date)
			return nil, rejErr
		}

		conflict, err := s.conflicts.FindConflict(ctx, existing.EmployeeID, date, iv, w, existing.ID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			s.logRejected(conflictError(conflict), existing.EmployeeID, date)
			return nil, conflictError(conflict)
		}

		start, end = domain.NormalizeClock(start), domain.NormalizeClock(end)
		upd.Date, upd.StartTime, upd.EndTime = &date, &start, &end
	}

	updated, err := s.shifts.UpdateByID(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.publisher.PublishShiftUpdated(ctx, updated, by)

	s.logger.Info().
		Str("shift_id", updated.ID).
		Str("employee_id", updated.EmployeeID).
		Str("date", updated.Date).
		Bool("revalidated", upd.TouchesTimes()).
		Str("actor", by.String()).
		Msg("shift updated")

	return updated, nil
}

// SetApproval records an approval decision. Times are not re-validated.
func (s *ShiftService) SetApproval(ctx context.Context, id string, approved bool) (*domain.Shift, error) {
	by := actor.FromContext(ctx)

	updated, err := s.shifts.UpdateByID(ctx, id, domain.ShiftUpdate{Approved: &approved})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishShiftUpdated(ctx, updated, by)

	s.logger.Info().
		Str("shift_id", updated.ID).
		Bool("approved", approved).
		Str("actor", by.String()).
		Msg("shift approval changed")

	return updated, nil
}

// Delete removes one shift. A missing id is NotFound.
func (s *ShiftService) Delete(ctx context.Context, id string) error {
	by := actor.FromContext(ctx)

	existing, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.shifts.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("shift")
	}

	s.publisher.PublishShiftDeleted(ctx, existing, by)

	s.logger.Info().
		Str("shift_id", id).
		Str("employee_id", existing.EmployeeID).
		Str("date", existing.Date).
		Str("actor", by.String()).
		Msg("shift deleted")

	return nil
}

// DeleteDay removes every shift an employee has on date. Zero matches is
// not an error.
func (s *ShiftService) DeleteDay(ctx context.Context, employeeID, date string) (int64, error) {
	if err := requireFields("employee_id", employeeID, "date", date); err != nil {
		return 0, err
	}
	if err := checkDate(date); err != nil {
		return 0, err
	}

	by := actor.FromContext(ctx)

	release, err := s.lockDay(ctx, employeeID, date)
	if err != nil {
		return 0, err
	}
	defer release()

	removed, err := s.shifts.DeleteMany(ctx, employeeID, date)
	if err != nil {
		return 0, err
	}

	s.publisher.PublishDayReplaced(ctx, employeeID, date, removed, nil, by)

	s.logger.Info().
		Str("employee_id", employeeID).
		Str("date", date).
		Int64("removed", removed).
		Str("actor", by.String()).
		Msg("shifts deleted for day")

	return removed, nil
}

// ReplaceDay swaps an employee's shifts on date for slots, e.g. when a
// template is applied. Every slot is checked against the window and against
// the other slots before anything is written, so the day is replaced
// completely or not at all.
func (s *ShiftService) ReplaceDay(ctx context.Context, employeeID, date string, slots []SlotInput) ([]*domain.Shift, int64, error) {
	pairs := []string{"employee_id", employeeID, "date", date}
	for i, slot := range slots {
		prefix := "slots[" + strconv.Itoa(i) + "]."
		pairs = append(pairs, prefix+"start_time", slot.StartTime, prefix+"end_time", slot.EndTime)
	}
	if err := requireFields(pairs...); err != nil {
		return nil, 0, err
	}
	if err := checkDate(date); err != nil {
		return nil, 0, err
	}

	by := actor.FromContext(ctx)

	release, err := s.lockDay(ctx, employeeID, date)
	if err != nil {
		return nil, 0, err
	}
	defer release()

	emp, w := s.windows.resolve(ctx, employeeID)

	planned := make([]domain.Shift, 0, len(slots))
	shifts := make([]*domain.Shift, 0, len(slots))
	for i, slot := range slots {
		iv, rejErr := validateTimes(slot.StartTime, slot.EndTime, w)
		if rejErr != nil {
			rejErr.Details["slot"] = strconv.Itoa(i)
			s.logRejected(rejErr, employeeID, date)
			return nil, 0, rejErr
		}

		if c := domain.FirstConflict(planned, iv, w, ""); c != nil {
			conflictErr := conflictError(c)
			conflictErr.Details["slot"] = strconv.Itoa(i)
			s.logRejected(conflictErr, employeeID, date)
			return nil, 0, conflictErr
		}

		shift := &domain.Shift{
			EmployeeID: employeeID,
			Date:       date,
			StartTime:  domain.NormalizeClock(slot.StartTime),
			EndTime:    domain.NormalizeClock(slot.EndTime),
			Approved:   by.IsPrivileged() && slot.Approved != nil && *slot.Approved,
			CreatedBy:  by.IDPtr(),
		}
		if emp != nil {
			shift.EmployeeCategoryTag = emp.CategoryTag
		}
		planned = append(planned, *shift)
		shifts = append(shifts, shift)
	}

	removed, err := s.shifts.ReplaceDay(ctx, employeeID, date, shifts)
	if err != nil {
		return nil, 0, err
	}

	s.publisher.PublishDayReplaced(ctx, employeeID, date, removed, shifts, by)

	s.logger.Info().
		Str("employee_id", employeeID).
		Str("date", date).
		Int64("removed", removed).
		Int("created", len(shifts)).
		Str("actor", by.String()).
		Msg("day replaced")

	return shifts, removed, nil
}

// Get returns one shift
func (s *ShiftService) Get(ctx context.Context, id string) (*domain.Shift, error) {
	return s.shifts.GetByID(ctx, id)
}

// List returns the shifts matching filter in store order
func (s *ShiftService) List(ctx context.Context, filter domain.ShiftFilter) ([]domain.Shift, error) {
	for field, date := range map[string]string{"date": filter.Date, "from": filter.From, "to": filter.To} {
		if date == "" {
			continue
		}
		if _, err := domain.ParseDate(date); err != nil {
			return nil, errors.Validation(map[string]string{field: "must be a date in YYYY-MM-DD form"})
		}
	}
	return s.shifts.Find(ctx, filter)
}

// BusinessWindow returns the window that applies to employeeID
func (s *ShiftService) BusinessWindow(ctx context.Context, employeeID string) domain.BusinessWindow {
	return s.windows.Resolve(ctx, employeeID)
}

// lockShift locks the day shift sits on and, when the update moves it, the
// target day as well, then re-reads the shift under those locks. A shift a
// concurrent update moved to another day in the meantime is locked again at
// its new place.
func (s *ShiftService) lockShift(ctx context.Context, shift *domain.Shift, target *string) (*domain.Shift, func(), error) {
	for attempt := 0; attempt < maxRelockAttempts; attempt++ {
		release, err := s.lockDays(ctx, shift.EmployeeID, shift.Date, valueOr(target, shift.Date))
		if err != nil {
			return nil, nil, err
		}

		current, err := s.shifts.GetByID(ctx, shift.ID)
		if err != nil {
			release()
			return nil, nil, err
		}
		if current.Date == shift.Date {
			return current, release, nil
		}

		release()
		shift = current
	}
	return nil, nil, errors.Busy(nil, "shift "+shift.ID+" is being moved by another change, try again")
}

// lockDays takes the day locks for dates in a fixed order so two writers
// needing the same pair of days cannot deadlock.
func (s *ShiftService) lockDays(ctx context.Context, employeeID string, dates ...string) (func(), error) {
	sort.Strings(dates)

	var releases []func()
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for i, date := range dates {
		if i > 0 && date == dates[i-1] {
			continue
		}
		release, err := s.lockDay(ctx, employeeID, date)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

func (s *ShiftService) lockDay(ctx context.Context, employeeID, date string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Lock(ctx, lock.DayKey(employeeID, date))
	if err != nil {
		s.logger.Warn().Err(err).
			Str("employee_id", employeeID).
			Str("date", date).
			Msg("schedule lock busy")
		return nil, errors.Busy(err, "another change to this employee's schedule on "+date+" is in progress, try again")
	}
	return release, nil
}

func (s *ShiftService) logRejected(err *errors.AppError, employeeID, date string) {
	s.logger.Debug().
		Str("code", err.Code).
		Str("employee_id", employeeID).
		Str("date", date).
		Interface("details", err.Details).
		Msg("shift rejected")
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
