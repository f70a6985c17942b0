package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibarry/covoiturage/internal/domain"
	"github.com/ibarry/covoiturage/internal/repo"
)

// DefaultRetentionDays is how long archived statistics are kept, measured
// from the trip's departure time.
const DefaultRetentionDays = 240

// ArchiveReport summarizes one archival run.
type ArchiveReport struct {
	Archived int   `json:"archived"`
	Purged   int64 `json:"purged"`
}

// ArchiveService converts departed trips into immutable statistics and
// purges statistics past the retention window. Runs are idempotent: an
// archived trip no longer exists, so a second run right after the first
// archives nothing.
type ArchiveService struct {
	trips         repo.TripRepo
	stats         repo.StatisticRepo
	retentionDays int
	log           *slog.Logger

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewArchiveService constructs an ArchiveService. retentionDays <= 0
// falls back to DefaultRetentionDays.
func NewArchiveService(trips repo.TripRepo, stats repo.StatisticRepo, retentionDays int, log *slog.Logger) *ArchiveService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	if log == nil {
		log = slog.Default()
	}
	return &ArchiveService{
		trips:         trips,
		stats:         stats,
		retentionDays: retentionDays,
		log:           log,
		now:           time.Now,
	}
}

// Run executes both phases in order: archive every departed trip, then
// purge expired statistics.
//
// The archive phase is best-effort per record: a trip that fails to
// archive is logged and skipped so one bad row cannot block the rest of
// the sweep, and the first error is returned alongside the counts once
// the sweep completes. A trip that vanished mid-sweep (concurrent run or
// driver delete) is silently skipped — it is not an error.
func (s *ArchiveService) Run(ctx context.Context) (ArchiveReport, error) {
	now := s.now().UTC()
	var report ArchiveReport

	departed, err := s.trips.ListDeparted(ctx, now)
	if err != nil {
		return report, fmt.Errorf("service.ArchiveService.Run: %w", err)
	}

	var firstErr error
	for _, trip := range departed {
		stat := snapshotTrip(trip)
		if _, err := s.stats.Archive(ctx, trip.ID, stat); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			s.log.Error("archive trip failed", "trip_id", trip.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		report.Archived++
	}

	cutoff := now.AddDate(0, 0, -s.retentionDays)
	purged, err := s.stats.PurgeDepartedBefore(ctx, cutoff)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		s.log.Error("purge statistics failed", "cutoff", cutoff, "error", err)
	}
	report.Purged = purged

	if firstErr != nil {
		return report, fmt.Errorf("service.ArchiveService.Run: %w", firstErr)
	}
	return report, nil
}

// snapshotTrip derives the statistic written for an archived trip.
// seats_reserved is clamped at zero defensively — the DB constraint should
// make a negative value impossible, but a snapshot must never be wrong.
func snapshotTrip(trip domain.Trip) domain.TripStatistic {
	reserved := trip.SeatsTotal - trip.SeatsAvailable
	if reserved < 0 {
		reserved = 0
	}
	status := domain.StatusWithoutReservations
	if reserved > 0 {
		status = domain.StatusWithReservations
	}
	return domain.TripStatistic{
		DriverID:      trip.DriverID,
		Origin:        trip.Origin,
		Destination:   trip.Destination,
		Departure:     trip.Departure,
		SeatsTotal:    trip.SeatsTotal,
		SeatsReserved: reserved,
		Status:        status,
	}
}
