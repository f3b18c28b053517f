package workers

import (
	"context"
	"log"
	"time"

	"github.com/plantpoints/plant-points/internal/core/domain"
)

type LogRepository interface {
	ListSince(ctx context.Context, userID string, since time.Time) ([]domain.LoggedPlant, error)
}

type SnapshotRepository interface {
	Upsert(ctx context.Context, snap *domain.WeeklySnapshot) error
}

type SnapshotJob struct {
	UserID string
}

// SnapshotWorker keeps the user_streaks rollup current without blocking the
// write path: every log/remove enqueues the user and the worker recomputes
// the week's snapshot in the background.
type SnapshotWorker struct {
	logRepo  LogRepository
	snapRepo SnapshotRepository
	goal     int
	jobs     chan SnapshotJob
}

func NewSnapshotWorker(logRepo LogRepository, snapRepo SnapshotRepository, goal int) *SnapshotWorker {
	if goal <= 0 {
		goal = domain.DefaultWeeklyGoal
	}

	return &SnapshotWorker{
		logRepo:  logRepo,
		snapRepo: snapRepo,
		goal:     goal,
		jobs:     make(chan SnapshotJob, 100),
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Snapshot Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Snapshot Worker shutting down...")
				return
			}
		}
	}()
}

func (w *SnapshotWorker) Enqueue(userID string) {
	select {
	case w.jobs <- SnapshotJob{UserID: userID}:
	default:
		log.Printf("Snapshot Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *SnapshotWorker) processJob(ctx context.Context, job SnapshotJob) {
	window := domain.WeekWindowAt(time.Now())

	events, err := w.logRepo.ListSince(ctx, job.UserID, window.WeekStart)
	if err != nil {
		log.Printf("Worker Error fetching logs for user %s: %v", job.UserID, err)
		return
	}

	progress := domain.AggregateWeek(events, window.TodayStart)

	snap := &domain.WeeklySnapshot{
		UserID:       job.UserID,
		WeekStart:    window.WeekStart.UTC(),
		TotalPoints:  progress.TotalPoints,
		UniquePlants: progress.UniquePlants,
		GoalReached:  progress.UniquePlants >= w.goal,
	}

	if err := w.snapRepo.Upsert(ctx, snap); err != nil {
		log.Printf("Worker Failed to upsert snapshot for user %s: %v", job.UserID, err)
		return
	}

	log.Printf("Snapshot updated for user %s: Points=%d, Plants=%d, Goal=%t",
		job.UserID, snap.TotalPoints, snap.UniquePlants, snap.GoalReached)
}
