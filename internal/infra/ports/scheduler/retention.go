package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/usecase"
)

// RetentionScheduler периодически очищает директорию загрузок
type RetentionScheduler struct {
	cron      *cron.Cron
	recording usecase.RecordingUsecase
}

func NewRetentionScheduler(schedule string, recordingUsecase usecase.RecordingUsecase) (*RetentionScheduler, error) {
	logger := slogCronLogger{}

	s := &RetentionScheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		recording: recordingUsecase,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("parse retention schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *RetentionScheduler) Start() {
	s.cron.Start()
}

// Stop ждёт завершения запущенной очистки или отмены ctx
func (s *RetentionScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *RetentionScheduler) Run(ctx context.Context) {
	removed, err := s.recording.Sweep(ctx)
	if err != nil {
		slog.Error("retention sweep", slog.Any(constant.Error, err), slog.Int(constant.Count, removed))
	}
}

type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{constant.Error, err}, keysAndValues...)...)
}
