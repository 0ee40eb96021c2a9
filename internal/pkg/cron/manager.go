package cron

import (
	"Gazette/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	cleanupSpec     string
	mediaCleanupJob *job.MediaCleanupJob
}

func NewCronManager(cleanupSpec string, mediaCleanupJob *job.MediaCleanupJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger{}))),
		cleanupSpec:     cleanupSpec,
		mediaCleanupJob: mediaCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if s.mediaCleanupJob == nil {
		return nil
	}
	if _, err := s.engine.AddJob(s.cleanupSpec, cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(s.mediaCleanupJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待正在运行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// cronLogger 将 cron 内部日志接入 slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error(msg, append(keysAndValues, "err", err)...)
}
