// Пакет для управления периодическими задачами сервиса (очистка истекших сессий редактирования и т.п.).
package cronmanager

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/robfig/cron/v3"
)

type CronJobFunc func()

type Job struct {
	Func     CronJobFunc
	Schedule string
}

type JobRegistry map[string]Job

type CronManager struct {
	dispatcher  *cron.Cron
	jobs        map[string]cron.EntryID
	mu          sync.Mutex
	jobRegistry JobRegistry
}

// NewCronManager создает менеджер задач. Паника внутри задачи не роняет процесс.
func NewCronManager(jobRegistry JobRegistry) *CronManager {
	dispatcher := cron.New(
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	return &CronManager{
		dispatcher:  dispatcher,
		jobs:        make(map[string]cron.EntryID),
		jobRegistry: jobRegistry,
	}
}

// LoadJobs пересоздает расписание по реестру. Задачи с некорректным расписанием пропускаются,
// ошибка возвращается по первой из них.
func (cm *CronManager) LoadJobs() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for name, entryID := range cm.jobs {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}

	var firstErr error
	for name, job := range cm.jobRegistry {
		if err := cm.addJob(name, job); err != nil {
			slog.Error("Error adding job", "name", name, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (cm *CronManager) addJob(name string, job Job) error {
	if job.Func == nil {
		return fmt.Errorf("no job function registered for name: %s", name)
	}

	id, err := cm.dispatcher.AddFunc(job.Schedule, job.Func)
	if err != nil {
		return fmt.Errorf("add job '%s': %w", name, err)
	}
	cm.jobs[name] = id
	return nil
}

// Scheduled возвращает отсортированные имена задач, стоящих в расписании.
func (cm *CronManager) Scheduled() []string {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return slices.Sorted(maps.Keys(cm.jobs))
}

func (cm *CronManager) Start() {
	cm.dispatcher.Start()
}

// Stop останавливает диспетчер и ждет завершения выполняющихся задач.
func (cm *CronManager) Stop() {
	ctx := cm.dispatcher.Stop()
	<-ctx.Done()
}
