package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/daniil11ru/truck-tracker/cli/tracker/metrics"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

var ErrStopped = errors.New("планировщик остановлен")

type Cycle interface {
	Run(ctx context.Context) ([]interface{}, error)
}

// Scheduler запускает циклы загрузки при старте, по расписанию и по запросу.
// Одновременно выполняется не больше одного цикла.
type Scheduler struct {
	cycle Cycle
	cron  *cron.Cron
	slot  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func New(cycle Cycle, cronExpression string) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cycle:  cycle,
		cron:   cron.New(),
		slot:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}

	if err := s.cron.AddFunc(cronExpression, func() { s.tick(metrics.TriggerSchedule) }); err != nil {
		cancel()
		return nil, fmt.Errorf("некорректное расписание %q: %w", cronExpression, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	go s.tick(metrics.TriggerStartup)
	s.cron.Start()
}

// Stop останавливает расписание, прерывает текущий цикл и ждет его завершения
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cron.Stop()
	s.cancel()
	s.wg.Wait()
}

// Trigger ждет освобождения слота и выполняет цикл. Ожидание ограничено ctx,
// сам цикл прерывается только остановкой планировщика.
func (s *Scheduler) Trigger(ctx context.Context) ([]interface{}, error) {
	if !s.begin() {
		return nil, ErrStopped
	}
	defer s.wg.Done()

	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		metrics.CyclesSkipped.WithLabelValues(metrics.TriggerOnDemand).Inc()
		return nil, fmt.Errorf("не дождались завершения текущего цикла: %w", ctx.Err())
	case <-s.ctx.Done():
		return nil, ErrStopped
	}
	defer func() { <-s.slot }()

	log.WithField("trigger", metrics.TriggerOnDemand).Info("Запуск цикла загрузки")
	return s.cycle.Run(s.ctx)
}

func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Scheduler) tick(trigger string) {
	if !s.begin() {
		return
	}
	defer s.wg.Done()

	logger := log.WithField("trigger", trigger)

	select {
	case s.slot <- struct{}{}:
	default:
		metrics.CyclesSkipped.WithLabelValues(trigger).Inc()
		logger.Warn("Предыдущий цикл загрузки еще выполняется, запуск пропущен")
		return
	}
	defer func() { <-s.slot }()

	logger.Info("Запуск цикла загрузки")
	if _, err := s.cycle.Run(s.ctx); err != nil {
		logger.WithField("err", err).Error("Цикл загрузки завершился с ошибкой")
	}
}
