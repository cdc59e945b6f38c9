package storage

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/daniil11ru/truck-tracker/cli/tracker/metrics"
	log "github.com/sirupsen/logrus"
)

var ErrBufferFull = errors.New("буфер внешних хранилищ заполнен, запись не передана")

type AsyncRepository struct {
	repo   Saver
	ch     chan interface{ ToBytes() ([]byte, error) }
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncRepository(repo Saver, buffer, workers int) *AsyncRepository {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ar := &AsyncRepository{
		repo: repo,
		ch:   make(chan interface{ ToBytes() ([]byte, error) }, buffer),
	}
	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}
	return ar
}

func (a *AsyncRepository) worker() {
	defer a.wg.Done()
	for msg := range a.ch {
		if err := a.repo.Save(msg); err != nil {
			log.WithField("err", err).Error("Ошибка дублирования записи во внешние хранилища")
		}
	}
}

// Save не блокируется: при заполненном буфере запись отбрасывается
func (a *AsyncRepository) Save(m interface{ ToBytes() ([]byte, error) }) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return fmt.Errorf("асинхронный репозиторий был закрыт")
	}
	select {
	case a.ch <- m:
		return nil
	default:
		metrics.MirrorDropped.Inc()
		return ErrBufferFull
	}
}

// Close дожидается записи уже принятых сообщений
func (a *AsyncRepository) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	a.wg.Wait()
}
