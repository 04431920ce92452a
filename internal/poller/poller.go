package poller

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval период обновления списка заказов в админке
const DefaultInterval = 30 * time.Second

// Poller вызывает fn сразу после Start и затем раз в interval.
// Медленный вызов не прерывается; следующий тик ждёт его окончания.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(interval time.Duration, fn func(ctx context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{interval: interval, fn: fn}
}

// Start запускает цикл; повторный Start при работающем цикле ничего не делает.
// Цикл, завершённый отменой родительского ctx, считается остановленным.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		select {
		case <-p.done:
			p.cancel()
		default:
			return
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fn(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}

// Stop останавливает цикл и ждёт его выхода. Можно вызывать повторно
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done закрывается, когда цикл завершился (в том числе по отмене ctx)
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return p.done
}
