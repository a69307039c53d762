package nightscout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dribbe/glucomon/pkg/ebus"
	"github.com/dribbe/glucomon/pkg/glucose"
)

type PollerConfig struct {
	Client    *Client
	Interval  time.Duration
	OnMessage func(string)
}

// Poller periodically fetches the two newest entries, derives the delta
// and publishes the result on the bus.
type Poller struct {
	client    *Client
	interval  time.Duration
	onMessage func(string)
	cancel    context.CancelFunc
	g         *errgroup.Group
}

func NewPoller(cfg PollerConfig) *Poller {
	p := &Poller{
		client:    cfg.Client,
		interval:  cfg.Interval,
		onMessage: cfg.OnMessage,
	}
	if p.interval <= 0 {
		p.interval = time.Minute
	}
	if p.onMessage == nil {
		p.onMessage = func(string) {}
	}
	return p
}

func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.g, ctx = errgroup.WithContext(ctx)
	p.g.Go(func() error {
		return p.run(ctx)
	})
}

func (p *Poller) Stop() error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	err := p.g.Wait()
	p.cancel = nil
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *Poller) run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	entries, err := p.client.Entries(ctx, 2)
	if err != nil {
		if ctx.Err() == nil {
			p.onMessage(fmt.Sprintf("fetch failed: %v", err))
		}
		return
	}
	if len(entries) == 0 {
		p.onMessage("no entries")
		return
	}

	u := glucose.Update{Reading: entries[0].Reading()}
	if len(entries) > 1 {
		if d := Delta(entries[0], entries[1]); d != nil {
			u.Delta = d
		}
	}
	if err := ebus.Publish(ebus.TopicReading, u); err != nil {
		p.onMessage(fmt.Sprintf("publish failed: %v", err))
		return
	}
	if u.Reading.Value != nil {
		p.onMessage(fmt.Sprintf("reading %d mg/dL (%s)", *u.Reading.Value, u.Reading.Trend))
	} else {
		p.onMessage("reading without value")
	}
}

// Delta returns cur minus prev in mg/dL, or nil when either entry
// carries no value.
func Delta(cur, prev Entry) *int {
	c, pr := cur.Reading(), prev.Reading()
	if c.Value == nil || pr.Value == nil {
		return nil
	}
	d := *c.Value - *pr.Value
	return &d
}
