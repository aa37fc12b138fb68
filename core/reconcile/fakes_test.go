package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// fakePlatform records every call in order.
type fakePlatform struct {
	mu      sync.Mutex
	orders  map[string]*TargetOrder
	findErr map[string]error
	failOn  map[Action]error
	panicOn string
	calls   []string
	paid    []decimal.Decimal
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		orders:  make(map[string]*TargetOrder),
		findErr: make(map[string]error),
		failOn:  make(map[Action]error),
	}
}

func (p *fakePlatform) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

func (p *fakePlatform) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePlatform) FindOrder(ctx context.Context, externalCode string) (*TargetOrder, error) {
	p.record("find:" + externalCode)
	if externalCode == p.panicOn {
		panic("boom")
	}
	if err, ok := p.findErr[externalCode]; ok {
		return nil, err
	}
	o, ok := p.orders[externalCode]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (p *fakePlatform) Pack(ctx context.Context, orderID string) error {
	p.record("pack:" + orderID)
	return p.failOn[ActionPack]
}

func (p *fakePlatform) Fulfill(ctx context.Context, orderID string) error {
	p.record("fulfill:" + orderID)
	return p.failOn[ActionFulfill]
}

func (p *fakePlatform) MarkPaid(ctx context.Context, orderID string, amount decimal.Decimal, happenedAt time.Time) error {
	p.record(fmt.Sprintf("paid:%s:%s", orderID, amount.String()))
	p.mu.Lock()
	p.paid = append(p.paid, amount)
	p.mu.Unlock()
	return p.failOn[ActionMarkPaid]
}

// memCache is an in-memory Cache that records Add calls.
type memCache struct {
	mu      sync.Mutex
	set     map[string]struct{}
	added   []string
	addErr  error
	loadErr error
}

func newMemCache(ids ...string) *memCache {
	c := &memCache{set: make(map[string]struct{})}
	for _, id := range ids {
		c.set[id] = struct{}{}
	}
	return c
}

func (c *memCache) Load() (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return copySet(c.set), nil
}

func (c *memCache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.set[id]
	return ok
}

func (c *memCache) Add(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addErr != nil {
		return c.addErr
	}
	c.set[id] = struct{}{}
	c.added = append(c.added, id)
	return nil
}

func (c *memCache) Added() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.added...)
}

// fakeSource serves a fixed listing.
type fakeSource struct {
	token     string
	orders    []SourceOrder
	loginErr  error
	listErr   error
	gotToken  string
	gotWindow Window
	listed    bool
}

func (s *fakeSource) Login(ctx context.Context) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.token, nil
}

func (s *fakeSource) ListOrders(ctx context.Context, token string, window Window) ([]SourceOrder, error) {
	s.listed = true
	s.gotToken = token
	s.gotWindow = window
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.orders, nil
}

var errBoom = errors.New("boom")
