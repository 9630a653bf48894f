package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/nameservice"
)

var errBackend = errors.New("backend unavailable")

// mockAPI implements nameservice.Client.
type mockAPI struct {
	calls  int
	result nameservice.Availability
	err    error
	panic  bool
}

func (m *mockAPI) Availability(_ context.Context, _ basename.CandidateName) (nameservice.Availability, error) {
	m.calls++
	if m.panic {
		panic("api exploded")
	}
	return m.result, m.err
}

// mockRegistrar implements chain.RegistrarReader.
type mockRegistrar struct {
	availableCalls int
	priceCalls     int
	available      bool
	availableErr   error
	price          basename.RentPrice
	priceErr       error
	lastDuration   *big.Int
}

func (m *mockRegistrar) Available(_ context.Context, _ basename.CandidateName) (bool, error) {
	m.availableCalls++
	return m.available, m.availableErr
}

func (m *mockRegistrar) RentPrice(_ context.Context, _ basename.CandidateName, duration *big.Int) (basename.RentPrice, error) {
	m.priceCalls++
	m.lastDuration = duration
	if m.priceErr != nil {
		return basename.RentPrice{}, m.priceErr
	}
	return m.price, nil
}

// mockRegistry implements chain.RegistryReader.
type mockRegistry struct {
	calls    int
	owner    string
	err      error
	lastNode basename.Node
}

func (m *mockRegistry) Owner(_ context.Context, node basename.Node) (string, error) {
	m.calls++
	m.lastNode = node
	return m.owner, m.err
}

// mockWallet implements chain.Wallet.
type mockWallet struct {
	address string
	calls   int
	txHash  string
	err     error
	last    basename.RegisterRequest
}

func (m *mockWallet) Address() string { return m.address }

func (m *mockWallet) Register(_ context.Context, req basename.RegisterRequest) (string, error) {
	m.calls++
	m.last = req
	return m.txHash, m.err
}

// mockStore implements database.Store.
type mockStore struct {
	saved   []basename.Registration
	saveErr error
	listed  string
}

func (m *mockStore) SaveRegistration(_ context.Context, r *basename.Registration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *r)
	return nil
}

func (m *mockStore) ListRegistrations(_ context.Context, owner string) ([]basename.Registration, error) {
	m.listed = owner
	return m.saved, nil
}

type published struct {
	subject string
	data    []byte
}

// mockQueue implements messagequeue.Publisher.
type mockQueue struct {
	msgs []published
	err  error
}

func (m *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, published{subject: subject, data: data})
	return nil
}

// mockHub implements broadcast.Broadcaster.
type mockHub struct {
	events []string
}

func (m *mockHub) BroadcastEvent(_ context.Context, eventType string, _ any) {
	m.events = append(m.events, eventType)
}

// mapCache implements cache.Cache over a plain map.
type mapCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
