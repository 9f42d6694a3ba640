package df

import (
	"context"
	"sync"

	"dfinspect/internal/model"
)

// memTrendStore is an in-memory TrendStore for tests.
type memTrendStore struct {
	mu     sync.Mutex
	states map[string]TrendState
	locks  map[string]*sync.Mutex
	err    error
}

func newMemTrendStore() *memTrendStore {
	return &memTrendStore{
		states: make(map[string]TrendState),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *memTrendStore) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *memTrendStore) Load(_ context.Context, key string) (TrendState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return TrendState{}, false, s.err
	}
	st, ok := s.states[key]
	return st, ok, nil
}

func (s *memTrendStore) Save(_ context.Context, key string, st TrendState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.states[key] = st
	return nil
}

// kb converts a df-style kilobyte count into MB.
func kb(v float64) float64 {
	return v / 1024
}

// createTestParams mirrors the parameters used by the reference dataset.
func createTestParams() Params {
	return DefaultParams()
}

// createRootRecord is the "/" filesystem of the reference dataset.
func createRootRecord() model.FilesystemRecord {
	return model.FilesystemRecord{
		Device:     "/dev/sda4",
		Mountpoint: "/",
		FSType:     "ext4",
		SizeMB:     kb(143786696),
		AvailMB:    kb(34814148),
		Inodes:     &model.Inodes{Total: 9142272, Avail: 7488000},
	}
}

func createGroupRecords() []model.FilesystemRecord {
	return []model.FilesystemRecord{
		{Device: "/dev/sda1", Mountpoint: "/", FSType: "ext4", SizeMB: kb(100), AvailMB: kb(10)},
		{Device: "/dev/sda2", Mountpoint: "/foo", FSType: "ext4", SizeMB: kb(110), AvailMB: kb(11)},
		{Device: "/dev/sda3", Mountpoint: "/bar", FSType: "ext4", SizeMB: kb(120), AvailMB: kb(12)},
		{Device: "/dev/sdb1", Mountpoint: "btrfs /dev/sdb1", FSType: "btrfs", SizeMB: kb(130), AvailMB: kb(13)},
	}
}
