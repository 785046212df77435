// Package memory is an in-process implementation of storage.IStorage. It backs
// STORAGE_DRIVER=memory for local runs and the flow tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"storebot/pkg/models"
	"storebot/storage"
)

type state struct {
	seq          int64
	users        map[int64]models.User
	products     map[int64]models.Product
	sellers      map[int64]models.Seller
	codes        map[int64]models.ReferralCode
	orders       map[int64]models.Order
	files        map[int64]models.File
	orderFiles   map[int64][]int64
	lotteries    map[int64]models.Lottery
	participants map[int64]models.LotteryParticipant
	crm          map[int64]models.CRMRequest
	coops        map[int64]models.Cooperation
}

func newState() *state {
	return &state{
		users:        make(map[int64]models.User),
		products:     make(map[int64]models.Product),
		sellers:      make(map[int64]models.Seller),
		codes:        make(map[int64]models.ReferralCode),
		orders:       make(map[int64]models.Order),
		files:        make(map[int64]models.File),
		orderFiles:   make(map[int64][]int64),
		lotteries:    make(map[int64]models.Lottery),
		participants: make(map[int64]models.LotteryParticipant),
		crm:          make(map[int64]models.CRMRequest),
		coops:        make(map[int64]models.Cooperation),
	}
}

// clone copies every table. Pointer fields inside rows are shared, which is
// safe because rows are replaced, never mutated through those pointers.
func (st *state) clone() *state {
	c := &state{
		seq:          st.seq,
		users:        maps.Clone(st.users),
		products:     maps.Clone(st.products),
		sellers:      maps.Clone(st.sellers),
		codes:        maps.Clone(st.codes),
		orders:       maps.Clone(st.orders),
		files:        maps.Clone(st.files),
		orderFiles:   make(map[int64][]int64, len(st.orderFiles)),
		lotteries:    maps.Clone(st.lotteries),
		participants: maps.Clone(st.participants),
		crm:          maps.Clone(st.crm),
		coops:        maps.Clone(st.coops),
	}
	for k, v := range st.orderFiles {
		c.orderFiles[k] = slices.Clone(v)
	}
	return c
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

type Store struct {
	mu   *sync.Mutex
	st   *state
	inTx bool
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, st: newState()}
}

// lock is a no-op inside WithTx, which already holds the mutex.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithTx serializes transactions and restores a snapshot when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&Store{mu: s.mu, st: s.st, inTx: true}); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}
func (s *Store) GetPool() *pgxpool.Pool     { return nil }

func (s *Store) User() storage.IUserStorage               { return userRepo{s} }
func (s *Store) Product() storage.IProductStorage         { return productRepo{s} }
func (s *Store) Referral() storage.IReferralStorage       { return referralRepo{s} }
func (s *Store) Order() storage.IOrderStorage             { return orderRepo{s} }
func (s *Store) File() storage.IFileStorage               { return fileRepo{s} }
func (s *Store) Lottery() storage.ILotteryStorage         { return lotteryRepo{s} }
func (s *Store) CRM() storage.ICRMStorage                 { return crmRepo{s} }
func (s *Store) Cooperation() storage.ICooperationStorage { return cooperationRepo{s} }

// Counts reports table sizes, for assertions in tests.
type Counts struct {
	Users, Orders, Files, OrderFiles, Participants, CRM, Cooperations int
}

func (s *Store) Counts() Counts {
	defer s.lock()()
	links := 0
	for _, ids := range s.st.orderFiles {
		links += len(ids)
	}
	return Counts{
		Users:        len(s.st.users),
		Orders:       len(s.st.orders),
		Files:        len(s.st.files),
		OrderFiles:   links,
		Participants: len(s.st.participants),
		CRM:          len(s.st.crm),
		Cooperations: len(s.st.coops),
	}
}

func sortedKeys[V any](m map[int64]V) []int64 {
	var keys []int64
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
