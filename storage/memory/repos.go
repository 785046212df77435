package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"storebot/pkg/models"
	"storebot/storage"
)

type userRepo struct{ s *Store }

func (r userRepo) findBy(match func(models.User) bool) *models.User {
	for _, id := range sortedKeys(r.s.st.users) {
		if u := r.s.st.users[id]; match(u) {
			return &u
		}
	}
	return nil
}

func (r userRepo) GetOrCreate(_ context.Context, teleID int64, username string) (*models.User, error) {
	defer r.s.lock()()
	now := time.Now()
	if u := r.findBy(func(u models.User) bool { return u.TelegramID == teleID }); u != nil {
		u.Username = username
		u.UpdatedAt = now
		r.s.st.users[u.ID] = *u
		return u, nil
	}
	u := models.User{ID: r.s.st.nextID(), TelegramID: teleID, Username: username, CreatedAt: now, UpdatedAt: now}
	r.s.st.users[u.ID] = u
	return &u, nil
}

func (r userRepo) Get(_ context.Context, teleID int64) (*models.User, error) {
	defer r.s.lock()()
	return r.findBy(func(u models.User) bool { return u.TelegramID == teleID }), nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	if u, ok := r.s.st.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	defer r.s.lock()()
	return r.findBy(func(u models.User) bool { return u.Phone != nil && *u.Phone == phone }), nil
}

func (r userRepo) GetByNationalID(_ context.Context, nationalID string) (*models.User, error) {
	defer r.s.lock()()
	return r.findBy(func(u models.User) bool { return u.NationalID != nil && *u.NationalID == nationalID }), nil
}

func (r userRepo) Approve(_ context.Context, reg models.Registration) (*models.User, error) {
	defer r.s.lock()()
	other := func(u models.User) bool { return u.TelegramID != reg.TelegramID }
	if r.findBy(func(u models.User) bool { return other(u) && u.Phone != nil && *u.Phone == reg.Phone }) != nil {
		return nil, storage.ErrPhoneTaken
	}
	if r.findBy(func(u models.User) bool { return other(u) && u.NationalID != nil && *u.NationalID == reg.NationalID }) != nil {
		return nil, storage.ErrNationalIDTaken
	}

	now := time.Now()
	u := r.findBy(func(u models.User) bool { return u.TelegramID == reg.TelegramID })
	if u == nil {
		u = &models.User{ID: r.s.st.nextID(), TelegramID: reg.TelegramID, CreatedAt: now}
	}
	u.Username = reg.Username
	u.FullName = &reg.FullName
	u.City = &reg.City
	u.Area = &reg.Area
	u.NationalID = &reg.NationalID
	u.Phone = &reg.Phone
	u.Approved = true
	if u.ApprovedAt == nil {
		u.ApprovedAt = &now
	}
	u.UpdatedAt = now
	r.s.st.users[u.ID] = *u
	return u, nil
}

func (r userRepo) CountApproved(context.Context) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, u := range r.s.st.users {
		if u.Approved {
			n++
		}
	}
	return n, nil
}

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id int64) (*models.Product, error) {
	defer r.s.lock()()
	if p, ok := r.s.st.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetByName(_ context.Context, name string) (*models.Product, error) {
	defer r.s.lock()()
	for _, p := range r.s.st.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Find(_ context.Context, f models.ProductFilter) ([]*models.Product, error) {
	defer r.s.lock()()
	var out []*models.Product
	for _, id := range sortedKeys(r.s.st.products) {
		p := r.s.st.products[id]
		if p.Grade != f.Grade || (f.ActiveOnly && !p.IsActive) {
			continue
		}
		if f.Major != nil && (p.Major == nil || *p.Major != *f.Major) {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r productRepo) Upsert(_ context.Context, p *models.Product) (*models.Product, error) {
	defer r.s.lock()()
	now := time.Now()
	out := *p
	out.ID = 0
	for _, existing := range r.s.st.products {
		if existing.Name == p.Name {
			out.ID, out.CreatedAt = existing.ID, existing.CreatedAt
		}
	}
	if out.ID == 0 {
		out.ID, out.CreatedAt = r.s.st.nextID(), now
	}
	out.UpdatedAt = now
	r.s.st.products[out.ID] = out
	return &out, nil
}

type referralRepo struct{ s *Store }

func (r referralRepo) GetByCode(_ context.Context, code string) (*models.ReferralCode, error) {
	defer r.s.lock()()
	for _, c := range r.s.st.codes {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r referralRepo) GetSeller(_ context.Context, id int64) (*models.Seller, error) {
	defer r.s.lock()()
	if s, ok := r.s.st.sellers[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r referralRepo) UpsertSeller(_ context.Context, s *models.Seller) (*models.Seller, error) {
	defer r.s.lock()()
	out := *s
	out.ID = 0
	for _, existing := range r.s.st.sellers {
		if existing.Name == s.Name {
			out.ID, out.CreatedAt = existing.ID, existing.CreatedAt
		}
	}
	if out.ID == 0 {
		out.ID, out.CreatedAt = r.s.st.nextID(), time.Now()
	}
	r.s.st.sellers[out.ID] = out
	return &out, nil
}

func (r referralRepo) UpsertCode(_ context.Context, c *models.ReferralCode) (*models.ReferralCode, error) {
	defer r.s.lock()()
	if _, ok := r.s.st.sellers[c.OwnerID]; !ok {
		return nil, fmt.Errorf("seller %d does not exist", c.OwnerID)
	}
	out := *c
	out.ID = 0
	out.Code = strings.ToLower(c.Code)
	for _, existing := range r.s.st.codes {
		if existing.Code == out.Code {
			out.ID, out.CreatedAt, out.CurrentUsage = existing.ID, existing.CreatedAt, existing.CurrentUsage
		}
	}
	if out.ID == 0 {
		out.ID, out.CreatedAt = r.s.st.nextID(), time.Now()
	}
	r.s.st.codes[out.ID] = out
	return &out, nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	defer r.s.lock()()
	if _, ok := r.s.st.users[order.UserID]; !ok {
		return nil, fmt.Errorf("user %d does not exist", order.UserID)
	}
	p, ok := r.s.st.products[order.ProductID]
	if !ok {
		return nil, fmt.Errorf("product %d does not exist", order.ProductID)
	}
	if !order.Installment && (order.SecondInstallment != nil || order.ThirdInstallment != nil) {
		return nil, fmt.Errorf("cash order with installment timestamps")
	}

	now := time.Now()
	out := *order
	out.ID = r.s.st.nextID()
	out.ProductName = p.Name
	out.CreatedAt, out.UpdatedAt = now, now
	r.s.st.orders[out.ID] = out
	return &out, nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	defer r.s.lock()()
	if o, ok := r.s.st.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r orderRepo) Find(_ context.Context, f models.OrderFilter) ([]*models.Order, error) {
	defer r.s.lock()()
	var out []*models.Order
	ids := sortedKeys(r.s.st.orders)
	slices.Reverse(ids)
	for _, id := range ids {
		o := r.s.st.orders[id]
		if o.UserID != f.UserID || (f.Installment != nil && o.Installment != *f.Installment) {
			continue
		}
		out = append(out, &o)
	}
	return out, nil
}

func (r orderRepo) AttachReceipt(_ context.Context, orderID, fileID int64) error {
	defer r.s.lock()()
	if _, ok := r.s.st.orders[orderID]; !ok {
		return fmt.Errorf("order %d does not exist", orderID)
	}
	if _, ok := r.s.st.files[fileID]; !ok {
		return fmt.Errorf("file %d does not exist", fileID)
	}
	if !slices.Contains(r.s.st.orderFiles[orderID], fileID) {
		r.s.st.orderFiles[orderID] = append(r.s.st.orderFiles[orderID], fileID)
	}
	return nil
}

func (r orderRepo) ReceiptIDs(_ context.Context, orderID int64) ([]int64, error) {
	defer r.s.lock()()
	ids := slices.Clone(r.s.st.orderFiles[orderID])
	slices.Sort(ids)
	return ids, nil
}

func (r orderRepo) MarkInstallment(_ context.Context, orderID int64, slot int, at time.Time) error {
	defer r.s.lock()()
	if slot < 1 || slot > models.InstallmentSlots {
		return fmt.Errorf("installment slot %d out of range", slot)
	}
	o, ok := r.s.st.orders[orderID]
	if !ok || !o.Installment {
		return storage.ErrNotFound
	}
	o.SetSlot(slot, at)
	o.UpdatedAt = time.Now()
	r.s.st.orders[orderID] = o
	return nil
}

func (r orderRepo) CountByStatus(_ context.Context, status models.OrderStatus) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, o := range r.s.st.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r orderRepo) CountUnpaidSlots(context.Context) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, o := range r.s.st.orders {
		if o.Installment && o.Status != models.OrderRejected {
			n += models.InstallmentSlots - o.PaidSlots()
		}
	}
	return n, nil
}

type fileRepo struct{ s *Store }

func (r fileRepo) Create(_ context.Context, file *models.File) (*models.File, error) {
	defer r.s.lock()()
	out := *file
	out.ID = r.s.st.nextID()
	out.CreatedAt = time.Now()
	r.s.st.files[out.ID] = out
	return &out, nil
}

func (r fileRepo) GetByID(_ context.Context, id int64) (*models.File, error) {
	defer r.s.lock()()
	if f, ok := r.s.st.files[id]; ok {
		return &f, nil
	}
	return nil, nil
}

type lotteryRepo struct{ s *Store }

func (r lotteryRepo) GetByID(_ context.Context, id int64) (*models.Lottery, error) {
	defer r.s.lock()()
	if l, ok := r.s.st.lotteries[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r lotteryRepo) GetByName(_ context.Context, name string) (*models.Lottery, error) {
	defer r.s.lock()()
	for _, l := range r.s.st.lotteries {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, nil
}

func (r lotteryRepo) GetActive(context.Context) ([]*models.Lottery, error) {
	defer r.s.lock()()
	var out []*models.Lottery
	for _, id := range sortedKeys(r.s.st.lotteries) {
		if l := r.s.st.lotteries[id]; l.IsActive && !l.IsDrawn {
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r lotteryRepo) Upsert(_ context.Context, l *models.Lottery) (*models.Lottery, error) {
	defer r.s.lock()()
	out := *l
	out.ID = 0
	for _, existing := range r.s.st.lotteries {
		if existing.Name == l.Name {
			out.ID, out.CreatedAt, out.IsDrawn = existing.ID, existing.CreatedAt, existing.IsDrawn
		}
	}
	if out.ID == 0 {
		out.ID, out.CreatedAt = r.s.st.nextID(), time.Now()
	}
	r.s.st.lotteries[out.ID] = out
	return &out, nil
}

func (r lotteryRepo) IsParticipant(_ context.Context, teleID, lotteryID int64) (bool, error) {
	defer r.s.lock()()
	for _, p := range r.s.st.participants {
		if p.TelegramID == teleID && p.LotteryID == lotteryID {
			return true, nil
		}
	}
	return false, nil
}

func (r lotteryRepo) CountParticipants(_ context.Context, lotteryID int64) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, p := range r.s.st.participants {
		if p.LotteryID == lotteryID {
			n++
		}
	}
	return n, nil
}

func (r lotteryRepo) AddParticipant(_ context.Context, p *models.LotteryParticipant) (*models.LotteryParticipant, error) {
	defer r.s.lock()()
	if _, ok := r.s.st.lotteries[p.LotteryID]; !ok {
		return nil, fmt.Errorf("lottery %d does not exist", p.LotteryID)
	}
	for _, existing := range r.s.st.participants {
		if existing.TelegramID == p.TelegramID && existing.LotteryID == p.LotteryID {
			return nil, storage.ErrAlreadyParticipant
		}
	}
	out := *p
	out.ID = r.s.st.nextID()
	out.CreatedAt = time.Now()
	r.s.st.participants[out.ID] = out
	return &out, nil
}

type crmRepo struct{ s *Store }

func (r crmRepo) Upsert(_ context.Context, phone string) (*models.CRMRequest, bool, error) {
	defer r.s.lock()()
	now := time.Now()
	for id, req := range r.s.st.crm {
		if req.Phone == phone {
			req.Called, req.Notes, req.Priority, req.UpdatedAt = false, nil, 1, now
			r.s.st.crm[id] = req
			return &req, false, nil
		}
	}
	req := models.CRMRequest{ID: r.s.st.nextID(), Phone: phone, Priority: 1, CreatedAt: now, UpdatedAt: now}
	r.s.st.crm[req.ID] = req
	return &req, true, nil
}

func (r crmRepo) CountUncalled(context.Context) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, req := range r.s.st.crm {
		if !req.Called {
			n++
		}
	}
	return n, nil
}

// MarkCalled is used by tests to simulate an operator working a request.
func (s *Store) MarkCalled(phone string, notes string) {
	defer s.lock()()
	for id, req := range s.st.crm {
		if req.Phone == phone {
			req.Called, req.Notes, req.Priority = true, &notes, 3
			s.st.crm[id] = req
		}
	}
}

type cooperationRepo struct{ s *Store }

func (r cooperationRepo) Upsert(_ context.Context, c *models.Cooperation) (*models.Cooperation, bool, error) {
	defer r.s.lock()()
	now := time.Now()
	out := *c
	out.Status = models.CooperationPending
	out.UpdatedAt = now
	for id, existing := range r.s.st.coops {
		if existing.TelegramID == c.TelegramID {
			out.ID, out.CreatedAt = id, existing.CreatedAt
			r.s.st.coops[id] = out
			return &out, false, nil
		}
	}
	out.ID, out.CreatedAt = r.s.st.nextID(), now
	r.s.st.coops[out.ID] = out
	return &out, true, nil
}

func (r cooperationRepo) CountByStatus(_ context.Context, status models.CooperationStatus) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, c := range r.s.st.coops {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

// SetCooperationStatus is used by tests to simulate an admin review.
func (s *Store) SetCooperationStatus(teleID int64, status models.CooperationStatus) {
	defer s.lock()()
	for id, c := range s.st.coops {
		if c.TelegramID == teleID {
			c.Status = status
			s.st.coops[id] = c
		}
	}
}
