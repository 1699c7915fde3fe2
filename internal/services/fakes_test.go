package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"rolevend/internal/gateway/qpay"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	"rolevend/pkg/utils"
)

// In-memory repository implementations so services can be exercised
// without a database.

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*db_models.Plan
	gone  map[uuid.UUID]bool
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans: make(map[uuid.UUID]*db_models.Plan),
		gone:  make(map[uuid.UUID]bool),
	}
}

func (f *fakePlanRepo) Create(_ context.Context, plan *db_models.Plan) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	cp := *plan
	f.plans[plan.ID] = &cp
	return plan.ID, nil
}

func (f *fakePlanRepo) Update(_ context.Context, plan *db_models.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[plan.ID]; !ok {
		return fmt.Errorf("plan %s not found", plan.ID)
	}
	cp := *plan
	f.plans[plan.ID] = &cp
	return nil
}

func (f *fakePlanRepo) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok || f.gone[id] {
		return false, nil
	}
	f.gone[id] = true
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return true, nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, id string) (*db_models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	if f.gone[uid] {
		return nil, nil
	}
	if p, ok := f.plans[uid]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePlanRepo) GetByIDUnscoped(_ context.Context, id string) (*db_models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	if p, ok := f.plans[uid]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePlanRepo) ListByGuild(_ context.Context, guildID string, includeInactive bool) ([]db_models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Plan
	for id, p := range f.plans {
		if f.gone[id] || p.GuildID != guildID {
			continue
		}
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

type fakeMembershipRepo struct {
	mu   sync.Mutex
	rows []*db_models.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo { return &fakeMembershipRepo{} }

func (f *fakeMembershipRepo) find(guildID, userID string, planID uuid.UUID) *db_models.Membership {
	for _, m := range f.rows {
		if m.GuildID == guildID && m.UserID == userID && m.PlanID == planID {
			return m
		}
	}
	return nil
}

func (f *fakeMembershipRepo) Upsert(_ context.Context, guildID, userID string, planID uuid.UUID, lastPaymentID string, accessEndsAt int64) (*db_models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.find(guildID, userID, planID)
	if m == nil {
		m = &db_models.Membership{
			BaseModel: db_models.BaseModel{ID: uuid.New()},
			GuildID:   guildID,
			UserID:    userID,
			PlanID:    planID,
		}
		f.rows = append(f.rows, m)
	}
	m.Active = true
	m.AccessEndsAt = accessEndsAt
	m.LastPaymentID = lastPaymentID
	cp := *m
	return &cp, nil
}

func (f *fakeMembershipRepo) GetByKey(_ context.Context, guildID, userID string, planID uuid.UUID) (*db_models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m := f.find(guildID, userID, planID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMembershipRepo) ListActiveByUser(_ context.Context, guildID, userID string) ([]db_models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Membership
	for _, m := range f.rows {
		if m.GuildID == guildID && m.UserID == userID && m.Active {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListActiveByGuild(_ context.Context, guildID string) ([]db_models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Membership
	for _, m := range f.rows {
		if m.GuildID == guildID && m.Active {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) ListExpired(_ context.Context, now int64) ([]db_models.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Membership
	for _, m := range f.rows {
		if m.Active && m.AccessEndsAt <= now {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) CountActiveByGuild(_ context.Context, guildID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := map[string]bool{}
	for _, m := range f.rows {
		if m.GuildID == guildID && m.Active {
			users[m.UserID] = true
		}
	}
	return int64(len(users)), nil
}

func (f *fakeMembershipRepo) Deactivate(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id && m.Active {
			m.Active = false
			return true, nil
		}
	}
	return false, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*db_models.Subscription
	// debits records payouts written through RenewWithDebit so tests can
	// assert atomic bookkeeping.
	debits []*db_models.Payout
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*db_models.Subscription)}
}

func (f *fakeSubscriptionRepo) GetByGuild(_ context.Context, guildID string) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[guildID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) Upsert(_ context.Context, guildID, planName string, amountMNT int64, invoiceID, adminUserID string) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[guildID]
	if !ok {
		s = &db_models.Subscription{
			BaseModel: db_models.BaseModel{ID: uuid.New()},
			GuildID:   guildID,
		}
		f.subs[guildID] = s
	}
	s.PlanName = planName
	s.AmountMNT = amountMNT
	s.InvoiceID = invoiceID
	s.AdminUserID = adminUserID
	s.Status = db_models.SubStatusPending
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptionRepo) extend(guildID string, days int, now int64) *db_models.Subscription {
	s, ok := f.subs[guildID]
	if !ok {
		return nil
	}
	s.Status = db_models.SubStatusActive
	s.ExpiresAt = utils.ExtendFromUnix(now, s.ExpiresAt, days)
	s.RenewalWarnedAt = nil
	cp := *s
	return &cp
}

func (f *fakeSubscriptionRepo) Activate(_ context.Context, guildID string, days int, now int64) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extend(guildID, days, now), nil
}

func (f *fakeSubscriptionRepo) RenewWithDebit(_ context.Context, guildID, adminUserID string, days int, now int64, debit *db_models.Payout) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.extend(guildID, days, now)
	if s == nil {
		return nil, nil
	}
	if adminUserID != "" {
		f.subs[guildID].AdminUserID = adminUserID
		s.AdminUserID = adminUserID
	}
	f.debits = append(f.debits, debit)
	return s, nil
}

func (f *fakeSubscriptionRepo) ListExpired(_ context.Context, now int64) ([]db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Subscription
	for _, s := range f.subs {
		if s.Status == db_models.SubStatusActive && s.ExpiresAt <= now {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) MarkExpired(_ context.Context, guildID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[guildID]
	if !ok || s.Status != db_models.SubStatusActive {
		return false, nil
	}
	s.Status = db_models.SubStatusExpired
	s.RenewalWarnedAt = nil
	return true, nil
}

func (f *fakeSubscriptionRepo) ListUnwarnedExpiring(_ context.Context, now, until int64) ([]db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Subscription
	for _, s := range f.subs {
		if s.Status == db_models.SubStatusActive && s.ExpiresAt > now && s.ExpiresAt <= until && s.RenewalWarnedAt == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) SetRenewalWarned(_ context.Context, guildID string, at int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[guildID]; ok {
		s.RenewalWarnedAt = &at
	}
	return nil
}

func (f *fakeSubscriptionRepo) ListActive(_ context.Context) ([]db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Subscription
	for _, s := range f.subs {
		if s.Status == db_models.SubStatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) CountByStatus(_ context.Context, status db_models.SubscriptionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePayoutRepo struct {
	mu   sync.Mutex
	rows []*db_models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo { return &fakePayoutRepo{} }

func (f *fakePayoutRepo) Create(_ context.Context, payout *db_models.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	cp := *payout
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePayoutRepo) GetByID(_ context.Context, id uuid.UUID) (*db_models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePayoutRepo) ListByGuild(_ context.Context, guildID string) ([]db_models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Payout
	for _, p := range f.rows {
		if p.GuildID == guildID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) ListPending(_ context.Context) ([]db_models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Payout
	for _, p := range f.rows {
		if p.Status == db_models.PayoutStatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) SumDoneNet(_ context.Context, guildID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, p := range f.rows {
		if p.GuildID == guildID && p.Status == db_models.PayoutStatusDone {
			total += p.NetMNT
		}
	}
	return total, nil
}

func (f *fakePayoutRepo) MarkDone(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id && p.Status == db_models.PayoutStatusPending {
			p.Status = db_models.PayoutStatusDone
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayoutRepo) CountDone(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.rows {
		if p.Status == db_models.PayoutStatusDone {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	mu   sync.Mutex
	rows map[string]*db_models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: make(map[string]*db_models.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *db_models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	cp := *payment
	f.rows[payment.InvoiceID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByInvoiceID(_ context.Context, invoiceID string) (*db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[invoiceID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) ListPending(_ context.Context) ([]db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Payment
	for _, p := range f.rows {
		if p.Status == db_models.PaymentStatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListPendingByUser(_ context.Context, guildID, userID string) ([]db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Payment
	for _, p := range f.rows {
		if p.GuildID == guildID && p.UserID == userID && p.Status == db_models.PaymentStatusPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ConfirmPaid(_ context.Context, invoiceID string, paidAt int64) (*db_models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[invoiceID]
	if !ok {
		return nil, false, nil
	}
	if p.Status == db_models.PaymentStatusPaid {
		cp := *p
		return &cp, false, nil
	}
	p.Status = db_models.PaymentStatusPaid
	p.PaidAt = &paidAt
	cp := *p
	return &cp, true, nil
}

type fakeGuildRepo struct {
	mu      sync.Mutex
	users   map[string]string
	configs map[string]*db_models.GuildConfig
	manager map[string]*db_models.ManagerRole
}

func newFakeGuildRepo() *fakeGuildRepo {
	return &fakeGuildRepo{
		users:   make(map[string]string),
		configs: make(map[string]*db_models.GuildConfig),
		manager: make(map[string]*db_models.ManagerRole),
	}
}

func (f *fakeGuildRepo) GetManagerRole(_ context.Context, guildID string) (*db_models.ManagerRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manager[guildID], nil
}

func (f *fakeGuildRepo) SetManagerRole(_ context.Context, guildID, roleID, roleName string) (*db_models.ManagerRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mr := &db_models.ManagerRole{GuildID: guildID, RoleID: roleID, RoleName: roleName}
	f.manager[guildID] = mr
	return mr, nil
}

func (f *fakeGuildRepo) ClearManagerRole(_ context.Context, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.manager, guildID)
	return nil
}

func (f *fakeGuildRepo) GetConfig(_ context.Context, guildID string) (*db_models.GuildConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configs[guildID], nil
}

func (f *fakeGuildRepo) SetSalesChannel(_ context.Context, guildID, channelID string) (*db_models.GuildConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg := &db_models.GuildConfig{GuildID: guildID, SalesChannelID: channelID}
	f.configs[guildID] = cfg
	return cfg, nil
}

func (f *fakeGuildRepo) UpsertUser(_ context.Context, guildID, userID, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[guildID+"/"+userID] = username
	return nil
}

func (f *fakeGuildRepo) GetUser(_ context.Context, guildID, userID string) (*db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.users[guildID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &db_models.User{GuildID: guildID, UserID: userID, Username: name}, nil
}

type fakeAnalyticsRepo struct {
	gross map[string]int64
	// revenueSince, when set, scripts windowed revenue per time range.
	revenueSince func(fromUnix, toUnix int64) int64
	daily        []repositories.DayRevenue
	breakdown    []repositories.PlanRevenue
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{gross: make(map[string]int64)}
}

func (f *fakeAnalyticsRepo) TotalGuildRevenue(_ context.Context, guildID string) (int64, error) {
	return f.gross[guildID], nil
}

func (f *fakeAnalyticsRepo) RevenueSince(_ context.Context, _ string, fromUnix, toUnix int64) (int64, error) {
	if f.revenueSince == nil {
		return 0, nil
	}
	return f.revenueSince(fromUnix, toUnix), nil
}

func (f *fakeAnalyticsRepo) RevenueByDay(_ context.Context, _ string, _ int64) ([]repositories.DayRevenue, error) {
	return f.daily, nil
}

func (f *fakeAnalyticsRepo) PlanBreakdown(_ context.Context, _ string) ([]repositories.PlanRevenue, error) {
	return f.breakdown, nil
}

func (f *fakeAnalyticsRepo) TopMembers(_ context.Context, _ string, _ int) ([]repositories.MemberSpend, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) TopMembersByPlan(_ context.Context, _ string, _ uuid.UUID, _ int) ([]repositories.MemberSpend, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) NewMembersSince(_ context.Context, _ string, _ int64) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) Fleet(_ context.Context) (*repositories.FleetStats, error) {
	return &repositories.FleetStats{}, nil
}

func (f *fakeAnalyticsRepo) TopGuilds(_ context.Context, _ int) ([]repositories.GuildRevenue, error) {
	return nil, nil
}

// fakeQPay scripts gateway responses per invoice.
type fakeQPay struct {
	mu       sync.Mutex
	nextID   int
	statuses map[string]string
	checks   int
	failNext bool
}

func newFakeQPay() *fakeQPay {
	return &fakeQPay{statuses: make(map[string]string)}
}

func (f *fakeQPay) CreateInvoice(_ context.Context, amountMNT int64, description string) (*qpay.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("gateway down")
	}
	f.nextID++
	id := fmt.Sprintf("inv-%d", f.nextID)
	f.statuses[id] = qpay.StatusPending
	return &qpay.Invoice{
		InvoiceID: id,
		QRText:    "qr-" + id,
		ShortURL:  "https://s.qpay.mn/" + id,
	}, nil
}

func (f *fakeQPay) CheckStatus(_ context.Context, invoiceID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if s, ok := f.statuses[invoiceID]; ok {
		return s
	}
	return qpay.StatusUnknown
}

func (f *fakeQPay) setStatus(invoiceID, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[invoiceID] = status
}

// recorderGateway captures chat side effects.
type recorderGateway struct {
	mu       sync.Mutex
	roleAdds []string
	roleRms  []string
	dms      []string
	channel  []string
}

func newRecorderGateway() *recorderGateway { return &recorderGateway{} }

func (r *recorderGateway) AddRole(_ context.Context, guildID, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleAdds = append(r.roleAdds, guildID+"/"+userID+"/"+roleID)
	return nil
}

func (r *recorderGateway) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleRms = append(r.roleRms, guildID+"/"+userID+"/"+roleID)
	return nil
}

func (r *recorderGateway) SendDM(_ context.Context, userID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dms = append(r.dms, userID+": "+message)
	return nil
}

func (r *recorderGateway) SendChannel(_ context.Context, channelID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channel = append(r.channel, channelID+": "+message)
	return nil
}
