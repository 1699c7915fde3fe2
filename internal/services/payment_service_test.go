package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rolevend/internal/gateway/qpay"
	"rolevend/internal/models/db_models"
	mem "rolevend/pkg/memcache"
	"rolevend/pkg/utils"
)

type paymentFixture struct {
	svc      PaymentService
	payments *fakePaymentRepo
	guilds   *fakeGuildRepo
	plans    *fakePlanRepo
	subs     *fakeSubscriptionRepo
	gateway  *fakeQPay
	chat     *recorderGateway
}

func newPaymentFixture() *paymentFixture {
	payments := newFakePaymentRepo()
	guilds := newFakeGuildRepo()
	plans := newFakePlanRepo()
	subs := newFakeSubscriptionRepo()
	payouts := newFakePayoutRepo()
	analytics := newFakeAnalyticsRepo()
	gateway := newFakeQPay()
	chatGw := newRecorderGateway()
	locks := mem.NewKeyLocks()

	catalog := NewCatalogService(plans)
	memberships := NewMembershipService(newFakeMembershipRepo(), plans, chatGw)
	subscriptions := NewSubscriptionService(subs, payouts, analytics, gateway, locks)

	return &paymentFixture{
		svc:      NewPaymentService(payments, guilds, catalog, memberships, subscriptions, gateway, locks),
		payments: payments,
		guilds:   guilds,
		plans:    plans,
		subs:     subs,
		gateway:  gateway,
		chat:     chatGw,
	}
}

func (f *paymentFixture) activateGuild(guildID string) {
	f.subs.subs[guildID] = &db_models.Subscription{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		GuildID:   guildID,
		PlanName:  "Basic",
		Status:    db_models.SubStatusActive,
		ExpiresAt: utils.NowUnixSeconds() + 30*86400,
	}
}

func TestCreatePurchaseRequiresActiveSubscription(t *testing.T) {
	f := newPaymentFixture()
	plan := seedPlan(t, f.plans, "g1")

	_, err := f.svc.CreatePurchase(context.Background(), "g1", "u1", "buyer", plan.ID)
	assert.ErrorIs(t, err, utils.ErrSubscriptionExpired)
}

func TestCreatePurchaseRejectsInactivePlan(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	plan.Active = false
	require.NoError(t, f.plans.Update(context.Background(), plan))

	_, err := f.svc.CreatePurchase(context.Background(), "g1", "u1", "buyer", plan.ID)
	assert.ErrorIs(t, err, utils.ErrPlanInactive)
}

func TestCreatePurchase(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	ctx := context.Background()

	result, err := f.svc.CreatePurchase(ctx, "g1", "u1", "buyer", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, plan.PriceMNT, result.Payment.AmountMNT)
	assert.NotEmpty(t, result.Payment.InvoiceID)
	assert.NotEmpty(t, result.PaymentURL)

	// Purchaser name cached for analytics joins.
	u, err := f.guilds.GetUser(ctx, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "buyer", u.Username)
}

func TestCreatePurchaseGatewayDown(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	f.gateway.failNext = true

	_, err := f.svc.CreatePurchase(context.Background(), "g1", "u1", "buyer", plan.ID)
	assert.ErrorIs(t, err, utils.ErrGatewayUnavailable)
}

func TestCheckPurchasePending(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	ctx := context.Background()

	result, err := f.svc.CreatePurchase(ctx, "g1", "u1", "buyer", plan.ID)
	require.NoError(t, err)

	status, payment, err := f.svc.CheckPurchase(ctx, result.Payment.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, qpay.StatusPending, status)
	assert.Equal(t, db_models.PaymentStatusPending, payment.Status)
	assert.Empty(t, f.chat.roleAdds)
}

func TestCheckPurchaseGrantsOnce(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	ctx := context.Background()

	result, err := f.svc.CreatePurchase(ctx, "g1", "u1", "buyer", plan.ID)
	require.NoError(t, err)
	invoiceID := result.Payment.InvoiceID
	f.gateway.setStatus(invoiceID, qpay.StatusPaid)

	status, payment, err := f.svc.CheckPurchase(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, qpay.StatusPaid, status)
	assert.Equal(t, db_models.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidAt)
	require.Len(t, f.chat.roleAdds, 1)
	assert.Equal(t, "g1/u1/"+plan.RoleID, f.chat.roleAdds[0])

	checksBefore := f.gateway.checks

	// Re-polling a paid invoice answers from the row and grants nothing.
	status, _, err = f.svc.CheckPurchase(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, qpay.StatusPaid, status)
	assert.Len(t, f.chat.roleAdds, 1)
	assert.Equal(t, checksBefore, f.gateway.checks)
}

func TestCheckPurchaseUnknownInvoice(t *testing.T) {
	f := newPaymentFixture()

	_, _, err := f.svc.CheckPurchase(context.Background(), "no-such-invoice")
	assert.ErrorIs(t, err, utils.ErrPaymentNotFound)
}

func TestVerifyLatest(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	ctx := context.Background()

	result, err := f.svc.CreatePurchase(ctx, "g1", "u1", "buyer", plan.ID)
	require.NoError(t, err)
	f.gateway.setStatus(result.Payment.InvoiceID, qpay.StatusPaid)

	status, payment, err := f.svc.VerifyLatest(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, qpay.StatusPaid, status)
	assert.Equal(t, result.Payment.InvoiceID, payment.InvoiceID)
	assert.Len(t, f.chat.roleAdds, 1)
}

func TestVerifyLatestNothingPending(t *testing.T) {
	f := newPaymentFixture()

	_, _, err := f.svc.VerifyLatest(context.Background(), "g1", "u1")
	assert.ErrorIs(t, err, utils.ErrPaymentNotFound)
}

func TestQRImage(t *testing.T) {
	f := newPaymentFixture()
	f.activateGuild("g1")
	plan := seedPlan(t, f.plans, "g1")
	ctx := context.Background()

	result, err := f.svc.CreatePurchase(ctx, "g1", "u1", "buyer", plan.ID)
	require.NoError(t, err)

	png, err := f.svc.QRImage(ctx, result.Payment.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
