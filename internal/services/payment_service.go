package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"rolevend/internal/gateway/qpay"
	"rolevend/internal/models/db_models"
	"rolevend/internal/repositories"
	mem "rolevend/pkg/memcache"
	"rolevend/pkg/utils"
)

// PurchaseResult is what a buyer needs to pay: the invoice plus the QR
// payload to render.
type PurchaseResult struct {
	Payment    *db_models.Payment
	PaymentURL string
}

// PaymentService drives the buy-a-role flow: invoice creation against the
// gateway, status polling, and the idempotent paid-confirmation that
// grants the membership.
type PaymentService interface {
	CreatePurchase(ctx context.Context, guildID, userID, username string, planID uuid.UUID) (*PurchaseResult, error)

	// CheckPurchase polls the gateway and, when the invoice is paid,
	// confirms the payment and grants the membership exactly once.
	// The returned status is one of the qpay status strings.
	CheckPurchase(ctx context.Context, invoiceID string) (string, *db_models.Payment, error)

	// VerifyLatest re-runs the confirmation path on the user's most recent
	// pending invoice. Backup for buyers who lost the invoice id.
	VerifyLatest(ctx context.Context, guildID, userID string) (string, *db_models.Payment, error)

	GetByInvoiceID(ctx context.Context, invoiceID string) (*db_models.Payment, error)
	ListPendingByUser(ctx context.Context, guildID, userID string) ([]db_models.Payment, error)
	QRImage(ctx context.Context, invoiceID string) ([]byte, error)
}

type paymentService struct {
	payments      repositories.PaymentRepository
	guilds        repositories.GuildRepository
	catalog       CatalogService
	memberships   MembershipService
	subscriptions SubscriptionService
	gateway       qpay.Client
	locks         *mem.KeyLocks
}

func NewPaymentService(
	payments repositories.PaymentRepository,
	guilds repositories.GuildRepository,
	catalog CatalogService,
	memberships MembershipService,
	subscriptions SubscriptionService,
	gateway qpay.Client,
	locks *mem.KeyLocks,
) PaymentService {
	return &paymentService{
		payments:      payments,
		guilds:        guilds,
		catalog:       catalog,
		memberships:   memberships,
		subscriptions: subscriptions,
		gateway:       gateway,
		locks:         locks,
	}
}

func (s *paymentService) CreatePurchase(ctx context.Context, guildID, userID, username string, planID uuid.UUID) (*PurchaseResult, error) {
	active, err := s.subscriptions.HasActive(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, utils.ErrSubscriptionExpired
	}

	plan, err := s.catalog.GetPlan(ctx, guildID, planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, utils.ErrPlanInactive
	}

	inv, err := s.gateway.CreateInvoice(ctx, plan.PriceMNT, plan.Name)
	if err != nil {
		log.Printf("payment: invoice creation failed for plan %s: %v", plan.ID, err)
		return nil, utils.ErrGatewayUnavailable
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"plan_name": plan.Name,
		"role_id":   plan.RoleID,
	})
	payment := &db_models.Payment{
		InvoiceID: inv.InvoiceID,
		GuildID:   guildID,
		UserID:    userID,
		PlanID:    plan.ID,
		AmountMNT: plan.PriceMNT,
		Status:    db_models.PaymentStatusPending,
		ShortURL:  inv.PaymentURL(),
		QRText:    inv.QRText,
		Metadata:  datatypes.JSON(meta),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.guilds.UpsertUser(ctx, guildID, userID, username); err != nil {
		log.Printf("payment: failed to upsert user %s in guild %s: %v", userID, guildID, err)
	}

	return &PurchaseResult{Payment: payment, PaymentURL: inv.PaymentURL()}, nil
}

func (s *paymentService) CheckPurchase(ctx context.Context, invoiceID string) (string, *db_models.Payment, error) {
	// Serialize per invoice so concurrent polls cannot double-grant.
	unlock := s.locks.Lock("invoice:" + invoiceID)
	defer unlock()

	payment, err := s.payments.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return "", nil, err
	}
	if payment == nil {
		return "", nil, utils.ErrPaymentNotFound
	}
	if payment.Status == db_models.PaymentStatusPaid {
		return qpay.StatusPaid, payment, nil
	}

	status := s.gateway.CheckStatus(ctx, invoiceID)
	if status != qpay.StatusPaid {
		return status, payment, nil
	}

	confirmed, flipped, err := s.payments.ConfirmPaid(ctx, invoiceID, utils.NowUnixSeconds())
	if err != nil {
		return "", nil, err
	}
	if confirmed == nil {
		return "", nil, utils.ErrPaymentNotFound
	}
	if !flipped {
		return qpay.StatusPaid, confirmed, nil
	}

	plan, err := s.catalog.ResolvePlan(ctx, confirmed.PlanID)
	if err != nil {
		log.Printf("payment: paid invoice %s references unknown plan %s: %v",
			invoiceID, confirmed.PlanID, err)
		return qpay.StatusPaid, confirmed, nil
	}
	if _, err := s.memberships.Grant(ctx, plan, confirmed.UserID, confirmed.ID.String()); err != nil {
		log.Printf("payment: membership grant failed for invoice %s: %v", invoiceID, err)
	}

	return qpay.StatusPaid, confirmed, nil
}

func (s *paymentService) VerifyLatest(ctx context.Context, guildID, userID string) (string, *db_models.Payment, error) {
	pending, err := s.payments.ListPendingByUser(ctx, guildID, userID)
	if err != nil {
		return "", nil, err
	}
	if len(pending) == 0 {
		return "", nil, utils.ErrPaymentNotFound
	}
	// Newest first.
	return s.CheckPurchase(ctx, pending[0].InvoiceID)
}

func (s *paymentService) GetByInvoiceID(ctx context.Context, invoiceID string) (*db_models.Payment, error) {
	payment, err := s.payments.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *paymentService) ListPendingByUser(ctx context.Context, guildID, userID string) ([]db_models.Payment, error) {
	return s.payments.ListPendingByUser(ctx, guildID, userID)
}

func (s *paymentService) QRImage(ctx context.Context, invoiceID string) ([]byte, error) {
	payment, err := s.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if payment.QRText == "" {
		return nil, utils.RecordNotFound
	}
	return qpay.QRPNG(payment.QRText, 512)
}
