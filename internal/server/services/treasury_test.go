package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTreasury(t *testing.T) (*TreasuryService, *AuthGateService, *fakeRepoManager) {
	t.Helper()
	rm := newFakeRepoManager()
	db := setupDB(t)
	cfg := testConfig()
	gate := NewAuthGateService(db, rm, cfg, testLogger())
	return NewTreasuryService(db, rm, gate, cfg, testLogger()), gate, rm
}

func TestRequiresAuthorization(t *testing.T) {
	th := config.Thresholds{CashWithdrawalLimit: 100000, CashTransferLimit: 500000}

	tests := []struct {
		name   string
		typ    models.MovementType
		reason models.MovementReason
		amount int64
		want   bool
	}{
		{"bank deposit always", models.MovementOut, models.ReasonBankDeposit, 1, true},
		{"transfer under limit", models.MovementOut, models.ReasonCashTransfer, 500000, false},
		{"transfer over limit", models.MovementOut, models.ReasonCashTransfer, 500001, true},
		{"withdrawal under limit", models.MovementOut, models.ReasonCashWithdrawal, 100000, false},
		{"withdrawal over limit", models.MovementOut, models.ReasonCashWithdrawal, 100001, true},
		{"inbound withdrawal correction", models.MovementIn, models.ReasonCashWithdrawal, 999999, false},
		{"plain deposit", models.MovementIn, models.ReasonCashDeposit, 999999, false},
		{"expense", models.MovementOut, models.ReasonExpense, 999999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requiresAuthorization(tt.typ, tt.reason, tt.amount, th))
		})
	}
}

func TestRecord(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	m, err := svc.Record(ctx, RecordParams{
		ShiftID: shift.ID,
		Type:    models.MovementOut,
		Amount:  20000,
		Reason:  models.ReasonCashWithdrawal,
		IsCash:  true,
		UserID:  "cashier-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Nil(t, m.AuthorizedBy)

	require.Len(t, rm.movements.items, 1)
	require.Len(t, rm.audit.entries, 1)
	assert.Equal(t, models.AuditRecordMovement, rm.audit.entries[0].Action)
}

func TestRecordValidation(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	cases := []RecordParams{
		{ShiftID: shift.ID, Type: models.MovementIn, Amount: 0, Reason: models.ReasonCashDeposit},
		{ShiftID: shift.ID, Type: models.MovementIn, Amount: -5, Reason: models.ReasonCashDeposit},
		{ShiftID: shift.ID, Type: "SIDEWAYS", Amount: 10, Reason: models.ReasonCashDeposit},
		{ShiftID: shift.ID, Type: models.MovementIn, Amount: 10, Reason: "VIBES"},
		{ShiftID: shift.ID, Type: models.MovementIn, Amount: 10, Reason: models.ReasonCashDeposit, MovementID: "not-a-uuid"},
	}
	for _, p := range cases {
		p.UserID = "cashier-1"
		_, err := svc.Record(ctx, p)
		assert.ErrorIs(t, err, common.ErrValidation)
	}
	assert.Empty(t, rm.movements.items)
}

func TestRecordAgainstClosedShift(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)
	require.NoError(t, rm.sessions.Close(ctx, shift.ID, 50000, 0, false))

	_, err := svc.Record(ctx, RecordParams{
		ShiftID: shift.ID,
		Type:    models.MovementIn,
		Amount:  1000,
		Reason:  models.ReasonCashDeposit,
		IsCash:  true,
		UserID:  "cashier-1",
	})
	assert.ErrorIs(t, err, common.ErrRejected)

	_, err = svc.Record(ctx, RecordParams{
		ShiftID: "22222222-2222-2222-2222-222222222222",
		Type:    models.MovementIn,
		Amount:  1000,
		Reason:  models.ReasonCashDeposit,
		UserID:  "cashier-1",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecordIdempotentReplay(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	p := RecordParams{
		MovementID: "33333333-3333-3333-3333-333333333333",
		ShiftID:    shift.ID,
		Type:       models.MovementIn,
		Amount:     1000,
		Reason:     models.ReasonCashDeposit,
		IsCash:     true,
		UserID:     "cashier-1",
	}

	first, err := svc.Record(ctx, p)
	require.NoError(t, err)

	second, err := svc.Record(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, rm.movements.items, 1, "replay must not duplicate the entry")
}

func TestRecordAboveThreshold(t *testing.T) {
	svc, gate, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	p := RecordParams{
		ShiftID: shift.ID,
		Type:    models.MovementOut,
		Amount:  svc.cfg.Thresholds.CashWithdrawalLimit + 1,
		Reason:  models.ReasonCashWithdrawal,
		IsCash:  true,
		UserID:  "cashier-1",
	}

	_, err := svc.Record(ctx, p)
	assert.ErrorIs(t, err, common.ErrAuthorization)
	assert.Empty(t, rm.movements.items)

	p.AuthTokenID = grantToken(gate, models.OpRecordMovement)
	m, err := svc.Record(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, m.AuthorizedBy)
	assert.Equal(t, "manager-1", *m.AuthorizedBy)
}

func TestRecordSale(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	sale, err := svc.RecordSale(ctx, RecordSaleParams{
		ShiftID: shift.ID,
		Method:  models.PayCash,
		Amount:  2500,
		UserID:  "cashier-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sale.ID)
	require.Len(t, rm.sales.items, 1)

	_, err = svc.RecordSale(ctx, RecordSaleParams{ShiftID: shift.ID, Method: "BARTER", Amount: 10, UserID: "c"})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, rm.sessions.Close(ctx, shift.ID, 50000, 0, false))
	_, err = svc.RecordSale(ctx, RecordSaleParams{ShiftID: shift.ID, Method: models.PayCash, Amount: 10, UserID: "c"})
	assert.ErrorIs(t, err, common.ErrRejected)
}

func TestListForShift(t *testing.T) {
	svc, _, rm := newTreasury(t)
	ctx := context.Background()
	shift := openShift(rm, 50000)

	rm.movements.items = []*models.CashMovement{
		{ID: "m1", ShiftID: shift.ID, Type: models.MovementIn, Amount: 100, Timestamp: time.Now()},
		{ID: "m2", ShiftID: "other", Type: models.MovementIn, Amount: 200, Timestamp: time.Now()},
	}

	list, err := svc.ListForShift(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].ID)

	_, err = svc.ListForShift(ctx, "44444444-4444-4444-4444-444444444444")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
