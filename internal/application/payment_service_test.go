package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
)

// MockPaymentRepository implements payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetAll(ctx context.Context) ([]*payment.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindSuccessByReservationID(ctx context.Context, reservationID int64) (*payment.Payment, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

// MockReservationVerifier implements payment.ReservationVerifier
type MockReservationVerifier struct {
	mock.Mock
}

func (m *MockReservationVerifier) GetDetails(ctx context.Context, reservationID int64, identity payment.Identity) (*payment.ReservationDetails, error) {
	args := m.Called(ctx, reservationID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ReservationDetails), args.Error(1)
}

func managerIdentity() payment.Identity {
	return payment.Identity{
		Role:          "MANAGER",
		Email:         "manager@hotel.com",
		Authorization: "Basic xxx",
	}
}

func TestPaymentService_ProcessPayment_Success(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(&payment.ReservationDetails{GuestName: "Ram", RoomNumber: "101", Price: 450}, nil)
	repo.On("FindSuccessByReservationID", ctx, int64(999)).
		Return(nil, payment.ErrPaymentNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, payment.StatusSuccess, p.Status)
	assert.Equal(t, "Ram", p.GuestName)
	assert.Equal(t, float64(450), p.Amount)
	assert.Equal(t, "MANAGER manager@hotel.com", p.ProcessedBy)

	repo.AssertExpectations(t)
	verifier.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_VerificationFailed(t *testing.T) {
	// 予約を確認できない限り決済には進まず、行も残さない
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(nil, payment.ErrVerificationFailed)

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, payment.ErrVerificationFailed))
	repo.AssertNotCalled(t, "Create")
	repo.AssertNotCalled(t, "FindSuccessByReservationID")
}

func TestPaymentService_ProcessPayment_ReservationNotFound(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(12345), identity).
		Return(nil, payment.ErrReservationNotFound)

	p, err := service.ProcessPayment(ctx, 12345, identity)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, payment.ErrReservationNotFound))
	repo.AssertNotCalled(t, "Create")
}

func TestPaymentService_ProcessPayment_DuplicateFastPath(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(&payment.ReservationDetails{GuestName: "Ram", RoomNumber: "101", Price: 450}, nil)
	existing := &payment.Payment{ID: 1, ReservationID: 999, Status: payment.StatusSuccess}
	repo.On("FindSuccessByReservationID", ctx, int64(999)).Return(existing, nil)

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, payment.ErrPaymentAlreadyProcessed))
	repo.AssertNotCalled(t, "Create")
}

func TestPaymentService_ProcessPayment_DuplicateRace(t *testing.T) {
	// 高速パスをすり抜けた同時リクエストは部分一意インデックスが検出する
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(&payment.ReservationDetails{GuestName: "Ram", RoomNumber: "101", Price: 450}, nil)
	repo.On("FindSuccessByReservationID", ctx, int64(999)).
		Return(nil, payment.ErrPaymentNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).
		Return(payment.ErrPaymentAlreadyProcessed)

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, payment.ErrPaymentAlreadyProcessed))
	// FAILED行は残さない（重複は失敗ではない）
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPaymentService_ProcessPayment_RecordsFailedRow(t *testing.T) {
	// 重複以外の永続化失敗は FAILED 行として必ず記録する
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(&payment.ReservationDetails{GuestName: "Ram", RoomNumber: "101", Price: 450}, nil)
	repo.On("FindSuccessByReservationID", ctx, int64(999)).
		Return(nil, payment.ErrPaymentNotFound)

	// 1回目: SUCCESS行の挿入が失敗 / 2回目: FAILED行の記録は成功
	repo.On("Create", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
		return p.Status == payment.StatusSuccess
	})).Return(errors.New("db connection lost"))
	repo.On("Create", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
		return p.Status == payment.StatusFailed
	})).Return(nil)

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, payment.StatusFailed, p.Status)
	assert.Equal(t, float64(0), p.Amount)
	assert.Equal(t, "Unknown", p.GuestName)
	assert.Equal(t, "MANAGER manager@hotel.com", p.ProcessedBy)

	repo.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_FailedRecordAlsoFails(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()
	identity := managerIdentity()

	verifier.On("GetDetails", ctx, int64(999), identity).
		Return(&payment.ReservationDetails{GuestName: "Ram", RoomNumber: "101", Price: 450}, nil)
	repo.On("FindSuccessByReservationID", ctx, int64(999)).
		Return(nil, payment.ErrPaymentNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).
		Return(errors.New("db down"))

	p, err := service.ProcessPayment(ctx, 999, identity)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "失敗記録の保存に失敗")
}

func TestPaymentService_GetPayment(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()

	expected := &payment.Payment{ID: 1, ReservationID: 999, Status: payment.StatusSuccess}
	repo.On("GetByID", ctx, int64(1)).Return(expected, nil)

	p, err := service.GetPayment(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, expected, p)
}

func TestPaymentService_ListPayments(t *testing.T) {
	repo := new(MockPaymentRepository)
	verifier := new(MockReservationVerifier)
	service := NewPaymentService(repo, verifier, nil)
	ctx := context.Background()

	repo.On("GetAll", ctx).Return([]*payment.Payment{
		{ID: 1, ReservationID: 999, Status: payment.StatusSuccess},
		{ID: 2, ReservationID: 999, Status: payment.StatusFailed},
	}, nil)

	payments, err := service.ListPayments(ctx)

	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
