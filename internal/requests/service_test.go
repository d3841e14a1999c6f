package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/catalog"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/voucher"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) AppendLineItems(ctx context.Context, items []LineItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockRequestRepository) ListLineItems(ctx context.Context) ([]LineItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LineItem), args.Error(1)
}

func (m *MockRequestRepository) FindByRequestID(ctx context.Context, requestID string) ([]LineItem, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LineItem), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatuses(ctx context.Context, requestID string, from, to Status, handledBy string) error {
	args := m.Called(ctx, requestID, from, to, handledBy)
	return args.Error(0)
}

type MockCatalogResolver struct {
	mock.Mock
}

func (m *MockCatalogResolver) Lookup(ctx context.Context, category, description string) (*catalog.Item, error) {
	args := m.Called(ctx, category, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

type MockVoucherWriter struct {
	mock.Mock
}

func (m *MockVoucherWriter) Write(ctx context.Context, v voucher.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type stubAudit struct{}

func (stubAudit) Log(actor, action, resourceID string, data interface{}) {}

type recordingNotifier struct {
	messages chan string
}

func (n *recordingNotifier) Send(ctx context.Context, recipients []string, text string) error {
	n.messages <- text
	return nil
}

func newTestService(repo RequestRepository, catalogSvc CatalogResolver, voucherWriter VoucherWriter) *Service {
	return NewService(repo, catalogSvc, voucherWriter, nil, nil, stubAudit{}, zap.NewNop())
}

func TestSubmitPersistsWholeBatch(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockCatalog := new(MockCatalogResolver)

	mockCatalog.On("Lookup", mock.Anything, "EPP", "CASCO").
		Return(&catalog.Item{Code: "EPP001", Unit: "UND"}, nil).Once()
	mockCatalog.On("Lookup", mock.Anything, "EPP", "GUANTES").
		Return(nil, nil).Once()

	var persisted []LineItem
	mockRepo.On("AppendLineItems", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).([]LineItem)
		}).
		Return(nil).Once()

	service := newTestService(mockRepo, mockCatalog, nil)

	group, err := service.Submit(context.Background(), "JUAN PEREZ", []SubmitItem{
		{Category: "EPP", Description: "CASCO", Quantity: "2"},
		{Category: "EPP", Description: "GUANTES", Quantity: "3"},
	})

	assert.NoError(t, err)
	assert.Len(t, persisted, 2)
	assert.Equal(t, persisted[0].RequestID, persisted[1].RequestID)
	assert.Equal(t, group.RequestID, persisted[0].RequestID)
	assert.Equal(t, 5, group.TotalQuantity)

	for i, item := range persisted {
		assert.Equal(t, StatusPending, item.Status)
		assert.Equal(t, i+1, item.Seq)
		assert.Equal(t, "JUAN PEREZ", item.Requester)
	}

	// Matched catalog entry resolves code and unit; the miss stays blank.
	assert.Equal(t, "EPP001", persisted[0].CatalogCode)
	assert.Equal(t, "UND", persisted[0].Unit)
	assert.Empty(t, persisted[1].CatalogCode)
	assert.Empty(t, persisted[1].Unit)

	mockRepo.AssertExpectations(t)
	mockCatalog.AssertExpectations(t)
}

func TestSubmitRejectsEmptyBatch(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	_, err := service.Submit(context.Background(), "JUAN PEREZ", nil)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	mockRepo.AssertNotCalled(t, "AppendLineItems", mock.Anything, mock.Anything)
}

func TestSubmitRejectsBatchWithNonNumericQuantity(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	_, err := service.Submit(context.Background(), "JUAN PEREZ", []SubmitItem{
		{Category: "EPP", Description: "CASCO", Quantity: "2"},
		{Category: "EPP", Description: "GUANTES", Quantity: "dos"},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	mockRepo.AssertNotCalled(t, "AppendLineItems", mock.Anything, mock.Anything)
}

func TestSubmitRejectsNonPositiveQuantity(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	_, err := service.Submit(context.Background(), "JUAN PEREZ", []SubmitItem{
		{Category: "EPP", Description: "CASCO", Quantity: "0"},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	mockRepo.AssertNotCalled(t, "AppendLineItems", mock.Anything, mock.Anything)
}

func TestSubmitSurvivesCatalogFailure(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockCatalog := new(MockCatalogResolver)

	mockCatalog.On("Lookup", mock.Anything, "EPP", "CASCO").
		Return(nil, errors.New("sheet unavailable")).Once()
	mockRepo.On("AppendLineItems", mock.Anything, mock.Anything).Return(nil).Once()

	service := newTestService(mockRepo, mockCatalog, nil)

	group, err := service.Submit(context.Background(), "JUAN PEREZ", []SubmitItem{
		{Category: "EPP", Description: "CASCO", Quantity: "1"},
	})

	assert.NoError(t, err)
	assert.Empty(t, group.Items[0].CatalogCode)
	mockRepo.AssertExpectations(t)
}

func TestSubmitNotifiesRecipients(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockCatalog := new(MockCatalogResolver)
	mockCatalog.On("Lookup", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("AppendLineItems", mock.Anything, mock.Anything).Return(nil).Once()

	notifier := &recordingNotifier{messages: make(chan string, 1)}
	service := NewService(mockRepo, mockCatalog, nil, notifier, []string{"51999999999"}, stubAudit{}, zap.NewNop())

	_, err := service.Submit(context.Background(), "JUAN PEREZ", []SubmitItem{
		{Category: "EPP", Description: "CASCO", Quantity: "2"},
	})
	assert.NoError(t, err)

	select {
	case text := <-notifier.messages:
		assert.Contains(t, text, "JUAN PEREZ")
		assert.Contains(t, text, "1 item(s)")
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never sent")
	}
}

func pendingItems(requestID string, n int) []LineItem {
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, LineItem{
			RequestID:   requestID,
			Seq:         i + 1,
			Requester:   "JUAN PEREZ",
			Category:    "EPP",
			Description: "CASCO",
			Quantity:    2,
			Status:      StatusPending,
		})
	}
	return items
}

func TestAttendFlipsAllLineItems(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockVoucher := new(MockVoucherWriter)

	items := pendingItems("20240501120000", 3)
	mockRepo.On("FindByRequestID", mock.Anything, "20240501120000").Return(items, nil).Once()
	mockVoucher.On("Write", mock.Anything, mock.MatchedBy(func(v voucher.Voucher) bool {
		return v.RequestID == "20240501120000" && len(v.Items) == 3 && v.Handler == "MARIA LOPEZ"
	})).Return(nil).Once()
	mockRepo.On("UpdateStatuses", mock.Anything, "20240501120000", StatusPending, StatusAttended, "MARIA LOPEZ").
		Return(nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), mockVoucher)

	err := service.Attend(context.Background(), "20240501120000", "MARIA LOPEZ")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockVoucher.AssertExpectations(t)
}

func TestAttendUnknownRequestPerformsNoMutation(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockVoucher := new(MockVoucherWriter)

	mockRepo.On("FindByRequestID", mock.Anything, "19990101000000").Return([]LineItem{}, nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), mockVoucher)

	err := service.Attend(context.Background(), "19990101000000", "MARIA LOPEZ")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	mockVoucher.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateStatuses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttendAlreadyHandledGroupConflicts(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockVoucher := new(MockVoucherWriter)

	items := pendingItems("20240501120000", 2)
	items[1].Status = StatusAttended
	mockRepo.On("FindByRequestID", mock.Anything, "20240501120000").Return(items, nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), mockVoucher)

	err := service.Attend(context.Background(), "20240501120000", "MARIA LOPEZ")

	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	mockVoucher.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestAttendKeepsStatusesWhenVoucherWriteFails(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockVoucher := new(MockVoucherWriter)

	items := pendingItems("20240501120000", 2)
	mockRepo.On("FindByRequestID", mock.Anything, "20240501120000").Return(items, nil).Once()
	mockVoucher.On("Write", mock.Anything, mock.Anything).
		Return(apperrors.External("unable to write voucher", errors.New("api down"))).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), mockVoucher)

	err := service.Attend(context.Background(), "20240501120000", "MARIA LOPEZ")

	assert.True(t, apperrors.IsKind(err, apperrors.KindExternal))
	mockRepo.AssertNotCalled(t, "UpdateStatuses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelPendingGroup(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockVoucher := new(MockVoucherWriter)

	items := pendingItems("20240501120000", 1)
	mockRepo.On("FindByRequestID", mock.Anything, "20240501120000").Return(items, nil).Once()
	mockRepo.On("UpdateStatuses", mock.Anything, "20240501120000", StatusPending, StatusCancelled, "MARIA LOPEZ").
		Return(nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), mockVoucher)

	err := service.Cancel(context.Background(), "20240501120000", "MARIA LOPEZ")

	assert.NoError(t, err)
	mockVoucher.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestInboxGroupsAndOrders(t *testing.T) {
	mockRepo := new(MockRequestRepository)

	mockRepo.On("ListLineItems", mock.Anything).Return([]LineItem{
		{RequestID: "20240501120000", Seq: 1, Requester: "JUAN PEREZ", Quantity: 2, Status: StatusPending},
		{RequestID: "20240501120000", Seq: 2, Requester: "JUAN PEREZ", Quantity: 1, Status: StatusAttended},
		{RequestID: "20240502080000", Seq: 1, Requester: "ANA TORRES", Quantity: 4, Status: StatusAttended},
	}, nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	groups, err := service.Inbox(context.Background(), "")

	assert.NoError(t, err)
	assert.Len(t, groups, 2)

	// Most recent request id first.
	assert.Equal(t, "20240502080000", groups[0].RequestID)
	assert.Equal(t, StatusAttended, groups[0].Status)

	// Mixed statuses read as the conservative PENDING.
	assert.Equal(t, "20240501120000", groups[1].RequestID)
	assert.Equal(t, StatusPending, groups[1].Status)
	assert.Equal(t, 3, groups[1].TotalQuantity)
}

func TestInboxStatusFilter(t *testing.T) {
	mockRepo := new(MockRequestRepository)

	mockRepo.On("ListLineItems", mock.Anything).Return([]LineItem{
		{RequestID: "20240501120000", Seq: 1, Quantity: 2, Status: StatusPending},
		{RequestID: "20240502080000", Seq: 1, Quantity: 4, Status: StatusAttended},
	}, nil).Twice()

	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	pending, err := service.Inbox(context.Background(), "pending")
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, "20240501120000", pending[0].RequestID)

	_, err = service.Inbox(context.Background(), "bogus")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestVoucherOnlyForAttendedGroups(t *testing.T) {
	mockRepo := new(MockRequestRepository)

	pending := pendingItems("20240501120000", 1)
	mockRepo.On("FindByRequestID", mock.Anything, "20240501120000").Return(pending, nil).Once()

	attended := pendingItems("20240502080000", 2)
	for i := range attended {
		attended[i].Status = StatusAttended
		attended[i].HandledBy = "MARIA LOPEZ"
	}
	mockRepo.On("FindByRequestID", mock.Anything, "20240502080000").Return(attended, nil).Once()

	service := newTestService(mockRepo, new(MockCatalogResolver), nil)

	_, err := service.Voucher(context.Background(), "20240501120000")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	v, err := service.Voucher(context.Background(), "20240502080000")
	assert.NoError(t, err)
	assert.Equal(t, "MARIA LOPEZ", v.Handler)
	assert.Len(t, v.Items, 2)
}
