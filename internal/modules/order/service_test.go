package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"aunt-joys-restaurant/internal/models"
)

// fakeRepository is an in-memory stand-in for the Postgres repository. Its
// Transition mirrors the locked check the real repository performs inside the
// transaction, using the same shared transition table.
type fakeRepository struct {
	nextID    int64
	orders    map[int64]*models.Order
	history   map[int64][]models.StatusHistoryEntry
	placeErr  error
	placeCall int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:  make(map[int64]*models.Order),
		history: make(map[int64][]models.StatusHistoryEntry),
	}
}

func (f *fakeRepository) Place(ctx context.Context, order *models.Order) error {
	f.placeCall++
	if f.placeErr != nil {
		return f.placeErr
	}
	f.nextID++
	order.ID = f.nextID
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &stored
	f.history[order.ID] = append(f.history[order.ID], models.StatusHistoryEntry{
		OrderID:   order.ID,
		OldStatus: nil,
		NewStatus: models.StatusPending,
		ChangedBy: order.CustomerID,
		Notes:     "Order placed by customer",
		ChangedAt: now,
	})
	return nil
}

func (f *fakeRepository) Transition(ctx context.Context, orderID int64, newStatus models.OrderStatus, changedBy int64, notes string) (models.OrderStatus, time.Time, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return "", time.Time{}, models.ErrNotFound
	}
	oldStatus := order.Status
	if oldStatus == newStatus {
		return "", time.Time{}, models.ErrSameStatus
	}
	if !oldStatus.CanTransitionTo(newStatus) {
		return "", time.Time{}, fmt.Errorf("cannot change status from %s to %s: %w", oldStatus, newStatus, models.ErrInvalidTransition)
	}
	now := time.Now()
	order.Status = newStatus
	order.UpdatedAt = now
	order.ProcessedBy = &changedBy
	if newStatus == models.StatusDelivered {
		order.DeliveredAt = &now
	}
	f.history[orderID] = append(f.history[orderID], models.StatusHistoryEntry{
		OrderID:   orderID,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Notes:     notes,
		ChangedAt: now,
	})
	return oldStatus, now, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *order
	out.Items = append([]models.OrderItem(nil), order.Items...)
	out.StatusHistory = append([]models.StatusHistoryEntry(nil), f.history[orderID]...)
	return &out, nil
}

func (f *fakeRepository) FindByIDForCustomer(ctx context.Context, orderID, customerID int64) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, models.ErrNotFound
	}
	out := *order
	out.Items = append([]models.OrderItem(nil), order.Items...)
	out.StatusHistory = append([]models.StatusHistoryEntry(nil), f.history[orderID]...)
	return &out, nil
}

func (f *fakeRepository) ListByCustomer(ctx context.Context, customerID int64, status *models.OrderStatus) ([]*models.Order, error) {
	var out []*models.Order
	for _, order := range f.orders {
		if order.CustomerID != customerID {
			continue
		}
		if status != nil && order.Status != *status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepository) ListAll(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	var out []*models.Order
	for _, order := range f.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func validPlaceRequest() models.PlaceOrderRequest {
	return models.PlaceOrderRequest{
		DeliveryAddress: "Area 47, Lilongwe",
		ContactNumber:   "+265991234567",
		Subtotal:        5000,
		DiscountAmount:  0,
		TotalAmount:     5500,
		Items: []models.PlaceOrderItem{
			{MealID: 1, MealName: "Chambo and Chips", Quantity: 2, UnitPrice: 2000, Subtotal: 4000},
			{MealID: 3, MealName: "Nsima Special", Quantity: 1, UnitPrice: 1000, Subtotal: 1000},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	resp, err := svc.PlaceOrder(context.Background(), 7, validPlaceRequest())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if resp.OrderID == 0 {
		t.Error("expected a non-zero order ID")
	}
	if resp.TotalAmount != 5500 {
		t.Errorf("expected total 5500, got %v", resp.TotalAmount)
	}
	if resp.TotalAmountFormatted != "MK 5,500.00" {
		t.Errorf("unexpected formatted total %q", resp.TotalAmountFormatted)
	}

	numberPattern := regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)
	if !numberPattern.MatchString(resp.OrderNumber) {
		t.Errorf("order number %q does not match ORD-<date>-<suffix>", resp.OrderNumber)
	}

	stored := repo.orders[resp.OrderID]
	if stored == nil {
		t.Fatal("order not persisted")
	}
	if stored.Status != models.StatusPending {
		t.Errorf("new order status = %s, want Pending", stored.Status)
	}
	if stored.DeliveryFee != models.DefaultDeliveryFee {
		t.Errorf("delivery fee = %v, want default %v", stored.DeliveryFee, models.DefaultDeliveryFee)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(stored.Items))
	}
	if stored.Items[0].MealName != "Chambo and Chips" || stored.Items[1].MealName != "Nsima Special" {
		t.Error("items not stored in input order")
	}

	history := repo.history[resp.OrderID]
	if len(history) != 1 {
		t.Fatalf("expected 1 history row after placement, got %d", len(history))
	}
	if history[0].OldStatus != nil {
		t.Errorf("initial history old status = %v, want nil", *history[0].OldStatus)
	}
	if history[0].NewStatus != models.StatusPending {
		t.Errorf("initial history new status = %s, want Pending", history[0].NewStatus)
	}
}

func TestPlaceOrderExplicitDeliveryFee(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	fee := 0.0
	req := validPlaceRequest()
	req.DeliveryFee = &fee
	req.TotalAmount = 5000

	resp, err := svc.PlaceOrder(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if repo.orders[resp.OrderID].DeliveryFee != 0 {
		t.Errorf("delivery fee = %v, want 0", repo.orders[resp.OrderID].DeliveryFee)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.PlaceOrderRequest)
	}{
		{"empty cart", func(r *models.PlaceOrderRequest) { r.Items = nil }},
		{"zero total", func(r *models.PlaceOrderRequest) { r.TotalAmount = 0 }},
		{"negative total", func(r *models.PlaceOrderRequest) { r.TotalAmount = -100 }},
		{"inconsistent total", func(r *models.PlaceOrderRequest) { r.TotalAmount = 9999 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepository()
			svc := NewService(repo)

			req := validPlaceRequest()
			tc.mutate(&req)

			if _, err := svc.PlaceOrder(context.Background(), 7, req); !errors.Is(err, models.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if repo.placeCall != 0 {
				t.Error("repository should not be touched on a rejected request")
			}
		})
	}
}

func TestPlaceOrderRepositoryFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.placeErr = errors.New("connection reset")
	svc := NewService(repo)

	if _, err := svc.PlaceOrder(context.Background(), 7, validPlaceRequest()); err == nil {
		t.Fatal("expected error when the repository fails")
	}
	if len(repo.orders) != 0 {
		t.Error("no order should be recorded on failure")
	}
}

func TestOrderNumberUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := generateOrderNumber()
		if seen[n] {
			t.Fatalf("duplicate order number %q after %d generations", n, i)
		}
		seen[n] = true
	}
}

func placeTestOrder(t *testing.T, svc *Service, customerID int64) int64 {
	t.Helper()
	resp, err := svc.PlaceOrder(context.Background(), customerID, validPlaceRequest())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	return resp.OrderID
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	resp, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{
		OrderID:   orderID,
		NewStatus: "Preparing",
	})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if resp.OldStatus != models.StatusPending || resp.NewStatus != models.StatusPreparing {
		t.Errorf("transition reported %s -> %s, want Pending -> Preparing", resp.OldStatus, resp.NewStatus)
	}

	stored := repo.orders[orderID]
	if stored.Status != models.StatusPreparing {
		t.Errorf("order status = %s, want Preparing", stored.Status)
	}
	if stored.ProcessedBy == nil || *stored.ProcessedBy != 2 {
		t.Error("processed_by should record the acting staff user")
	}

	history := repo.history[orderID]
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.OldStatus == nil || *last.OldStatus != models.StatusPending {
		t.Error("history row should record the previous status")
	}
	if last.Notes != "Status updated to Preparing" {
		t.Errorf("default note = %q", last.Notes)
	}
}

func TestUpdateStatusSameStatus(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	_, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{
		OrderID:   orderID,
		NewStatus: "Pending",
	})
	if !errors.Is(err, models.ErrSameStatus) {
		t.Errorf("expected ErrSameStatus, got %v", err)
	}
	if len(repo.history[orderID]) != 1 {
		t.Error("a rejected no-op must not append history")
	}
}

func TestUpdateStatusSkippingState(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	if _, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: orderID, NewStatus: "Preparing"}); err != nil {
		t.Fatalf("Pending -> Preparing failed: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: orderID, NewStatus: "Delivered"})
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("Preparing -> Delivered should be ErrInvalidTransition, got %v", err)
	}
	if repo.orders[orderID].Status != models.StatusPreparing {
		t.Error("order status must not change on a rejected transition")
	}
	if len(repo.history[orderID]) != 2 {
		t.Error("a rejected transition must not append history")
	}
}

func TestUpdateStatusDelivery(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	for _, status := range []string{"Preparing", "Out for Delivery", "Delivered"} {
		if _, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: orderID, NewStatus: status}); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	stored := repo.orders[orderID]
	if stored.Status != models.StatusDelivered {
		t.Fatalf("order status = %s, want Delivered", stored.Status)
	}
	if stored.DeliveredAt == nil {
		t.Error("delivered_at should be stamped on delivery")
	}
	if len(repo.history[orderID]) != 4 {
		t.Errorf("expected 4 history rows, got %d", len(repo.history[orderID]))
	}

	// Delivered is terminal.
	_, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: orderID, NewStatus: "Cancelled"})
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("Delivered -> Cancelled should be ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatusInvalidInput(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	_, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: orderID, NewStatus: "Shipped"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("unknown status should be ErrValidation, got %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: 9999, NewStatus: "Preparing"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing order should be ErrNotFound, got %v", err)
	}
}

func TestGetCustomerOrderScoping(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	orderID := placeTestOrder(t, svc, 7)

	order, err := svc.GetCustomerOrder(context.Background(), 7, orderID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if order.TotalAmountFormatted != "MK 5,500.00" {
		t.Errorf("unexpected formatted total %q", order.TotalAmountFormatted)
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(order.Items))
	}

	// Another customer's order must look exactly like a missing one.
	if _, err := svc.GetCustomerOrder(context.Background(), 8, orderID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign order, got %v", err)
	}
}

func TestListOrdersStatusFilter(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	first := placeTestOrder(t, svc, 7)
	placeTestOrder(t, svc, 8)
	if _, err := svc.UpdateStatus(context.Background(), 2, models.UpdateStatusRequest{OrderID: first, NewStatus: "Preparing"}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	pending, err := svc.ListOrders(context.Background(), "Pending", 0, 0)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending order, got %d", len(pending))
	}

	all, err := svc.ListOrders(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}
	for _, o := range all {
		if o.TotalAmountFormatted == "" {
			t.Error("listing should carry formatted totals")
		}
	}

	if _, err := svc.ListOrders(context.Background(), "Bogus", 0, 0); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad filter should be ErrValidation, got %v", err)
	}
}

func TestListCustomerOrders(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	placeTestOrder(t, svc, 7)
	placeTestOrder(t, svc, 7)
	placeTestOrder(t, svc, 8)

	mine, err := svc.ListCustomerOrders(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("ListCustomerOrders failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 orders for customer 7, got %d", len(mine))
	}
}
