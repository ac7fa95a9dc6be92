package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/httpapi"
	"github.com/abellastitches/storefront/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

type testServer struct {
	router *gin.Engine

	gateway     *fakeGateway
	orders      *fakeOrderStore
	products    *fakeProductStore
	subscribers *fakeSubscriberStore
	mailer      *fakeMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ts := &testServer{
		gateway:     &fakeGateway{verifications: make(map[string]domain.VerifiedTransaction)},
		orders:      newFakeOrderStore(),
		products:    newFakeProductStore(),
		subscribers: newFakeSubscriberStore(),
		mailer:      &fakeMailer{},
	}

	reconciler, err := service.NewReconciler(ts.gateway, ts.orders, ts.mailer, nil)
	require.NoError(t, err)

	auth, err := service.NewAuth(newFakeAdminStore(), []byte("test-session-secret"))
	require.NoError(t, err)

	server, err := httpapi.NewServer(httpapi.Options{
		Gateway:       ts.gateway,
		Reconciler:    reconciler,
		Auth:          auth,
		Orders:        ts.orders,
		Products:      ts.products,
		Subscribers:   ts.subscribers,
		Mailer:        ts.mailer,
		WebhookSecret: testWebhookSecret,
	})
	require.NoError(t, err)

	ts.router = server.Router()

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	return rec
}

// login registers a fresh admin and returns the session cookie.
func (ts *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/admin/register", map[string]any{
		"name":     "Admin",
		"email":    fmt.Sprintf("admin-%s@example.com", uuid.NewString()[:8]),
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			require.True(t, cookie.HttpOnly)
			return cookie
		}
	}

	t.Fatal("no session cookie in register response")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

type fakeGateway struct {
	mu            sync.Mutex
	verifications map[string]domain.VerifiedTransaction
	authorization domain.Authorization
	initErr       error
}

func (g *fakeGateway) Initialize(_ context.Context, _ string, _ domain.Money, _, _ string) (domain.Authorization, error) {
	if g.initErr != nil {
		return domain.Authorization{}, g.initErr
	}
	return g.authorization, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (domain.VerifiedTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, ok := g.verifications[reference]
	if !ok {
		return domain.VerifiedTransaction{}, fmt.Errorf("unknown reference %q", reference)
	}
	return tx, nil
}

type fakeOrderStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]domain.Order
	byRef map[string]uuid.UUID
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		byID:  make(map[uuid.UUID]domain.Order),
		byRef: make(map[string]uuid.UUID),
	}
}

func (s *fakeOrderStore) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byRef[order.PaymentReference]; exists {
		return uuid.Nil, domain.ErrDuplicateReference
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	s.byID[order.ID] = order
	s.byRef[order.PaymentReference] = order.ID

	return order.ID, nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (s *fakeOrderStore) GetOrderByReference(_ context.Context, reference string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, ok := s.byRef[reference]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return s.byID[orderID], nil
}

func (s *fakeOrderStore) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter = filter.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []domain.Order
	for _, order := range s.byID {
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, order.Status) {
			continue
		}
		if len(filter.CustomerEmails) > 0 && !lo.Contains(filter.CustomerEmails, strings.ToLower(order.CustomerEmail)) {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	if len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}

	return orders, nil
}

func (s *fakeOrderStore) UpdateOrder(_ context.Context, orderID uuid.UUID, update domain.OrderUpdate) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}

	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.OrderNotes != nil {
		order.OrderNotes = *update.OrderNotes
	}
	if update.TrackingNumber != nil {
		order.TrackingNumber = *update.TrackingNumber
	}
	order.UpdatedAt = time.Now()

	s.byID[orderID] = order

	return order, nil
}

func (s *fakeOrderStore) OrderStats(_ context.Context) (domain.OrderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.OrderStats{TotalRevenue: domain.NGN(decimal.Zero)}
	for _, order := range s.byID {
		stats.TotalOrders++
		switch order.Status {
		case domain.OrderStatusPending:
			stats.PendingOrders++
		case domain.OrderStatusProcessing:
			stats.ProcessingOrders++
		case domain.OrderStatusShipped:
			stats.ShippedOrders++
		case domain.OrderStatusDelivered:
			stats.DeliveredOrders++
		}
		if order.PaymentStatus == domain.PaymentStatusSuccessful {
			stats.TotalRevenue.Amount = stats.TotalRevenue.Amount.Add(order.TotalAmount.Amount)
		}
	}

	return stats, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byID)
}

type fakeProductStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{byID: make(map[uuid.UUID]domain.Product)}
}

func (s *fakeProductStore) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	s.byID[product.ID] = product

	return product.ID, nil
}

func (s *fakeProductStore) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.byID[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return product, nil
}

func (s *fakeProductStore) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []domain.Product
	for _, product := range s.byID {
		if category != "" && product.Category != category {
			continue
		}
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products, nil
}

func (s *fakeProductStore) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, product := range s.byID {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)

	return categories, nil
}

func (s *fakeProductStore) UpdateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[product.ID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}

	product.CreatedAt = existing.CreatedAt
	s.byID[product.ID] = product

	return product, nil
}

func (s *fakeProductStore) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[productID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, productID)

	return nil
}

type fakeAdminStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]domain.AdminUser
	byEmail map[string]uuid.UUID
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{
		byID:    make(map[uuid.UUID]domain.AdminUser),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *fakeAdminStore) InsertAdminUser(_ context.Context, admin domain.AdminUser) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(admin.Email)
	if _, exists := s.byEmail[email]; exists {
		return uuid.Nil, domain.ErrDuplicateEmail
	}

	admin.ID = uuid.New()
	admin.Email = email
	s.byID[admin.ID] = admin
	s.byEmail[email] = admin.ID

	return admin.ID, nil
}

func (s *fakeAdminStore) GetAdminUserByEmail(_ context.Context, email string) (domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adminID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return s.byID[adminID], nil
}

func (s *fakeAdminStore) GetAdminUser(_ context.Context, adminID uuid.UUID) (domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.byID[adminID]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return admin, nil
}

type fakeSubscriberStore struct {
	mu     sync.Mutex
	active map[string]domain.Subscriber
}

func newFakeSubscriberStore() *fakeSubscriberStore {
	return &fakeSubscriberStore{active: make(map[string]domain.Subscriber)}
}

func (s *fakeSubscriberStore) Subscribe(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	if sub, ok := s.active[email]; ok && sub.Active {
		return true, nil
	}

	s.active[email] = domain.Subscriber{Email: email, Active: true, SubscribedAt: time.Now()}

	return false, nil
}

func (s *fakeSubscriberStore) ListActive(_ context.Context) ([]domain.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subscribers []domain.Subscriber
	for _, sub := range s.active {
		if sub.Active {
			subscribers = append(subscribers, sub)
		}
	}

	return subscribers, nil
}

func (s *fakeSubscriberStore) Deactivate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	sub, ok := s.active[email]
	if !ok {
		return domain.ErrNotFound
	}

	sub.Active = false
	s.active[email] = sub

	return nil
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations int
	statusChanges int
	sendErr       error
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, _ domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.confirmations++
	return m.sendErr
}

func (m *fakeMailer) SendOrderStatusChange(_ context.Context, _ domain.Order, _ domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statusChanges++
	return m.sendErr
}

func (m *fakeMailer) statusChangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.statusChanges
}

