package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/farellandr/echallan/internal/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every collection in process memory. It backs
// DB_TYPE=memory for local runs and the test suites.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	otps      map[string]models.OTP
	addresses map[string]models.Address
	challans  map[string]models.Challan
	photos    []models.ChallanPhoto
	payments  map[string]models.Payment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		otps:      make(map[string]models.OTP),
		addresses: make(map[string]models.Address),
		challans:  make(map[string]models.Challan),
		payments:  make(map[string]models.Payment),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) UpsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.UID]; ok {
		user.CreatedAt = existing.CreatedAt
		user.IsAdmin = existing.IsAdmin
	}
	s.users[user.UID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Phone == phone {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.UID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Phone = user.Phone
	existing.UpdatedAt = user.UpdatedAt
	s.users[user.UID] = existing
	*user = existing
	return nil
}

func (s *MemoryStore) SaveOTP(ctx context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.otps[otp.Phone] = *otp
	return nil
}

func (s *MemoryStore) GetOTP(ctx context.Context, phone string) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.otps[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return &otp, nil
}

func (s *MemoryStore) IncrementOTPAttempts(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.otps[phone]
	if !ok {
		return ErrNotFound
	}
	otp.Attempts++
	s.otps[phone] = otp
	return nil
}

func (s *MemoryStore) DeleteOTP(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.otps, phone)
	return nil
}

func (s *MemoryStore) CreateAddress(ctx context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	s.addresses[address.ID] = *address
	return nil
}

func (s *MemoryStore) GetAddress(ctx context.Context, id string) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	address, ok := s.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &address, nil
}

func (s *MemoryStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Address
	for _, address := range s.addresses {
		if address.UserID == userID {
			out = append(out, address)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateChallan(ctx context.Context, challan *models.Challan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.challans[challan.ChallanID]; taken {
		return ErrDuplicate
	}
	if challan.ID == "" {
		challan.ID = uuid.New().String()
	}
	s.challans[challan.ChallanID] = *challan
	return nil
}

func (s *MemoryStore) GetChallan(ctx context.Context, challanID string) (*models.Challan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challan, ok := s.challans[challanID]
	if !ok {
		return nil, ErrNotFound
	}
	return &challan, nil
}

func (s *MemoryStore) ListChallans(ctx context.Context, query ChallanQuery) ([]models.Challan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Challan
	for _, challan := range s.challans {
		if challan.UserID != query.UserID {
			continue
		}
		if query.Type != "" && challan.Type != query.Type {
			continue
		}
		if query.Status != "" && challan.PaymentStatus != query.Status {
			continue
		}
		if query.After != nil && !challanBefore(challan, *query.After) {
			continue
		}
		out = append(out, challan)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

// challanBefore reports whether challan sorts after the cursor in
// (createdAt desc, id desc) order.
func challanBefore(challan models.Challan, cursor Cursor) bool {
	if challan.CreatedAt.Equal(cursor.CreatedAt) {
		return challan.ID < cursor.ID
	}
	return challan.CreatedAt.Before(cursor.CreatedAt)
}

func (s *MemoryStore) SetChallanQR(ctx context.Context, challanID, qrCodeURL string, status models.QRStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	challan, ok := s.challans[challanID]
	if !ok {
		return ErrNotFound
	}
	challan.QRCodeURL = qrCodeURL
	challan.QRStatus = status
	s.challans[challanID] = challan
	return nil
}

func (s *MemoryStore) MarkChallanPaid(ctx context.Context, challanID, paymentID string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challan, ok := s.challans[challanID]
	if !ok {
		return false, ErrNotFound
	}
	if challan.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	challan.PaymentStatus = models.PaymentStatusCompleted
	challan.PaymentID = &paymentID
	challan.PaidAt = &paidAt
	s.challans[challanID] = challan
	return true, nil
}

func (s *MemoryStore) CreatePhoto(ctx context.Context, photo *models.ChallanPhoto) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.photos {
		if existing.ChallanID == photo.ChallanID && existing.Index == photo.Index {
			return ErrDuplicate
		}
	}
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	s.photos = append(s.photos, *photo)
	return nil
}

func (s *MemoryStore) ListPhotos(ctx context.Context, challanID string) ([]models.ChallanPhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ChallanPhoto
	for _, photo := range s.photos {
		if photo.ChallanID == challanID {
			out = append(out, photo)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *MemoryStore) CountPhotos(ctx context.Context, challanID string) (int, error) {
	photos, err := s.ListPhotos(ctx, challanID)
	return len(photos), err
}

func (s *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	s.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &payment, nil
}

func (s *MemoryStore) SetPaymentCheckout(ctx context.Context, id, reference, url, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return ErrNotFound
	}
	payment.GatewayReference = reference
	payment.PaymentGatewayURL = url
	payment.PaymentToken = token
	s.payments[id] = payment
	return nil
}

func (s *MemoryStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return false, ErrNotFound
	}
	if payment.Status == models.PaymentStatusCompleted {
		return false, nil
	}
	payment.Status = status
	payment.TransactionID = transactionID
	payment.UpdatedAt = at
	if status == models.PaymentStatusCompleted {
		payment.CompletedAt = &at
	}
	s.payments[id] = payment
	return true, nil
}

func (s *MemoryStore) SetPaymentReceipt(ctx context.Context, id, receiptURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return ErrNotFound
	}
	payment.ReceiptURL = receiptURL
	s.payments[id] = payment
	return nil
}

func (s *MemoryStore) ListPayments(ctx context.Context, query PaymentQuery) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Payment
	for _, payment := range s.payments {
		if query.UserID != "" && payment.UserID != query.UserID {
			continue
		}
		if query.Status != "" && payment.Status != query.Status {
			continue
		}
		out = append(out, payment)
	}
	sort.Slice(out, func(i, j int) bool {
		return paymentSortTime(out[i]).After(paymentSortTime(out[j]))
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func paymentSortTime(payment models.Payment) time.Time {
	if payment.CompletedAt != nil {
		return *payment.CompletedAt
	}
	return payment.CreatedAt
}
