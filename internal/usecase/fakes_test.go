package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. They mirror the persistence contracts,
// including the (nil, nil) convention on missing rows and the
// all-or-nothing behavior of PlaceOrder.

type fakeUserRepo struct {
	users             map[uuid.UUID]*entity.User
	updatePasswordErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, user *entity.User) error {
	if r.updatePasswordErr != nil {
		return r.updatePasswordErr
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) FindByName(_ context.Context, name string) (*entity.Product, error) {
	for _, product := range r.products {
		if product.Name == name {
			copied := *product
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) all() []*entity.Product {
	products := make([]*entity.Product, 0, len(r.products))
	for _, product := range r.products {
		copied := *product
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products
}

func (r *fakeProductRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	products := r.all()
	if offset >= len(products) {
		return nil, nil
	}
	products = products[offset:]
	if limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

func (r *fakeProductRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) FindFiltered(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var matched []*entity.Product
	for _, product := range r.all() {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.MinPrice > 0 && product.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && product.Price > filter.MaxPrice {
			continue
		}
		matched = append(matched, product)
	}

	switch filter.SortBy {
	case "name":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	case "stock":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Stock < matched[j].Stock })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *fakeProductRepo) Search(_ context.Context, keyword string) ([]*entity.Product, error) {
	var matched []*entity.Product
	lowered := strings.ToLower(keyword)
	for _, product := range r.all() {
		if strings.Contains(strings.ToLower(product.Name), lowered) {
			matched = append(matched, product)
		}
	}
	return matched, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product %s not found", product.ID)
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type fakeCartRepo struct {
	items []*entity.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{}
}

func (r *fakeCartRepo) Create(_ context.Context, item *entity.CartItem) error {
	copied := *item
	r.items = append(r.items, &copied)
	return nil
}

func (r *fakeCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	var found []*entity.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			copied := *item
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (r *fakeCartRepo) FindByUserAndProduct(_ context.Context, userID, productID uuid.UUID) (*entity.CartItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, item *entity.CartItem) error {
	for _, stored := range r.items {
		if stored.ID == item.ID {
			stored.Quantity = item.Quantity
			stored.UpdatedAt = item.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("cart item %s not found", item.ID)
}

func (r *fakeCartRepo) DeleteByUserAndProduct(_ context.Context, userID, productID uuid.UUID) error {
	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return nil
}

func (r *fakeCartRepo) deleteByUser(userID uuid.UUID) {
	kept := r.items[:0]
	for _, item := range r.items {
		if item.UserID == userID {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
}

type fakeOrderRepo struct {
	products *fakeProductRepo
	cart     *fakeCartRepo
	orders   map[uuid.UUID]*entity.Order
	items    map[uuid.UUID][]*entity.OrderItem
}

func newFakeOrderRepo(products *fakeProductRepo, cart *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		products: products,
		cart:     cart,
		orders:   make(map[uuid.UUID]*entity.Order),
		items:    make(map[uuid.UUID][]*entity.OrderItem),
	}
}

func (r *fakeOrderRepo) PlaceOrder(_ context.Context, order *entity.Order, items []*entity.OrderItem) error {
	// Validate every decrement before applying any, mirroring the
	// transactional all-or-nothing contract
	for _, item := range items {
		product, ok := r.products.products[item.ProductID]
		if !ok {
			return fmt.Errorf("product %s not found", item.ProductID)
		}
		if product.Stock < item.Quantity {
			return fmt.Errorf("product %s: %w", item.ProductID, repository.ErrInsufficientStock)
		}
	}

	for _, item := range items {
		r.products.products[item.ProductID].Stock -= item.Quantity
	}

	copied := *order
	r.orders[order.ID] = &copied
	for _, item := range items {
		itemCopy := *item
		r.items[order.ID] = append(r.items[order.ID], &itemCopy)
	}

	r.cart.deleteByUser(order.UserID)
	return nil
}

func (r *fakeOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var found []*entity.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			copied := *order
			found = append(found, &copied)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})
	return found, nil
}

func (r *fakeOrderRepo) FindByIDForUser(_ context.Context, orderID, userID uuid.UUID) (*entity.Order, error) {
	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindItemsByOrderID(_ context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	var found []*entity.OrderItem
	for _, item := range r.items[orderID] {
		copied := *item
		found = append(found, &copied)
	}
	return found, nil
}

func (r *fakeOrderRepo) ItemExistsForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	for _, items := range r.items {
		for _, item := range items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeResetTokenRepo struct {
	tokens map[uuid.UUID]*entity.PasswordResetToken
}

func newFakeResetTokenRepo() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: make(map[uuid.UUID]*entity.PasswordResetToken)}
}

func (r *fakeResetTokenRepo) Create(_ context.Context, token *entity.PasswordResetToken) error {
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeResetTokenRepo) FindValidToken(_ context.Context, token string) (*entity.PasswordResetToken, error) {
	for _, stored := range r.tokens {
		if stored.Token == token && !stored.Used && stored.ExpiresAt.After(time.Now()) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeResetTokenRepo) MarkAsUsed(_ context.Context, tokenID uuid.UUID) error {
	stored, ok := r.tokens[tokenID]
	if !ok {
		return fmt.Errorf("token %s not found", tokenID)
	}
	stored.Used = true
	return nil
}

type testEnv struct {
	repo     *repository.Repository
	users    *fakeUserRepo
	products *fakeProductRepo
	cart     *fakeCartRepo
	orders   *fakeOrderRepo
	tokens   *fakeResetTokenRepo
	config   *utils.Config
	mail     *mailer.Mailer
	log      *zap.Logger
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	products := newFakeProductRepo()
	cart := newFakeCartRepo()
	orders := newFakeOrderRepo(products, cart)
	tokens := newFakeResetTokenRepo()

	log := zap.NewNop()
	config := &utils.Config{
		JWT: utils.JWTConfig{
			Secret:            "test-secret",
			AccessExpiryMins:  15,
			RefreshExpiryDays: 7,
		},
		Reset: utils.ResetConfig{TokenExpiryMinutes: 30},
	}

	return &testEnv{
		repo: &repository.Repository{
			User:       users,
			Product:    products,
			Cart:       cart,
			Order:      orders,
			ResetToken: tokens,
		},
		users:    users,
		products: products,
		cart:     cart,
		orders:   orders,
		tokens:   tokens,
		config:   config,
		mail:     mailer.New(utils.EmailConfig{}, log),
		log:      log,
	}
}

func (e *testEnv) addProduct(name string, price float64, stock int, category string) *entity.Product {
	product := &entity.Product{
		Base:     entity.Base{ID: uuid.New()},
		Name:     name,
		Price:    price,
		Stock:    stock,
		Category: category,
	}
	e.products.products[product.ID] = product
	return product
}

func (e *testEnv) addUser(email, password string, role entity.Role) *entity.User {
	hash, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	e.users.users[user.ID] = user
	return user
}
