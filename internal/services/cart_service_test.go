// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/TTMordred/long-chau-pharmacy-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *CartService
	customer *models.User
}

func (s *CartServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewCartService(s.db, NewOrderService(s.db))
	s.customer = createTestUser(s.T(), s.db, models.UserRoleCustomer)
}

func (s *CartServiceTestSuite) TestAddItemRefusesPrescriptionProduct() {
	rx := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: rx.ID, Quantity: 1})
	assert.ErrorIs(s.T(), err, ErrPrescriptionItemInCart)

	cart, err := s.service.GetCart(s.customer.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), cart.Items)
}

func (s *CartServiceTestSuite) TestAddItemSumsQuantities() {
	product := createTestProduct(s.T(), s.db, 30000, intPtr(10), false)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	cart, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(s.T(), err)

	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), 5, cart.Items[0].Quantity)
	assert.Equal(s.T(), 5, cart.ItemCount)
	assert.InDelta(s.T(), 5*30000, cart.TotalAmount, 0.001)
}

func (s *CartServiceTestSuite) TestAddUnknownProduct() {
	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(s.T(), err, ErrProductNotFound)
}

func (s *CartServiceTestSuite) TestUpdateAndRemoveItem() {
	product := createTestProduct(s.T(), s.db, 30000, intPtr(10), false)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(s.T(), err)

	cart, err := s.service.UpdateItem(s.customer.ID, product.ID, &UpdateCartItemRequest{Quantity: 7})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 7, cart.Items[0].Quantity)

	cart, err = s.service.RemoveItem(s.customer.ID, product.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), cart.Items)

	_, err = s.service.RemoveItem(s.customer.ID, product.ID)
	assert.Error(s.T(), err)
}

func (s *CartServiceTestSuite) TestMergeSkipsUnmergeableItems() {
	otc := createTestProduct(s.T(), s.db, 30000, intPtr(10), false)
	rx := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	inactive := createTestProduct(s.T(), s.db, 10000, intPtr(10), false)
	require.NoError(s.T(), s.db.Model(inactive).Update("status", models.ProductStatusInactive).Error)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: otc.ID, Quantity: 1})
	require.NoError(s.T(), err)

	cart, err := s.service.MergeCart(s.customer.ID, &MergeCartRequest{
		Items: []AddCartItemRequest{
			{ProductID: otc.ID, Quantity: 2},      // merges into existing line
			{ProductID: rx.ID, Quantity: 1},       // prescription-only, skipped
			{ProductID: inactive.ID, Quantity: 1}, // inactive, skipped
			{ProductID: uuid.New(), Quantity: 1},  // unknown, skipped
		},
	})
	require.NoError(s.T(), err)

	require.Len(s.T(), cart.Items, 1)
	assert.Equal(s.T(), otc.ID, cart.Items[0].ProductID)
	assert.Equal(s.T(), 3, cart.Items[0].Quantity)
}

func (s *CartServiceTestSuite) TestCheckoutEmptyCart() {
	_, err := s.service.Checkout(s.customer.ID, &CheckoutRequest{DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC"})
	assert.ErrorIs(s.T(), err, ErrCartEmpty)
}

func (s *CartServiceTestSuite) TestCheckoutCreatesOrderAndClearsCart() {
	a := createTestProduct(s.T(), s.db, 30000, intPtr(10), false)
	b := createTestProduct(s.T(), s.db, 15000, nil, false)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(s.T(), err)
	_, err = s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: b.ID, Quantity: 4})
	require.NoError(s.T(), err)

	order, err := s.service.Checkout(s.customer.ID, &CheckoutRequest{
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
		Notes:           "leave at reception",
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OrderStatusPending, order.Status)
	assert.Nil(s.T(), order.PrescriptionID)
	assert.InDelta(s.T(), 2*30000+4*15000, order.TotalAmount, 0.001)
	assert.Len(s.T(), order.Items, 2)

	cart, err := s.service.GetCart(s.customer.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), cart.Items)
}

func (s *CartServiceTestSuite) TestCheckoutInsufficientStockKeepsCart() {
	product := createTestProduct(s.T(), s.db, 30000, intPtr(1), false)

	_, err := s.service.AddItem(s.customer.ID, &AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(s.T(), err)

	// Stock sold out after the item went into the cart
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("stock_quantity", 0).Error)

	_, err = s.service.Checkout(s.customer.ID, &CheckoutRequest{DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC"})
	assert.ErrorIs(s.T(), err, ErrInsufficientStock)

	var orderCount int64
	s.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(s.T(), orderCount)

	cart, err := s.service.GetCart(s.customer.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), cart.Items, 1, "a failed checkout must not eat the cart")
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
