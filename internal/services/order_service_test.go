// internal/services/order_service_test.go
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

type OrderServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	service    *OrderService
	customer   *models.User
	pharmacist *models.User
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewOrderService(s.db)
	s.customer = createTestUser(s.T(), s.db, models.UserRoleCustomer)
	s.pharmacist = createTestUser(s.T(), s.db, models.UserRolePharmacist)
}

func (s *OrderServiceTestSuite) approvedPrescription() *models.Prescription {
	prescription := &models.Prescription{
		CustomerID: s.customer.ID,
		ImageURL:   "https://cdn.example.com/rx.png",
		Status:     models.PrescriptionStatusApproved,
	}
	require.NoError(s.T(), s.db.Create(prescription).Error)
	return prescription
}

func (s *OrderServiceTestSuite) orderCount() int64 {
	var count int64
	s.db.Model(&models.Order{}).Count(&count)
	return count
}

func (s *OrderServiceTestSuite) stockOf(productID uuid.UUID) *int {
	var product models.Product
	require.NoError(s.T(), s.db.First(&product, productID).Error)
	return product.StockQuantity
}

func (s *OrderServiceTestSuite) TestCreateOrderUnknownPrescription() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)

	_, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  uuid.New(),
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})

	assert.ErrorIs(s.T(), err, ErrPrescriptionNotFound)
	assert.Zero(s.T(), s.orderCount())
}

func (s *OrderServiceTestSuite) TestCreateOrderRequiresApprovedPrescription() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)

	prescription := &models.Prescription{
		CustomerID: s.customer.ID,
		Status:     models.PrescriptionStatusPending,
	}
	require.NoError(s.T(), s.db.Create(prescription).Error)

	_, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})

	assert.ErrorIs(s.T(), err, ErrPrescriptionNotValidated)
	assert.Zero(s.T(), s.orderCount())
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsForeignPrescription() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	prescription := s.approvedPrescription()
	other := createTestUser(s.T(), s.db, models.UserRoleCustomer)

	_, err := s.service.CreateOrderFromPrescription(other.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})

	assert.Error(s.T(), err)
	assert.Zero(s.T(), s.orderCount())
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsOverTheCounterProduct() {
	otc := createTestProduct(s.T(), s.db, 20000, intPtr(10), false)
	prescription := s.approvedPrescription()

	_, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: otc.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})

	assert.ErrorIs(s.T(), err, ErrPrescriptionNotRequired)
	assert.Zero(s.T(), s.orderCount())
}

func (s *OrderServiceTestSuite) TestCreateOrderInsufficientStock() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(2), true)
	prescription := s.approvedPrescription()

	_, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})

	assert.ErrorIs(s.T(), err, ErrInsufficientStock)
	assert.Zero(s.T(), s.orderCount())

	var itemCount int64
	s.db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Zero(s.T(), itemCount, "a failed order must not persist partial line items")
}

func (s *OrderServiceTestSuite) TestCreateOrderComputesTotalFromCatalog() {
	a := createTestProduct(s.T(), s.db, 45000, intPtr(10), true)
	b := createTestProduct(s.T(), s.db, 120000, intPtr(10), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID: prescription.ID,
		Items: []OrderItemRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OrderStatusPending, order.Status)
	assert.Equal(s.T(), models.PaymentStatusPending, order.PaymentStatus)
	assert.InDelta(s.T(), 2*45000+120000, order.TotalAmount, 0.001)
	assert.NotEmpty(s.T(), order.Reference)
	require.NotNil(s.T(), order.PrescriptionID)
	assert.Equal(s.T(), prescription.ID, *order.PrescriptionID)

	require.Len(s.T(), order.Items, 2)
	for _, item := range order.Items {
		assert.InDelta(s.T(), item.UnitPrice*float64(item.Quantity), item.TotalPrice, 0.001)
	}

	// Creation does not touch stock; that happens at completion
	assert.Equal(s.T(), 10, *s.stockOf(a.ID))
	assert.Equal(s.T(), 10, *s.stockOf(b.ID))
}

func (s *OrderServiceTestSuite) TestCompleteOrderDecrementsStock() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	completed, err := s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OrderStatusCompleted, completed.Status)
	assert.NotNil(s.T(), completed.CompletedAt)
	assert.Equal(s.T(), 7, *s.stockOf(product.ID))
}

func (s *OrderServiceTestSuite) TestCompleteOrderDecrementsEveryLineItem() {
	a := createTestProduct(s.T(), s.db, 45000, intPtr(10), true)
	b := createTestProduct(s.T(), s.db, 120000, intPtr(5), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID: prescription.ID,
		Items: []OrderItemRequest{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: b.ID, Quantity: 5},
		},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	completed, err := s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.OrderStatusCompleted, completed.Status)
	assert.Equal(s.T(), 7, *s.stockOf(a.ID))
	assert.Equal(s.T(), 0, *s.stockOf(b.ID))
}

func (s *OrderServiceTestSuite) TestCompleteOrderExactStockReachesZero() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(5), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 5}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	_, err = s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 0, *s.stockOf(product.ID))
}

func (s *OrderServiceTestSuite) TestCompleteOrderClampsStockAtZero() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(5), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 5}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	// Stock shrank between order creation and fulfillment
	require.NoError(s.T(), s.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("stock_quantity", 3).Error)

	_, err = s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 0, *s.stockOf(product.ID), "decrement clamps at zero, never negative")
}

func (s *OrderServiceTestSuite) TestCompleteOrderTwiceDecrementsOnce() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	_, err = s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	_, err = s.service.CompleteOrder(order.ID)
	assert.ErrorIs(s.T(), err, ErrOrderAlreadyCompleted)

	assert.Equal(s.T(), 7, *s.stockOf(product.ID))
}

func (s *OrderServiceTestSuite) TestCancelledOrderCannotComplete() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	_, err = s.service.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	require.NoError(s.T(), err)

	_, err = s.service.CompleteOrder(order.ID)
	assert.ErrorIs(s.T(), err, ErrInvalidStatusTransition)
	assert.Equal(s.T(), 10, *s.stockOf(product.ID))
}

func (s *OrderServiceTestSuite) TestUntrackedStockIsNeverDecremented() {
	product := createTestProduct(s.T(), s.db, 50000, nil, true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 50}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	_, err = s.service.CompleteOrder(order.ID)
	require.NoError(s.T(), err)

	assert.Nil(s.T(), s.stockOf(product.ID))
}

func (s *OrderServiceTestSuite) TestStatusMachine() {
	product := createTestProduct(s.T(), s.db, 50000, intPtr(10), true)
	prescription := s.approvedPrescription()

	order, err := s.service.CreateOrderFromPrescription(s.customer.ID, &CreateOrderFromPrescriptionRequest{
		PrescriptionID:  prescription.ID,
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		DeliveryAddress: "12 Hai Ba Trung, Q1, HCMC",
	})
	require.NoError(s.T(), err)

	updated, err := s.service.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusProcessing})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderStatusProcessing, updated.Status)

	// No way back to pending
	_, err = s.service.UpdateOrderStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPending})
	assert.ErrorIs(s.T(), err, ErrInvalidStatusTransition)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
