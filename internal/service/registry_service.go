package service

import (
	"context"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

// StatusService manages the order status labels
type StatusService struct {
	repo repository.StatusRepository
}

func NewStatusService(repo repository.StatusRepository) *StatusService {
	return &StatusService{repo: repo}
}

func (s *StatusService) ListStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	return s.repo.List(ctx)
}

func (s *StatusService) CreateStatus(ctx context.Context, name string) (*models.OrderStatus, error) {
	status := &models.OrderStatus{Name: name}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *StatusService) DeleteStatus(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// CustomerService manages customers
type CustomerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, username, email string) (*models.Customer, error) {
	customer := &models.Customer{Username: username, Email: email}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
