package repository

import (
	"github.com/vetpoint/vetpoint/internal/domain/appointment"
	"github.com/vetpoint/vetpoint/internal/domain/client"
	"github.com/vetpoint/vetpoint/internal/domain/loyalty"
	"github.com/vetpoint/vetpoint/internal/domain/tenant"
	"github.com/vetpoint/vetpoint/internal/dynamodb"
	"github.com/vetpoint/vetpoint/internal/logger"
	dynamoRepo "github.com/vetpoint/vetpoint/internal/repository/dynamodb"
)

func NewClientRepository(store *dynamodb.Store, logger *logger.Logger) client.Repository {
	return dynamoRepo.NewClientRepository(store, logger)
}

func NewLoyaltyRepository(store *dynamodb.Store, logger *logger.Logger) loyalty.Repository {
	return dynamoRepo.NewLoyaltyRepository(store, logger)
}

func NewAppointmentRepository(store *dynamodb.Store, logger *logger.Logger) appointment.Repository {
	return dynamoRepo.NewAppointmentRepository(store, logger)
}

func NewTenantRepository(store *dynamodb.Store, logger *logger.Logger) tenant.Repository {
	return dynamoRepo.NewTenantRepository(store, logger)
}
