package database

import (
	"github.com/zenithwebstudios/billing-service/internal/adapter/repository"
	domainRepo "github.com/zenithwebstudios/billing-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Webhook      domainRepo.WebhookRepository
	Subscription domainRepo.SubscriptionRepository
	Invoice      domainRepo.InvoiceRepository
	Plan         domainRepo.PlanRepository
	Profile      domainRepo.ProfileRepository
	Payment      domainRepo.PaymentRepository
	Notification domainRepo.NotificationRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Webhook:      repository.NewWebhookRepository(db, logger),
		Subscription: repository.NewSubscriptionRepository(db, logger),
		Invoice:      repository.NewInvoiceRepository(db, logger),
		Plan:         repository.NewPlanRepository(db, logger),
		Profile:      repository.NewProfileRepository(db, logger),
		Payment:      repository.NewPaymentRepository(db, logger),
		Notification: repository.NewNotificationRepository(db, logger),
	}
}
