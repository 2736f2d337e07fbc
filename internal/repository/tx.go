package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"travelhub/internal/domain"
)

// Repos groups every repository bound to the same *gorm.DB (or transaction).
type Repos struct {
	Identities    *IdentityRepository
	Users         *UserRepository
	Agents        *AgentRepository
	Packages      *PackageRepository
	Bookings      *BookingRepository
	Notifications *NotificationRepository
	Activities    *ActivityRepository
}

func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Identities:    NewIdentityRepository(db),
		Users:         NewUserRepository(db),
		Agents:        NewAgentRepository(db),
		Packages:      NewPackageRepository(db),
		Bookings:      NewBookingRepository(db),
		Notifications: NewNotificationRepository(db),
		Activities:    NewActivityRepository(db),
	}
}

// TxRunner runs a callback with repos bound to one transaction and commits or rolls back.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Run(ctx context.Context, fn func(repos Repos) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// SaveOutbox writes the activities and notifications of box in one transaction, so a
// redelivered outbox never leaves half of its rows behind. Notification IDs are filled in place.
func (r *TxRunner) SaveOutbox(ctx context.Context, box domain.Outbox) error {
	return r.Run(ctx, func(repos Repos) error {
		if err := repos.Activities.CreateBatch(ctx, box.Activities); err != nil {
			return fmt.Errorf("write activities: %w", err)
		}
		if err := repos.Notifications.CreateBatch(ctx, box.Notifications); err != nil {
			return fmt.Errorf("write notifications: %w", err)
		}
		return nil
	})
}
