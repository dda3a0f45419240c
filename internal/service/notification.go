package service

import (
	"context"

	"github.com/ashukla/ridepool/internal/models"
	"github.com/ashukla/ridepool/internal/repo"
)

type NotificationService struct {
	Repo *repo.GormRepo
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.Repo.NotificationsByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.Repo.MarkNotificationRead(ctx, id, userID)
}
