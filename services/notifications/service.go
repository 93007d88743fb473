package notifications

import (
	realtime_constants "DuoPlay/constants/realtime"
	"DuoPlay/models/postgres"
	"DuoPlay/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = utils.NewAppError(http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
	ErrRealtimeUnavailable  = errors.New("realtime gateway not initialized")
)

// Pusher delivers an event to every live connection in a room. Delivery is
// best effort and carries no acknowledgement.
type Pusher interface {
	EmitToRoom(room, event string, payload any) error
}

// Payload is the shape pushed on the "notification" event
type Payload struct {
	ID        string                    `json:"id"`
	Type      postgres.NotificationType `json:"type"`
	Title     string                    `json:"title"`
	Message   string                    `json:"message"`
	Data      json.RawMessage           `json:"data,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`
}

type List struct {
	Notifications []postgres.Notification `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
}

// Service persists notifications and pushes them to live connections
type Service struct {
	db     *gorm.DB
	pusher atomic.Pointer[pusherHolder]
}

type pusherHolder struct{ Pusher }

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetPusher attaches the realtime gateway once it is running. Until then
// notifications are only stored.
func (s *Service) SetPusher(p Pusher) {
	if p == nil {
		s.pusher.Store(nil)
		return
	}
	s.pusher.Store(&pusherHolder{p})
}

// Notify stores the notification and then tries to push it. A failed push is
// logged and otherwise ignored; the stored row is returned either way.
func (s *Service) Notify(ctx context.Context, userID string, kind postgres.NotificationType, title, message string, data any) (*postgres.Notification, error) {
	notification := &postgres.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding notification data: %w", err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("storing notification: %w", err)
	}

	if err := s.push(notification); err != nil {
		log.Printf("[NOTIFY] push to user %s skipped: %v", userID, err)
	}
	return notification, nil
}

func (s *Service) push(n *postgres.Notification) (err error) {
	holder := s.pusher.Load()
	if holder == nil {
		return ErrRealtimeUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("push panicked: %v", r)
		}
	}()

	return holder.EmitToRoom(realtime_constants.UserRoom(n.UserID), realtime_constants.EventNotification, Payload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      json.RawMessage(n.Data),
		CreatedAt: n.CreatedAt,
	})
}

// ListNotifications returns every notification of the user, newest first
func (s *Service) ListNotifications(ctx context.Context, userID string) (*List, error) {
	db := s.db.WithContext(ctx)

	list := &List{Notifications: []postgres.Notification{}}
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&list.Notifications).Error; err != nil {
		return nil, err
	}
	for _, n := range list.Notifications {
		if !n.IsRead {
			list.UnreadCount++
		}
	}
	return list, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&postgres.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification of the user as read. Marking an already
// read notification again succeeds without changes.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	db := s.db.WithContext(ctx)

	var n postgres.Notification
	if err := db.Select("id", "is_read").Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.IsRead {
		return nil
	}
	return db.Model(&postgres.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

// MarkAllRead marks every unread notification of the user and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&postgres.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
