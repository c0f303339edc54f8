package repository

import (
	"errors"

	"haven/internal/models"

	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned by MarkRead when the id does not exist
// for the given recipient. A foreign recipient's id is indistinguishable from
// a missing one.
var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a record in the {unread, unsent} state.
func (r *NotificationRepository) Create(n *models.Notification) error {
	n.Unread = true
	n.Sent = false
	return r.db.Create(n).Error
}

func (r *NotificationRepository) list(recipientID uint, scope func(*gorm.DB) *gorm.DB) ([]models.Notification, error) {
	var list []models.Notification
	q := r.db.Where("recipient_id = ?", recipientID)
	if scope != nil {
		q = scope(q)
	}
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// ListAll returns every live notification for the recipient, newest first.
func (r *NotificationRepository) ListAll(recipientID uint) ([]models.Notification, error) {
	return r.list(recipientID, nil)
}

func (r *NotificationRepository) ListUnread(recipientID uint) ([]models.Notification, error) {
	return r.list(recipientID, func(q *gorm.DB) *gorm.DB { return q.Where("unread = ?", true) })
}

func (r *NotificationRepository) ListRead(recipientID uint) ([]models.Notification, error) {
	return r.list(recipientID, func(q *gorm.DB) *gorm.DB { return q.Where("unread = ?", false) })
}

func (r *NotificationRepository) ListUnsent(recipientID uint) ([]models.Notification, error) {
	return r.list(recipientID, func(q *gorm.DB) *gorm.DB { return q.Where("sent = ?", false) })
}

func (r *NotificationRepository) ListSent(recipientID uint) ([]models.Notification, error) {
	return r.list(recipientID, func(q *gorm.DB) *gorm.DB { return q.Where("sent = ?", true) })
}

// MarkAllSent flips sent=false→true for every live record owned by the
// recipient. Already-sent rows are untouched, so the call is idempotent.
func (r *NotificationRepository) MarkAllSent(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND sent = ?", recipientID, false).
		Update("sent", true).Error
}

// MarkRead flips one record unread=true→false. The recipient must own the
// record; otherwise ErrNotificationNotFound.
func (r *NotificationRepository) MarkRead(id, recipientID uint) error {
	var n models.Notification
	err := r.db.Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	if !n.Unread {
		return nil
	}
	return r.db.Model(&n).Update("unread", false).Error
}

// SoftDeleteAll removes every live notification for the recipient from all
// views and reports how many were affected. Rows stay in storage.
func (r *NotificationRepository) SoftDeleteAll(recipientID uint) (int64, error) {
	res := r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
