package repository

import (
	"haven/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// ListExcluding returns user profiles excluding the given user (the requester).
func (r *UserRepository) ListExcluding(userID uint, limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("id <> ?", userID).Order("username").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// SetSubscribed flips the email-subscription flag. Idempotent.
func (r *UserRepository) SetSubscribed(userID uint, subscribed bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("is_subscribed", subscribed).Error
}
