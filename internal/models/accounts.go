package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserAccount is the stub server's persisted user row.
type UserAccount struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"size:255"`
	FullName     string `gorm:"size:255"`
	Phone        string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// Doc renders the account the way the original backend does: Mongo-style
// "_id" and snake_case "full_name", so the client's normalization layer gets
// exercised against the real shape.
func (u *UserAccount) Doc() map[string]interface{} {
	return map[string]interface{}{
		"_id":        u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// CreateUserAccount hashes the password and inserts the account.
func CreateUserAccount(db *gorm.DB, email, password, fullName, phone string) (*UserAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &UserAccount{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Phone:        phone,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByEmail returns nil without error when no account matches.
func FindUserByEmail(db *gorm.DB, email string) (*UserAccount, error) {
	var u UserAccount
	err := db.First(&u, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByID returns nil without error when no account matches.
func FindUserByID(db *gorm.DB, id string) (*UserAccount, error) {
	var u UserAccount
	err := db.First(&u, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CheckPassword verifies a login attempt.
func (u *UserAccount) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// TouchLogin stamps last_login.
func (u *UserAccount) TouchLogin(db *gorm.DB) error {
	now := time.Now().UTC()
	u.LastLogin = &now
	return db.Model(u).Update("last_login", now).Error
}
