package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string    `gorm:"column:email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Username     string    `gorm:"column:username" json:"username"`
	Name         string    `gorm:"column:name" json:"name"`
	ApellidoP    string    `gorm:"column:apellido_p" json:"apellido_p"`
	ApellidoM    string    `gorm:"column:apellido_m" json:"apellido_m"`
	Phone        string    `gorm:"column:phone" json:"phone"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ProfileColumns son las columnas que el propio usuario puede editar.
var ProfileColumns = []string{"name", "apellido_p", "apellido_m", "phone", "username", "avatar_url"}

func CreateUser(ctx context.Context, db *gorm.DB, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return db.WithContext(ctx).Create(u).Error
}

func UserByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error) {
	var u User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func UserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*User, error) {
	var u User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

// UpdateUserProfile aplica solo las columnas presentes en fields (subconjunto de ProfileColumns).
func UpdateUserProfile(ctx context.Context, db *gorm.DB, id uuid.UUID, fields map[string]any) (*User, error) {
	res := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return UserByID(ctx, db, id)
}

func SetUserPassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string) error {
	res := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
