package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreatePasswordResetToken(ctx context.Context, db *gorm.DB, userID uuid.UUID, exp time.Duration) (token string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token = hex.EncodeToString(b)
	err = db.WithContext(ctx).Exec(`
		INSERT INTO password_reset_tokens (token, user_id, expires_at)
		VALUES (?, ?, ?)
	`, token, userID, time.Now().Add(exp)).Error
	return token, err
}

// ConsumePasswordResetToken marca el token como usado y devuelve su usuario.
// Tokens vencidos, usados o inexistentes devuelven gorm.ErrRecordNotFound.
func ConsumePasswordResetToken(ctx context.Context, db *gorm.DB, token string) (uuid.UUID, error) {
	var row struct {
		UserID uuid.UUID `gorm:"column:user_id"`
	}
	err := db.WithContext(ctx).Raw(`
		UPDATE password_reset_tokens SET used_at = now()
		WHERE token = ? AND used_at IS NULL AND expires_at > now()
		RETURNING user_id
	`, token).Scan(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	if row.UserID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return row.UserID, nil
}
