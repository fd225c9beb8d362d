package repository

import (
	"context"

	messagedomain "github.com/unsentpro/unsent-api/internal/message/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() messagedomain.Repository {
	return &repo{}
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, entry *messagedomain.MessageLog) error {
	return db.WithContext(ctx).Create(entry).Error
}
