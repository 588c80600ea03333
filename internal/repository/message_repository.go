package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hummylol/oneonone/internal/domain"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

type GormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return oneonone_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *GormMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	var m domain.Message
	err := r.db.WithContext(ctx).
		Preload("Reactions").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Message{}, oneonone_errors.ErrNotFound
		}
		return domain.Message{}, err
	}
	return m, nil
}

func (r *GormMessageRepository) GetBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Reactions").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *GormMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Reaction{}, "message_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Message{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return oneonone_errors.ErrNotFound
		}
		return nil
	})
	return err
}

func (r *GormMessageRepository) UpsertReaction(ctx context.Context, reaction *domain.Reaction) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"emoji":      reaction.Emoji,
			"updated_at": time.Now(),
		}),
	}).Create(reaction)
	return res.Error
}

func (r *GormMessageRepository) RemoveReaction(ctx context.Context, messageID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Reaction{}, "message_id = ? AND user_id = ?", messageID, userID).Error
}

func (r *GormMessageRepository) GetReactions(ctx context.Context, messageID uuid.UUID) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC, id ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *GormMessageRepository) GetPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select("DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", userID).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
