package implementation

import (
	"context"
	"errors"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProviderConfigMapper
}

func NewProviderConfigRepository(db *gorm.DB) contract.ProviderConfigRepository {
	return &ProviderConfigRepositoryImpl{
		db:     db,
		mapper: mapper.NewProviderConfigMapper(),
	}
}

func (r *ProviderConfigRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProviderConfigRepositoryImpl) Save(ctx context.Context, config *entity.ProviderConfig) error {
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProviderConfigRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProviderConfig{}, id).Error
}

func (r *ProviderConfigRepositoryImpl) ClearDefaults(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ProviderConfig{}).
		Where("user_id = ?", userId).
		Update("is_default", false).Error
}

func (r *ProviderConfigRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error) {
	var m model.ProviderConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProviderConfigRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error) {
	var models []*model.ProviderConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ProviderConfig, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
