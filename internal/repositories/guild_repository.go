package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"
	"rolevend/internal/models/db_models"
)

// GuildRepository groups the small per-guild settings tables: the manager
// role, the sales channel config and the purchaser name cache.
type GuildRepository interface {
	GetManagerRole(ctx context.Context, guildID string) (*db_models.ManagerRole, error)
	SetManagerRole(ctx context.Context, guildID, roleID, roleName string) (*db_models.ManagerRole, error)
	ClearManagerRole(ctx context.Context, guildID string) error

	GetConfig(ctx context.Context, guildID string) (*db_models.GuildConfig, error)
	SetSalesChannel(ctx context.Context, guildID, channelID string) (*db_models.GuildConfig, error)

	UpsertUser(ctx context.Context, guildID, userID, username string) error
	GetUser(ctx context.Context, guildID, userID string) (*db_models.User, error)
}

type guildRepository struct {
	db *gorm.DB
}

func NewGuildRepository(db *gorm.DB) GuildRepository {
	return &guildRepository{db: db}
}

func (r *guildRepository) GetManagerRole(ctx context.Context, guildID string) (*db_models.ManagerRole, error) {
	var mr db_models.ManagerRole
	err := r.db.WithContext(ctx).First(&mr, "guild_id = ?", guildID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mr, nil
}

func (r *guildRepository) SetManagerRole(ctx context.Context, guildID, roleID, roleName string) (*db_models.ManagerRole, error) {
	var mr db_models.ManagerRole

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&mr, "guild_id = ?", guildID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mr = db_models.ManagerRole{GuildID: guildID, RoleID: roleID, RoleName: roleName}
			return tx.Create(&mr).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&mr).Updates(map[string]interface{}{
			"role_id":   roleID,
			"role_name": roleName,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	mr.RoleID = roleID
	mr.RoleName = roleName
	return &mr, nil
}

func (r *guildRepository) ClearManagerRole(ctx context.Context, guildID string) error {
	err := r.db.WithContext(ctx).
		Delete(&db_models.ManagerRole{}, "guild_id = ?", guildID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (r *guildRepository) GetConfig(ctx context.Context, guildID string) (*db_models.GuildConfig, error) {
	var cfg db_models.GuildConfig
	err := r.db.WithContext(ctx).First(&cfg, "guild_id = ?", guildID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *guildRepository) SetSalesChannel(ctx context.Context, guildID, channelID string) (*db_models.GuildConfig, error) {
	var cfg db_models.GuildConfig

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&cfg, "guild_id = ?", guildID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = db_models.GuildConfig{GuildID: guildID, SalesChannelID: channelID}
			return tx.Create(&cfg).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&cfg).Update("sales_channel_id", channelID).Error
	})
	if err != nil {
		return nil, err
	}
	cfg.SalesChannelID = channelID
	return &cfg, nil
}

func (r *guildRepository) UpsertUser(ctx context.Context, guildID, userID, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u db_models.User
		err := tx.First(&u, "guild_id = ? AND user_id = ?", guildID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u = db_models.User{GuildID: guildID, UserID: userID, Username: username}
			return tx.Create(&u).Error
		}
		if err != nil {
			return err
		}
		if username == "" || u.Username == username {
			return nil
		}
		return tx.Model(&u).Update("username", username).Error
	})
}

func (r *guildRepository) GetUser(ctx context.Context, guildID, userID string) (*db_models.User, error) {
	var u db_models.User
	err := r.db.WithContext(ctx).First(&u, "guild_id = ? AND user_id = ?", guildID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
