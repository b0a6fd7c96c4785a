package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"treinoexpresso/cmd/internal/domain/entity"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Order("email ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(id int64) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindBySub(sub string) (*entity.User, error) {
	var user entity.User
	err := u.db.Where("sub_uuid = ?", sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateIfAbsent inserts user unless its sub already exists, then returns the stored row.
// Two first requests of the same account racing each other end up with one row.
func (u *DefaultUserRepository) CreateIfAbsent(user *entity.User) (*entity.User, error) {
	err := u.db.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sub_uuid"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return nil, err
	}
	return u.FindBySub(user.SubUUID)
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

func (u *DefaultUserRepository) UpdateRole(id int64, role entity.Role, now int64) error {
	return u.db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": now}).Error
}
