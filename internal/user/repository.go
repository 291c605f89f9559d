package user

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	GetByNickname(nickname string) (*User, error)
	GetByEmail(email string) (*User, error)
	// List returns users in creation order so consecutive pagination
	// windows neither overlap nor skip records.
	List(skip, limit int) ([]*User, error)
	Update(user *User) error
	// Delete removes the record permanently and reports whether a row
	// actually existed.
	Delete(id string) (bool, error)
	Count() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(user *User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(id string) (*User, error) {
	return r.getOne("id = ?", id)
}

func (r *repository) GetByNickname(nickname string) (*User, error) {
	return r.getOne("nickname = ?", nickname)
}

func (r *repository) GetByEmail(email string) (*User, error) {
	return r.getOne("email = ?", email)
}

func (r *repository) getOne(query string, arg string) (*User, error) {
	var user User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(skip, limit int) ([]*User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	var users []*User
	err := r.db.
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}

func (r *repository) Delete(id string) (bool, error) {
	result := r.db.Delete(&User{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Count(&count).Error
	return count, err
}
