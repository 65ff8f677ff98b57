package repositories

import (
	"context"

	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// WithTx binds the repository to a transaction
func (r *UserRepositoryGORM) WithTx(tx *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: tx}
}

// GetByID retrieves a user without relationships
func (r *UserRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, wrap(err, "fetch user")
	}
	return &user, nil
}

// GetByEmail expects an already normalized address
func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, wrap(err, "fetch user by email")
	}
	return &user, nil
}

// GetManyByIDs returns users keyed by id
func (r *UserRepositoryGORM) GetManyByIDs(ctx context.Context, ids []uint) (map[uint]gormModels.User, error) {
	result := make(map[uint]gormModels.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []gormModels.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrap(err, "fetch users")
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	return wrap(r.db.WithContext(ctx).Create(user).Error, "create user")
}

// Update saves every column of the user
func (r *UserRepositoryGORM) Update(ctx context.Context, user *gormModels.User) error {
	return wrap(r.db.WithContext(ctx).Save(user).Error, "update user")
}
