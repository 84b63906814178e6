package user

import (
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/internal/watch"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const usersTable = "users"

type (
	UserRepository interface {
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		// UpsertUser inserts the user, replacing an existing row with the
		// same primary key. A duplicate sign-up attempt is therefore
		// idempotent instead of erroring.
		UpsertUser(ctx context.Context, user *entities.User) error
		UpdateUser(ctx context.Context, user *entities.User) error
		DeleteUser(ctx context.Context, id uint) error

		ObserveUserByID(ctx context.Context, id uint) <-chan *entities.User
	}

	userRepository struct {
		db  *gorm.DB
		hub *watch.Hub
	}
)

func NewUserRepository(db *gorm.DB, hub *watch.Hub) UserRepository {
	return &userRepository{db: db, hub: hub}
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpsertUser(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(user).Error
	if err != nil {
		return err
	}
	r.hub.Notify(usersTable, user.ID)
	return nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	r.hub.Notify(usersTable, user.ID)
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.User{}).Error; err != nil {
		return err
	}
	r.hub.Notify(usersTable, id)
	return nil
}

// ObserveUserByID re-reads the row on every write to it. A deleted row
// emits nil, matching the optional shape of the point lookup.
func (r *userRepository) ObserveUserByID(ctx context.Context, id uint) <-chan *entities.User {
	return watch.Observe(ctx, r.hub, usersTable, id, func(ctx context.Context) (*entities.User, error) {
		var users []entities.User
		if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&users).Error; err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, nil
		}
		return &users[0], nil
	})
}
