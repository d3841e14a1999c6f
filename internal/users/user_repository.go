package users

import (
	"fmt"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
}

type userRepository struct {
	repo *repository.Repository
}

func NewUserRepository(r *repository.Repository) UserRepository {
	return &userRepository{repo: r}
}

func (r *userRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	insert := r.repo.GoquDBWrapper.
		Insert("users").
		Rows(goqu.Record{
			"username":      req.Username,
			"fullname":      req.Fullname,
			"password_hash": string(hashedPassword),
			"role":          req.Role,
			"active":        true,
		})

	if _, err := insert.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUser(id int) (*models.User, error) {
	var user models.User

	query := r.repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role", "active").
		From("users").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("user %d not found", id)
	}

	return &user, nil
}

func (r *userRepository) GetUsers() ([]models.User, error) {
	var users []models.User

	query := r.repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role", "active").
		From("users").
		Order(goqu.C("username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(id int, changes *models.UserChanges) error {
	record := goqu.Record{}
	if changes.Fullname != nil {
		record["fullname"] = *changes.Fullname
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		record["role"] = *changes.Role
	}
	if changes.Active != nil {
		record["active"] = *changes.Active
	}
	if len(record) == 0 {
		return nil
	}

	update := r.repo.GoquDBWrapper.
		Update("users").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := update.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}
