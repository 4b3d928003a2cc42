package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fast-admin/fastadmin/auth"
	"github.com/fast-admin/fastadmin/models"
)

// UserStore provides principal lookups and user administration.
type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{DB: db} }

func (s *UserStore) GetByUsername(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("user_name = ?", name).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("last_login", at).Error
}

// RoleCodes returns the role codes assigned to a user, resolved per request.
func (s *UserStore) RoleCodes(ctx context.Context, userID int64) ([]string, error) {
	var codes []string
	err := s.DB.WithContext(ctx).Model(&models.Role{}).
		Joins("JOIN users_roles ON users_roles.role_id = roles.id").
		Where("users_roles.users_id = ?", userID).
		Order("roles.role_code ASC").
		Pluck("roles.role_code", &codes).Error
	return codes, err
}

// ButtonCodes returns the distinct button codes reachable through the
// user's roles.
func (s *UserStore) ButtonCodes(ctx context.Context, userID int64) ([]string, error) {
	var codes []string
	err := s.DB.WithContext(ctx).Model(&models.Button{}).Distinct("buttons.button_code").
		Joins("JOIN roles_buttons ON roles_buttons.button_id = buttons.id").
		Joins("JOIN users_roles ON users_roles.role_id = roles_buttons.roles_id").
		Where("users_roles.users_id = ?", userID).
		Order("buttons.button_code ASC").
		Pluck("buttons.button_code", &codes).Error
	return codes, err
}

// AllButtonCodes returns every button code. Super admins receive the full
// catalog regardless of role links.
func (s *UserStore) AllButtonCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := s.DB.WithContext(ctx).Model(&models.Button{}).Distinct("button_code").
		Order("button_code ASC").
		Pluck("button_code", &codes).Error
	return codes, err
}

// UserSearchParams are the enumerated filters of the user list endpoint.
type UserSearchParams struct {
	UserName   string `form:"userName"`
	UserGender string `form:"userGender"`
	NickName   string `form:"nickName"`
	UserPhone  string `form:"userPhone"`
	UserEmail  string `form:"userEmail"`
	Status     string `form:"status"`
	Page
}

// UserWithRoles is a user row with its role codes resolved for the list view.
type UserWithRoles struct {
	models.User
	UserRoles []string `gorm:"-" json:"userRoles"`
}

// Search lists users with optional filters, newest id first.
func (s *UserStore) Search(ctx context.Context, params UserSearchParams) ([]UserWithRoles, int64, error) {
	page := params.Page.Normalized()
	scope := func(db *gorm.DB) *gorm.DB {
		if params.UserName != "" {
			db = db.Where("user_name LIKE ?", contains(params.UserName))
		}
		if params.UserGender != "" {
			db = db.Where("user_gender = ?", params.UserGender)
		}
		if params.NickName != "" {
			db = db.Where("nick_name LIKE ?", contains(params.NickName))
		}
		if params.UserPhone != "" {
			db = db.Where("user_phone LIKE ?", contains(params.UserPhone))
		}
		if params.UserEmail != "" {
			db = db.Where("user_email LIKE ?", contains(params.UserEmail))
		}
		if params.Status != "" {
			db = db.Where("status = ?", params.Status)
		}
		return db
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.DB.WithContext(ctx).Model(&models.User{}).Scopes(scope).
		Order("id DESC").
		Offset(page.offset()).Limit(page.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]UserWithRoles, len(users))
	for i, u := range users {
		codes, err := s.RoleCodes(ctx, u.ID)
		if err != nil {
			return nil, 0, err
		}
		if codes == nil {
			codes = []string{}
		}
		rows[i] = UserWithRoles{User: u, UserRoles: codes}
	}
	return rows, total, nil
}

// Create inserts a user with a bcrypt-hashed password and optional role codes.
func (s *UserStore) Create(ctx context.Context, user *models.User, plainPassword string, roleCodes []string) error {
	hash, err := auth.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	if user.UserGender == "" {
		user.UserGender = models.GenderUnknown
	}
	if user.Status == "" {
		user.Status = models.StatusEnable
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return s.setRolesTx(tx, user.ID, roleCodes)
	})
}

// Update patches the provided fields and replaces role links when roleCodes
// is non-nil.
func (s *UserStore) Update(ctx context.Context, id int64, updates map[string]interface{}, roleCodes []string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return auth.ErrPrincipalNotFound
			}
		}
		if roleCodes != nil {
			if err := tx.Where("users_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
				return err
			}
			return s.setRolesTx(tx, id, roleCodes)
		}
		return nil
	})
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("users_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (s *UserStore) BatchDelete(ctx context.Context, ids []int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("users_id IN ?", ids).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, ids).Error
	})
}

func (s *UserStore) setRolesTx(tx *gorm.DB, userID int64, roleCodes []string) error {
	for _, code := range roleCodes {
		var role models.Role
		if err := tx.Where("role_code = ?", code).First(&role).Error; err != nil {
			return err
		}
		link := models.UserRole{UserID: userID, RoleID: role.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
