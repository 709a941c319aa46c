package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// UserRepository 账号仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建账号
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取账号
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CustomerRepository 客人档案仓储
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客人档案仓储
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create 创建客人档案
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID 根据 ID 获取客人
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByPhoneForUpdate 根据手机号获取客人并加行锁
func (r *CustomerRepository) GetByPhoneForUpdate(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("phone = ?", phone).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByLinkedUser 获取绑定到账号的客人
func (r *CustomerRepository) GetByLinkedUser(ctx context.Context, userID int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("linked_user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateFields 更新指定字段
func (r *CustomerRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(fields).Error
}

// LinkUser 把客人绑定到账号，仅当未绑定或已绑定到同一账号时生效
// 返回受影响行数，0 表示已被其他账号绑定
func (r *CustomerRepository) LinkUser(ctx context.Context, id, userID int64, fields map[string]interface{}) (int64, error) {
	updates := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		updates[k] = v
	}
	updates["linked_user_id"] = userID
	updates["customer_type"] = models.CustomerTypeRegistered

	result := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND (linked_user_id IS NULL OR linked_user_id = ?)", id, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateUnlinkedFields 更新未绑定账号的客人，返回受影响行数
func (r *CustomerRepository) UpdateUnlinkedFields(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND linked_user_id IS NULL", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}
