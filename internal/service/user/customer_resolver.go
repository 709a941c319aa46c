// Package user 提供客人身份解析服务
package user

import (
	"context"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/common/database"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/errors"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/logger"
	"github.com/akhoa6204/booking-hotel-sub000/internal/common/utils"
	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
	"github.com/akhoa6204/booking-hotel-sub000/internal/repository"
)

// Identity 下单人身份，Guest 或 Registered
type Identity interface {
	contact() (fullName, email, phone string)
}

// Guest 未登录客人
type Guest struct {
	FullName string
	Email    string
	Phone    string
}

func (g Guest) contact() (string, string, string) { return g.FullName, g.Email, g.Phone }

// Registered 已登录用户
type Registered struct {
	UserID   int64
	FullName string
	Email    string
	Phone    string
}

func (r Registered) contact() (string, string, string) { return r.FullName, r.Email, r.Phone }

// CustomerResolver 按手机号和账号解析入住客人档案
type CustomerResolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCustomerResolver 创建客人解析器
func NewCustomerResolver(db *gorm.DB, log *zap.Logger) *CustomerResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerResolver{db: db, logger: log.Named("customer")}
}

// Resolve 解析客人档案，tx 为空时使用默认连接
func (r *CustomerResolver) Resolve(ctx context.Context, tx *gorm.DB, id Identity) (*models.Customer, error) {
	if tx == nil {
		tx = r.db
	}
	switch v := id.(type) {
	case Registered:
		return r.resolveRegistered(ctx, tx, v)
	case *Registered:
		return r.resolveRegistered(ctx, tx, *v)
	case Guest:
		return r.resolveGuest(ctx, tx, v)
	case *Guest:
		return r.resolveGuest(ctx, tx, *v)
	default:
		return nil, errors.ErrInvalidParams.WithMessage("未知的客人身份")
	}
}

func (r *CustomerResolver) resolveRegistered(ctx context.Context, tx *gorm.DB, in Registered) (*models.Customer, error) {
	customers := repository.NewCustomerRepository(tx)

	linked, err := customers.GetByLinkedUser(ctx, in.UserID)
	if err == nil {
		return r.fillBlanks(ctx, customers, linked, in.FullName, in.Email)
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	fullName, email, phone := in.FullName, strings.TrimSpace(in.Email), utils.NormalizePhone(in.Phone)
	if phone == "" || fullName == "" || email == "" {
		profile, err := repository.NewUserRepository(tx).GetByID(ctx, in.UserID)
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if profile != nil {
			if phone == "" {
				phone = utils.NormalizePhone(utils.SafeString(profile.Phone))
			}
			if fullName == "" {
				fullName = profile.FullName
			}
			if email == "" {
				email = utils.SafeString(profile.Email)
			}
		}
	}
	if phone == "" {
		return nil, errors.ErrMissingPhoneForCustomer
	}

	existing, err := customers.GetByPhoneForUpdate(ctx, phone)
	switch {
	case err == nil:
		if existing.LinkedUserID != nil && *existing.LinkedUserID != in.UserID {
			return nil, errors.ErrPhoneOwnedByAnotherUser
		}
		// 读到的未绑定状态可能已过期，以条件更新为准
		n, err := customers.LinkUser(ctx, existing.ID, in.UserID, blankFields(existing, fullName, email))
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if n == 0 {
			r.logger.Warn("customer linked concurrently by another user",
				logger.UserID(in.UserID), zap.Int64("customer_id", existing.ID))
			return nil, errors.ErrPhoneOwnedByAnotherUser
		}
		r.logger.Info("customer linked to user",
			logger.UserID(in.UserID), zap.Int64("customer_id", existing.ID))
		customer, err := customers.GetByID(ctx, existing.ID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		return customer, nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		customer := &models.Customer{
			Phone:        phone,
			FullName:     strings.TrimSpace(fullName),
			Email:        utils.OptionalString(email),
			CustomerType: models.CustomerTypeRegistered,
			LinkedUserID: &in.UserID,
		}
		if err := customers.Create(ctx, customer); err != nil {
			return nil, createError(err)
		}
		return customer, nil
	default:
		return nil, errors.ErrDatabaseError.WithError(err)
	}
}

func (r *CustomerResolver) resolveGuest(ctx context.Context, tx *gorm.DB, in Guest) (*models.Customer, error) {
	phone := utils.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, errors.ErrMissingPhoneForCustomer
	}
	customers := repository.NewCustomerRepository(tx)

	existing, err := customers.GetByPhoneForUpdate(ctx, phone)
	switch {
	case err == nil:
		if existing.LinkedUserID != nil {
			return nil, errors.ErrPhoneOwnedByRegistered
		}
		return r.fillGuestBlanks(ctx, customers, existing, in.FullName, in.Email)
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		customer := &models.Customer{
			Phone:        phone,
			FullName:     strings.TrimSpace(in.FullName),
			Email:        utils.OptionalString(strings.TrimSpace(in.Email)),
			CustomerType: models.CustomerTypeGuest,
		}
		if err := customers.Create(ctx, customer); err != nil {
			return nil, createError(err)
		}
		return customer, nil
	default:
		return nil, errors.ErrDatabaseError.WithError(err)
	}
}

// fillBlanks 只补全为空的姓名和邮箱，已有值优先
func (r *CustomerResolver) fillBlanks(ctx context.Context, customers *repository.CustomerRepository, c *models.Customer, fullName, email string) (*models.Customer, error) {
	fields := blankFields(c, fullName, email)
	if len(fields) == 0 {
		return c, nil
	}
	if err := customers.UpdateFields(ctx, c.ID, fields); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	applyBlanks(c, fields)
	return c, nil
}

// fillGuestBlanks 补全游客档案，档案在此期间被账号绑定时拒绝复用
func (r *CustomerResolver) fillGuestBlanks(ctx context.Context, customers *repository.CustomerRepository, c *models.Customer, fullName, email string) (*models.Customer, error) {
	fields := blankFields(c, fullName, email)
	if len(fields) == 0 {
		return c, nil
	}
	n, err := customers.UpdateUnlinkedFields(ctx, c.ID, fields)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if n == 0 {
		return nil, errors.ErrPhoneOwnedByRegistered
	}
	applyBlanks(c, fields)
	return c, nil
}

func applyBlanks(c *models.Customer, fields map[string]interface{}) {
	if v, ok := fields["full_name"]; ok {
		c.FullName = v.(string)
	}
	if v, ok := fields["email"]; ok {
		c.Email = utils.StringPtr(v.(string))
	}
}

func blankFields(c *models.Customer, fullName, email string) map[string]interface{} {
	fields := make(map[string]interface{})
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if c.FullName == "" && fullName != "" {
		fields["full_name"] = fullName
	}
	if utils.SafeString(c.Email) == "" && email != "" {
		fields["email"] = email
	}
	return fields
}

// 并发创建同一手机号时唯一索引兜底
func createError(err error) error {
	if database.IsUniqueViolation(err) {
		return errors.ErrAlreadyExists.WithMessage("客人档案已存在，请重试").WithError(err)
	}
	return errors.ErrDatabaseError.WithError(err)
}
