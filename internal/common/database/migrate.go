package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/akhoa6204/booking-hotel-sub000/internal/models"
)

// BookingOverlapConstraint 同一房间占用区间不得重叠的排它约束名
const BookingOverlapConstraint = "ex_booking_room_overlap"

// Models 需要迁移的模型
func Models() []interface{} {
	return []interface{}{
		&models.Hotel{},
		&models.RoomType{},
		&models.Room{},
		&models.User{},
		&models.Customer{},
		&models.Promotion{},
		&models.Booking{},
		&models.CancelReason{},
		&models.Payment{},
		&models.OperationLog{},
	}
}

// Migrate 迁移表结构，PostgreSQL 上额外建立预订区间排它约束
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return ensureOverlapConstraint(db)
}

func ensureOverlapConstraint(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE bookings ADD CONSTRAINT %[1]s
			EXCLUDE USING gist (room_id WITH =, daterange(check_in, check_out, '[)') WITH &&)
			WHERE (status IN ('%[2]s', '%[3]s'));
	END IF;
END $$;`, BookingOverlapConstraint, models.BookingStatusConfirmed, models.BookingStatusCheckedIn)

	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create overlap constraint: %w", err)
	}
	return nil
}
