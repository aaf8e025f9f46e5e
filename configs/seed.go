package configs

import (
	"strings"

	"orderdesk/entity"
	"orderdesk/pkg/logger"
	"orderdesk/repository"
	"orderdesk/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedStaff สร้างบัญชีพนักงานคนแรกจาก STAFF_EMAIL/STAFF_PASSWORD
func SeedStaff(db *gorm.DB, cfg *Config, log *logger.Logger) error {
	if cfg.StaffEmail == "" || cfg.StaffPassword == "" {
		log.Info("seed_staff", "", "skip seeding staff: missing STAFF_EMAIL/STAFF_PASSWORD")
		return nil
	}
	email := strings.ToLower(cfg.StaffEmail)
	repo := repository.NewStaffRepository(db)

	count, err := repo.CountByEmail(db, email)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("seed_staff", "", "staff already exists: "+email)
		return nil
	}

	hash, err := utils.HashPassword(cfg.StaffPassword)
	if err != nil {
		return err
	}
	return repo.Create(db, &entity.Staff{Email: email, Password: hash, Name: "Manager", Role: "manager"})
}

// SeedMenu ใส่เมนูตัวอย่างเมื่อเมนูยังว่าง
func SeedMenu(db *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := db.Model(&entity.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	menu := []entity.Item{
		{Name: "Борщ", Price: price("350.00")},
		{Name: "Пельмени", Price: price("420.00")},
		{Name: "Оливье", Price: price("280.00")},
		{Name: "Морс", Price: price("150.00")},
		{Name: "Чай", Price: price("90.00")},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}
	log.Info("seed_menu", "", "menu seeded")
	return nil
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
