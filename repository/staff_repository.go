package repository

import (
	"orderdesk/entity"

	"gorm.io/gorm"
)

// StaffRepository คุยกับตาราง staff เท่านั้น
type StaffRepository struct {
	DB *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{DB: db}
}

// หาพนักงานจาก email (เก็บเป็นตัวพิมพ์เล็ก)
func (r *StaffRepository) FindByEmail(tx *gorm.DB, email string) (*entity.Staff, error) {
	var st entity.Staff
	if err := tx.Where("email = ?", email).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// นับจำนวน staff ที่มี email ซ้ำ
func (r *StaffRepository) CountByEmail(tx *gorm.DB, email string) (int64, error) {
	var count int64
	if err := tx.Model(&entity.Staff{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// สร้าง staff ใหม่
func (r *StaffRepository) Create(tx *gorm.DB, st *entity.Staff) error {
	return tx.Create(st).Error
}

// โหลด staff ตาม ID
func (r *StaffRepository) FindByID(tx *gorm.DB, id uint) (*entity.Staff, error) {
	var st entity.Staff
	if err := tx.First(&st, id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}
