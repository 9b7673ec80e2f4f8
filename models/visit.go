package models

import "time"

// Visit adalah satu kehadiran (satu orang, satu ruangan, satu waktu).
// Baris tidak pernah dihapus; satu-satunya update adalah pengisian
// LockerReturnedAt saat loker dikembalikan.
type Visit struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Nama             string     `gorm:"type:varchar(255);not null" json:"nama"`
	NIM              string     `gorm:"column:nim;type:varchar(50);not null" json:"nim"`
	Prodi            string     `gorm:"type:varchar(255);not null" json:"prodi"`
	Fakultas         string     `gorm:"type:varchar(255);not null" json:"fakultas"`
	Gender           string     `gorm:"type:varchar(1);not null" json:"gender"`
	Ruangan          string     `gorm:"type:varchar(50);not null;index" json:"ruangan"`
	Umur             *int       `json:"umur,omitempty"`
	LockerNumber     *string    `gorm:"type:varchar(20);index" json:"locker_number,omitempty"`
	VisitTime        time.Time  `gorm:"not null;index" json:"visit_time"`
	LockerReturnedAt *time.Time `json:"locker_returned_at"`
}
