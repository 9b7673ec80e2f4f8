package models

import "time"

// Setting menyimpan konfigurasi aplikasi sebagai pasangan key→value.
// Value berupa string mentah; key terstruktur (mis. operating_hours)
// menyimpan JSON. Tidak ada riwayat, upsert per key.
type Setting struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Key       string `gorm:"type:varchar(100);unique;not null" json:"key"`
	Value     string `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
