package database

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/danuarta/perpustakaan-app/models"
	"github.com/danuarta/perpustakaan-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store memiliki image database SQLite di memori yang dicerminkan ke satu
// file snapshot di disk. Semua query berjalan terhadap image di memori;
// penulisan ke disk dilakukan lewat Flush (dipicu Flusher atau shutdown).
type Store struct {
	DB    *gorm.DB
	path  string
	mu    sync.Mutex
	ready bool
}

var memSeq uint64

// Open membuka image in-memory, memigrasi skema, lalu memulihkan isi dari
// file snapshot bila ada. path kosong berarti murni in-memory (untuk test).
func Open(path string) (*Store, error) {
	// DSN unik per store supaya instance test tidak saling berbagi image
	seq := atomic.AddUint64(&memSeq, 1)
	dsn := fmt.Sprintf("file:perpusmem%d?mode=memory&cache=shared", seq)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}

	// Satu koneksi saja: image memori hilang jika koneksi terakhir tertutup,
	// dan semua operasi store memang sinkron
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Visit{},
		&models.Admin{},
		&models.Setting{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	s := &Store{DB: db, path: path}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := s.restore(); err != nil {
				return nil, fmt.Errorf("restore snapshot: %w", err)
			}
		}
	}

	s.ready = true
	return s, nil
}

// restore menyalin isi snapshot disk ke image memori, tabel per tabel.
// Tabel yang belum ada di snapshot lama dilewati.
func (s *Store) restore() error {
	if err := s.DB.Exec("ATTACH DATABASE ? AS snapshot", s.path).Error; err != nil {
		return err
	}
	defer s.DB.Exec("DETACH DATABASE snapshot")

	for _, table := range []string{"visits", "admins", "settings"} {
		var count int64
		err := s.DB.Raw(
			"SELECT COUNT(*) FROM snapshot.sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		if err := s.DB.Exec(
			fmt.Sprintf("INSERT INTO main.%s SELECT * FROM snapshot.%s", table, table),
		).Error; err != nil {
			return err
		}
	}

	return nil
}

// Flush menulis image memori ke file snapshot secara atomik
// (VACUUM INTO file sementara lalu rename).
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := s.DB.Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}

	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf("Snapshot flushed to %s", s.path)
	}
	return nil
}

func (s *Store) Ready() bool {
	return s.ready
}

func (s *Store) Close() error {
	s.ready = false
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
