package services

import (
	"sync"
	"time"

	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/utils"
)

// Flusher menunda penulisan snapshot ke disk: maksimal satu flush per
// jendela Interval, burst mutasi digabung jadi satu penulisan. FlushNow
// dipakai saat shutdown dan test agar tidak ada data tertinggal di memori.
type Flusher struct {
	store    *database.Store
	Interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewFlusher(store *database.Store, interval time.Duration) *Flusher {
	return &Flusher{
		store:    store,
		Interval: interval,
	}
}

// MarkDirty menjadwalkan flush bila belum ada yang menunggu. Panggilan
// berikutnya dalam jendela yang sama tidak menambah jadwal baru.
func (f *Flusher) MarkDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped || f.timer != nil {
		return
	}

	f.timer = time.AfterFunc(f.Interval, func() {
		f.mu.Lock()
		f.timer = nil
		f.mu.Unlock()

		if err := f.store.Flush(); err != nil {
			utils.ErrorLogger.Printf("Scheduled flush failed: %v", err)
		}
	})
}

// FlushNow membatalkan timer yang menunggu dan menulis snapshot sekarang.
func (f *Flusher) FlushNow() error {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	return f.store.Flush()
}

// Stop menutup flusher: flush terakhir secara sinkron, lalu tolak
// penjadwalan baru. Kontrak shutdown: tidak ada data hilang saat
// terminasi yang rapi.
func (f *Flusher) Stop() error {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()

	return f.FlushNow()
}
