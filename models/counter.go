package models

import "gorm.io/gorm"

// SequenceCounter backs gapless document numbering. One row per key
// (e.g. "INV2501"); seq only ever moves forward.
type SequenceCounter struct {
	Key string `json:"key" gorm:"primaryKey;size:16"`
	Seq int64  `json:"seq" gorm:"not null;default:0"`
}

// NextSequence atomically increments and returns the counter for key,
// creating it at 1 on first use. The single upsert statement guarantees two
// concurrent callers never see the same value; there is no read-then-write
// fallback, so a failure here must abort the whole invoice creation.
func NextSequence(tx *gorm.DB, key string) (int64, error) {
	var seq int64
	err := tx.Raw(`
		INSERT INTO sequence_counters (key, seq) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET seq = sequence_counters.seq + 1
		RETURNING seq`, key).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
