package entity

// CacheEntry is one row of the TTL cache. The value is an opaque string; the
// row is always replaced as a whole, never partially updated.
type CacheEntry struct {
	Key       string `gorm:"primaryKey" json:"key"`
	Value     string `gorm:"not null" json:"value"`
	UpdatedAt int64  `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the CacheEntry model.
func (CacheEntry) TableName() string {
	return "cache_entries"
}
