package distribution

// StorageInfo is the Drive quota of the account clips are shared from.
// A TotalBytes of 0 means the account has no storage limit.
type StorageInfo struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailableBytes int64
}

// Unlimited reports whether the account has no storage limit
func (s StorageInfo) Unlimited() bool {
	return s.TotalBytes <= 0
}

// HasSpaceFor reports whether a clip of the given size fits in the quota
func (s StorageInfo) HasSpaceFor(bytes int64) bool {
	return s.Unlimited() || s.AvailableBytes >= bytes
}
