package contract

import "context"

// SnapshotRepository is an opaque key/value slot store. The document
// autosave and every named palette store each own one key.
type SnapshotRepository interface {
	Write(ctx context.Context, key string, data []byte) error
	// Read returns found=false, with a nil error, when key has never been written.
	Read(ctx context.Context, key string) (data []byte, found bool, err error)
}
