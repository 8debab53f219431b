// Package benchmarks compares random fixed-width fetches through guarded
// mapped reads against pread and embedded key-value store baselines.
package benchmarks

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"testing"

	mdbxgo "github.com/erigontech/mdbx-go/mdbx"
	"github.com/tecbot/gorocksdb"
)

// BenchmarkRandReadInt64 benchmarks random int64 point fetches.
func BenchmarkRandReadInt64(b *testing.B) {
	sizes := []int{10_000, 100_000, 1_000_000}

	for _, size := range sizes {
		sizeName := formatSize(size)

		b.Run(fmt.Sprintf("RandRead_%s/mapread", sizeName), func(b *testing.B) {
			benchRandReadMapped(b, size)
		})
		b.Run(fmt.Sprintf("RandRead_%s/pread", sizeName), func(b *testing.B) {
			benchRandReadPread(b, size)
		})
		b.Run(fmt.Sprintf("RandRead_%s/bolt", sizeName), func(b *testing.B) {
			benchRandReadBolt(b, size)
		})
		b.Run(fmt.Sprintf("RandRead_%s/mdbx", sizeName), func(b *testing.B) {
			benchRandReadMdbx(b, size)
		})
		b.Run(fmt.Sprintf("RandRead_%s/rocksdb", sizeName), func(b *testing.B) {
			benchRandReadRocksDB(b, size)
		})
	}
}

func formatSize(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%dM", n/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%dk", n/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// randomOrder pre-generates a deterministic access order so the benchmarks
// measure the fetch, not the RNG.
func randomOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := int(uint64(i*17+31) % uint64(i+1))
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func benchRandReadMapped(b *testing.B, size int) {
	f, _ := getCachedValueFile(b, size)
	order := randomOrder(size)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		offset := int64(order[i%size]) * 8
		if _, err := f.ReadInt64(offset); err != nil {
			b.Fatal(err)
		}
	}
}

func benchRandReadPread(b *testing.B, size int) {
	_, rf := getCachedValueFile(b, size)
	order := randomOrder(size)
	buf := make([]byte, 8)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		offset := int64(order[i%size]) * 8
		if _, err := rf.ReadAt(buf, offset); err != nil {
			b.Fatal(err)
		}
		_ = binary.NativeEndian.Uint64(buf)
	}
}

func benchRandReadBolt(b *testing.B, size int) {
	db := getCachedBoltDB(b, size)

	tx, err := db.Begin(false)
	if err != nil {
		b.Fatal(err)
	}
	defer tx.Rollback()

	bucket := tx.Bucket([]byte("bench"))
	if bucket == nil {
		b.Fatal("bucket not found")
	}

	key := make([]byte, 8)
	order := randomOrder(size)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint64(key, uint64(order[i%size]))
		bucket.Get(key)
	}
}

func benchRandReadMdbx(b *testing.B, size int) {
	env := getCachedMdbxDB(b, size)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	txn, err := env.BeginTxn(nil, mdbxgo.Readonly)
	if err != nil {
		b.Fatal(err)
	}
	defer txn.Abort()

	dbi, err := txn.OpenDBI("bench", 0, nil, nil)
	if err != nil {
		b.Fatal(err)
	}

	key := make([]byte, 8)
	order := randomOrder(size)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint64(key, uint64(order[i%size]))
		txn.Get(dbi, key)
	}
}

func benchRandReadRocksDB(b *testing.B, size int) {
	db := getCachedRocksDB(b, size)

	ro := gorocksdb.NewDefaultReadOptions()
	defer ro.Destroy()

	key := make([]byte, 8)
	order := randomOrder(size)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		binary.BigEndian.PutUint64(key, uint64(order[i%size]))
		val, _ := db.Get(ro, key)
		if val != nil {
			val.Free()
		}
	}
}
