package benchmarks

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	mdbxgo "github.com/erigontech/mdbx-go/mdbx"
	"github.com/tecbot/gorocksdb"
	bolt "go.etcd.io/bbolt"

	"github.com/Giulio2002/mapread"
)

// Cached benchmark fixture directory
const benchCacheDir = "testdata/benchdb"

var (
	cacheMu  sync.Mutex
	mapFiles = make(map[string]*mapread.File)
	rawFiles = make(map[string]*os.File)
	boltDBs  = make(map[string]*bolt.DB)
	mdbxEnvs = make(map[string]*mdbxgo.Env)
	rocksDBs = make(map[string]*gorocksdb.DB)
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// getCachedValueFile returns a cached flat value file of size int64s
// (value i stored native-endian at offset i*8), mapped and raw-opened,
// creating the file if needed.
func getCachedValueFile(b *testing.B, size int) (*mapread.File, *os.File) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("values_%d", size)
	path := filepath.Join(benchCacheDir, fmt.Sprintf("values_%d.dat", size))

	if f, ok := mapFiles[key]; ok {
		return f, rawFiles[key]
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	if !fileExists(path) {
		b.Logf("Creating cached value file with %d entries...", size)
		data := make([]byte, size*8)
		for i := 0; i < size; i++ {
			binary.NativeEndian.PutUint64(data[i*8:], uint64(i))
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			b.Fatal(err)
		}
	} else {
		b.Logf("Using cached value file with %d entries", size)
	}

	mapread.Install()

	mf, err := mapread.Open(path)
	if err != nil {
		b.Fatal(err)
	}

	rf, err := os.Open(path)
	if err != nil {
		mf.Close()
		b.Fatal(err)
	}

	mapFiles[key] = mf
	rawFiles[key] = rf
	return mf, rf
}

// getCachedBoltDB returns a cached BoltDB holding the same values keyed by
// big-endian index, creating it if needed.
func getCachedBoltDB(b *testing.B, size int) *bolt.DB {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("bolt_%d", size)
	boltPath := filepath.Join(benchCacheDir, fmt.Sprintf("values_%d_bolt.db", size))

	if db, ok := boltDBs[key]; ok {
		return db
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	boltExists := fileExists(boltPath)

	db, err := bolt.Open(boltPath, 0644, &bolt.Options{
		NoSync:         true,
		NoFreelistSync: true,
	})
	if err != nil {
		b.Fatal(err)
	}

	if !boltExists {
		b.Logf("Creating cached BoltDB with %d entries...", size)
		populateBoltDBCached(b, db, size)
	} else {
		b.Logf("Using cached BoltDB with %d entries", size)
	}

	boltDBs[key] = db
	return db
}

func populateBoltDBCached(b *testing.B, db *bolt.DB, numKeys int) {
	batchSize := 100_000
	key := make([]byte, 8)
	val := make([]byte, 8)

	for written := 0; written < numKeys; written += batchSize {
		batchEnd := written + batchSize
		if batchEnd > numKeys {
			batchEnd = numKeys
		}

		err := db.Update(func(tx *bolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists([]byte("bench"))
			if err != nil {
				return err
			}
			for i := written; i < batchEnd; i++ {
				binary.BigEndian.PutUint64(key, uint64(i))
				binary.NativeEndian.PutUint64(val, uint64(i))
				if err := bucket.Put(key, val); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

// getCachedMdbxDB returns a cached mdbx database with the same contents,
// creating it if needed.
func getCachedMdbxDB(b *testing.B, size int) *mdbxgo.Env {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("mdbx_%d", size)
	mdbxPath := filepath.Join(benchCacheDir, fmt.Sprintf("values_%d_mdbx.db", size))

	if env, ok := mdbxEnvs[key]; ok {
		return env
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	mdbxExists := fileExists(mdbxPath)

	runtime.LockOSThread()
	env, err := mdbxgo.NewEnv(mdbxgo.Label("bench"))
	if err != nil {
		b.Fatal(err)
	}
	env.SetOption(mdbxgo.OptMaxDB, 10)
	env.SetGeometry(-1, -1, 1<<32, -1, -1, 4096) // 4GB max
	if err := env.Open(mdbxPath, mdbxgo.NoSubdir|mdbxgo.NoMetaSync|mdbxgo.WriteMap, 0644); err != nil {
		b.Fatal(err)
	}
	runtime.UnlockOSThread()

	if !mdbxExists {
		b.Logf("Creating cached mdbx DB with %d entries...", size)
		populateMdbxDBCached(b, env, size)
	} else {
		b.Logf("Using cached mdbx DB with %d entries", size)
	}

	mdbxEnvs[key] = env
	return env
}

func populateMdbxDBCached(b *testing.B, env *mdbxgo.Env, numKeys int) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	txn, err := env.BeginTxn(nil, 0)
	if err != nil {
		b.Fatal(err)
	}
	dbi, err := txn.OpenDBI("bench", mdbxgo.Create, nil, nil)
	if err != nil {
		b.Fatal(err)
	}

	batchSize := 100_000
	key := make([]byte, 8)
	val := make([]byte, 8)

	for i := 0; i < numKeys; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		binary.NativeEndian.PutUint64(val, uint64(i))

		if err := txn.Put(dbi, key, val, mdbxgo.Upsert); err != nil {
			b.Fatal(err)
		}

		if (i+1)%batchSize == 0 {
			if _, err := txn.Commit(); err != nil {
				b.Fatal(err)
			}
			txn, err = env.BeginTxn(nil, 0)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	if _, err := txn.Commit(); err != nil {
		b.Fatal(err)
	}
}

// getCachedRocksDB returns a cached RocksDB with the same contents,
// creating it if needed.
func getCachedRocksDB(b *testing.B, size int) *gorocksdb.DB {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("rocks_%d", size)
	rocksPath := filepath.Join(benchCacheDir, fmt.Sprintf("values_%d_rocks.db", size))

	if db, ok := rocksDBs[key]; ok {
		return db
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	rocksExists := fileExists(rocksPath)

	opts := gorocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetWriteBufferSize(64 * 1024 * 1024)
	opts.SetMaxWriteBufferNumber(3)

	db, err := gorocksdb.OpenDb(opts, rocksPath)
	if err != nil {
		b.Fatal(err)
	}

	if !rocksExists {
		b.Logf("Creating cached RocksDB with %d entries...", size)
		populateRocksDBCached(b, db, size)
	} else {
		b.Logf("Using cached RocksDB with %d entries", size)
	}

	rocksDBs[key] = db
	return db
}

func populateRocksDBCached(b *testing.B, db *gorocksdb.DB, numKeys int) {
	wo := gorocksdb.NewDefaultWriteOptions()
	defer wo.Destroy()

	batch := gorocksdb.NewWriteBatch()
	defer batch.Destroy()

	batchSize := 100_000
	key := make([]byte, 8)
	val := make([]byte, 8)

	for i := 0; i < numKeys; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		binary.NativeEndian.PutUint64(val, uint64(i))
		batch.Put(key, val)

		if (i+1)%batchSize == 0 {
			if err := db.Write(wo, batch); err != nil {
				b.Fatal(err)
			}
			batch.Clear()
		}
	}

	if batch.Count() > 0 {
		if err := db.Write(wo, batch); err != nil {
			b.Fatal(err)
		}
	}
}
