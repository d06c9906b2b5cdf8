package storage

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/PowerDNS/lmdb-go/lmdb"
	pkgerrors "github.com/pkg/errors"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

const (
	MaxKeySize   = 511
	dirPerm      = 0755
	filePerm     = 0644
	maxDatabases = 1
	mapSizeBytes = 1 << 30
	noFlags      = 0
	performFlags = lmdb.WriteMap | lmdb.NoMetaSync | lmdb.NoSync | lmdb.MapAsync | lmdb.NoReadahead
	databaseName = "replikv"
)

// LMDB backs the keyspace with an lmdb environment in a scratch directory.
// Nothing survives Close: the directory is removed with the environment.
type LMDB struct {
	env *lmdb.Env
	dbi lmdb.DBI
	dir string
}

func NewLMDB(dataDir string) (*LMDB, error) {
	err := os.MkdirAll(dataDir, dirPerm)
	if hasError(err) {
		return nil, pkgerrors.Wrap(err, "create data dir")
	}

	dir, err := os.MkdirTemp(dataDir, "replikv-*")
	if hasError(err) {
		return nil, pkgerrors.Wrap(err, "create scratch dir")
	}

	env, err := lmdb.NewEnv()

	if noError(err) {
		err = env.SetMaxDBs(maxDatabases)
	}

	if noError(err) {
		err = env.SetMapSize(mapSizeBytes)
	}

	if noError(err) {
		err = env.Open(dir, performFlags, filePerm)
	}

	if hasError(err) {
		closeQuietly(env)
		_ = os.RemoveAll(dir)
		return nil, pkgerrors.Wrap(err, "open lmdb env")
	}

	var dbi lmdb.DBI
	err = env.Update(func(txn *lmdb.Txn) (txnErr error) {
		dbi, txnErr = txn.OpenDBI(databaseName, lmdb.Create)
		return txnErr
	})

	if hasError(err) {
		closeQuietly(env)
		_ = os.RemoveAll(dir)
		return nil, pkgerrors.Wrap(err, "open lmdb database")
	}

	return &LMDB{env: env, dbi: dbi, dir: dir}, nil
}

func (storage *LMDB) Get(ctx context.Context, key []byte, now time.Time) ([]byte, error) {
	if err := storage.check(ctx, key); hasError(err) {
		return nil, err
	}

	var result []byte
	expired := false

	err := storage.env.View(func(txn *lmdb.Txn) error {
		record, txnErr := txn.Get(storage.dbi, key)

		if isNotFound(txnErr) {
			return domain.ErrKeyNotFound
		}

		if hasError(txnErr) {
			return txnErr
		}

		value, deadline := decodeRecord(record)
		if isExpired(deadline, now) {
			expired = true
			return domain.ErrKeyNotFound
		}

		result = bytes.Clone(value)
		return nil
	})

	if expired {
		storage.evict(key, now)
	}

	return result, err
}

func (storage *LMDB) Set(ctx context.Context, key, value []byte, expiry time.Duration, now time.Time) ([]byte, error) {
	if err := storage.check(ctx, key); hasError(err) {
		return nil, err
	}

	var previous []byte

	err := storage.env.Update(func(txn *lmdb.Txn) error {
		record, txnErr := txn.Get(storage.dbi, key)

		if noError(txnErr) {
			old, deadline := decodeRecord(record)
			if !isExpired(deadline, now) {
				previous = bytes.Clone(old)
			}
		}

		if hasError(txnErr) && !isNotFound(txnErr) {
			return txnErr
		}

		return txn.Put(storage.dbi, key, encodeRecord(value, deadlineOf(expiry, now)), noFlags)
	})

	if hasError(err) {
		return nil, pkgerrors.Wrap(err, "lmdb set")
	}

	return previous, nil
}

// Size counts stored records, including expired ones not yet evicted.
func (storage *LMDB) Size(ctx context.Context) (int, error) {
	if err := ctxFlush(ctx); hasError(err) {
		return 0, err
	}

	size := 0
	err := storage.env.View(func(txn *lmdb.Txn) error {
		stat, txnErr := txn.Stat(storage.dbi)
		if hasError(txnErr) {
			return txnErr
		}

		size = int(stat.Entries)
		return nil
	})

	return size, err
}

func (storage *LMDB) Close() error {
	storage.env.CloseDBI(storage.dbi)
	err := storage.env.Close()
	removeErr := os.RemoveAll(storage.dir)

	if hasError(err) {
		return err
	}

	return removeErr
}

func (storage *LMDB) Dir() string {
	return storage.dir
}

func (storage *LMDB) check(ctx context.Context, key []byte) error {
	if err := ctxFlush(ctx); hasError(err) {
		return err
	}

	if len(key) == 0 || len(key) > MaxKeySize {
		return domain.NewInvalidStoreError("ERR key length is not supported by the lmdb backend")
	}

	return nil
}

func (storage *LMDB) evict(key []byte, now time.Time) {
	_ = storage.env.Update(func(txn *lmdb.Txn) error {
		record, err := txn.Get(storage.dbi, key)
		if hasError(err) {
			return nil
		}

		if _, deadline := decodeRecord(record); isExpired(deadline, now) {
			return txn.Del(storage.dbi, key, nil)
		}

		return nil
	})
}

func closeQuietly(env *lmdb.Env) {
	if env != nil {
		_ = env.Close()
	}
}
