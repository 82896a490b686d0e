package config

import (
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/infra/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage backends
const (
	BackendFile      = "file"
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
)

// Storage holds the changelog storage configuration
type Storage struct {
	Backend             string
	Dir                 string
	RedisURL            string `masq:"secret"`
	RedisKeyPrefix      string
	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
	GCSBucket           string
	GCSPrefix           string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "Storage backend (file, redis, firestore, gcs, memory)",
			Value:       BackendFile,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("DOCSFLOW_STORAGE"),
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory of the file backend",
			Value:       "data",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("DOCSFLOW_DATA_DIR"),
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis connection URL (redis://...)",
			Destination: &c.RedisURL,
			Sources:     cli.EnvVars("DOCSFLOW_REDIS_URL", "REDIS_URL"),
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Usage:       "Prefix of Redis keys",
			Destination: &c.RedisKeyPrefix,
			Sources:     cli.EnvVars("DOCSFLOW_REDIS_KEY_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud Project ID of Firestore",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("DOCSFLOW_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("DOCSFLOW_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection of stored documents",
			Value:       storage.DefaultFirestoreCollection,
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("DOCSFLOW_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("DOCSFLOW_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("DOCSFLOW_GCS_PREFIX"),
		},
	}
}

// NewBackend opens the selected backend. The returned function releases it.
func (c *Storage) NewBackend() (interfaces.KVStore, func(), error) {
	nop := func() {}

	switch c.Backend {
	case BackendFile, "":
		return storage.NewFile(c.Dir), nop, nil

	case BackendMemory:
		return storage.NewMemory(), nop, nil

	case BackendRedis:
		var opts []storage.RedisOption
		if c.RedisKeyPrefix != "" {
			opts = append(opts, storage.WithRedisKeyPrefix(c.RedisKeyPrefix))
		}
		kv, err := storage.NewRedis(c.RedisURL, opts...)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil

	case BackendFirestore:
		kv, err := storage.NewFirestore(c.FirestoreProjectID, c.FirestoreDatabaseID, c.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil

	case BackendGCS:
		kv, err := storage.NewGCS(c.GCSBucket, c.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown storage backend", goerr.V("backend", c.Backend))
	}
}

// NewFileBackend opens the local file backend regardless of the selection
func (c *Storage) NewFileBackend() interfaces.KVStore {
	return storage.NewFile(c.Dir)
}
