package storage

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultFirestoreCollection holds one document per key
const DefaultFirestoreCollection = "docsflow"

type firestoreDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// Firestore stores each key as a document whose "value" field holds the JSON text
type Firestore struct {
	projectID  string
	databaseID string
	collection string

	mu     sync.Mutex
	client *firestore.Client
}

// NewFirestore creates a Firestore backend. The client is created on first use.
func NewFirestore(projectID, databaseID, collection string) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("Firestore project ID is empty")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}

	return &Firestore{
		projectID:  projectID,
		databaseID: databaseID,
		collection: collection,
	}, nil
}

func (x *Firestore) connect(ctx context.Context) (*firestore.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client != nil {
		return x.client, nil
	}

	client, err := firestore.NewClientWithDatabase(ctx, x.projectID, x.databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", x.projectID),
			goerr.V("database_id", x.databaseID),
		)
	}

	x.client = client
	return client, nil
}

func (x *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := x.connect(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := client.Collection(x.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get Firestore document",
			goerr.V("collection", x.collection),
			goerr.V("key", key),
		)
	}

	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode Firestore document", goerr.V("key", key))
	}
	return []byte(doc.Value), nil
}

func (x *Firestore) Put(ctx context.Context, key string, value []byte) error {
	client, err := x.connect(ctx)
	if err != nil {
		return err
	}

	doc := firestoreDoc{
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := client.Collection(x.collection).Doc(key).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set Firestore document",
			goerr.V("collection", x.collection),
			goerr.V("key", key),
		)
	}
	return nil
}

// Close closes the client if it was created
func (x *Firestore) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client == nil {
		return nil
	}
	err := x.client.Close()
	x.client = nil
	return err
}
