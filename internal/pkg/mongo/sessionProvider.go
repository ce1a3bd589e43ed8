package mongo

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/utils"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/bsonx"
)

// IndexData keeps index creation data
type IndexData struct {
	Table  string
	Field  string
	Unique bool
}

func newIndexData(table string, field string, unique bool) IndexData {
	return IndexData{Table: table, Field: field, Unique: unique}
}

// SessionProvider connects and provides client for mongo DB
type SessionProvider struct {
	client  *mongo.Client
	URL     string
	indexes []IndexData
	m       sync.Mutex // struct field mutex
}

// NewSessionProvider creates Mongo session provider
func NewSessionProvider() (*SessionProvider, error) {
	url := cmdapp.Config.GetString("mongo.url")
	if url == "" {
		return nil, errors.New("No Mongo url provided")
	}
	return &SessionProvider{URL: url, indexes: indexData}, nil
}

// Close closes mongo client
func (sp *SessionProvider) Close() {
	sp.m.Lock()
	defer sp.m.Unlock()
	if sp.client != nil {
		ctx, cancel := mongoContext()
		defer cancel()
		cmdapp.LogIf(sp.client.Disconnect(ctx))
		sp.client = nil
	}
}

// Healthy checks if mongo is reachable
func (sp *SessionProvider) Healthy() error {
	c, err := sp.Client()
	if err != nil {
		return err
	}
	ctx, cancel := mongoContext()
	defer cancel()
	return c.Ping(ctx, nil)
}

// Client returns a connected mongo client
func (sp *SessionProvider) Client() (*mongo.Client, error) {
	sp.m.Lock()
	defer sp.m.Unlock()

	if sp.client == nil {
		cmdapp.Log.Info("Dial mongo: " + utils.HidePass(sp.URL))
		ctx, cancel := mongoContext()
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(sp.URL))
		if err != nil {
			return nil, errors.Wrap(err, "Can't dial to mongo")
		}
		err = checkIndexes(client, sp.indexes)
		if err != nil {
			return nil, errors.Wrap(err, "Can't create indexes")
		}
		sp.client = client
	}
	return sp.client, nil
}

func checkIndexes(c *mongo.Client, indexes []IndexData) error {
	for _, index := range indexes {
		err := checkIndex(c, index)
		if err != nil {
			return errors.Wrap(err, "Can't create index: "+index.Table+":"+index.Field)
		}
	}
	return nil
}

func checkIndex(c *mongo.Client, indexData IndexData) error {
	ctx, cancel := mongoContext()
	defer cancel()
	ind := c.Database(store).Collection(indexData.Table).Indexes()
	_, err := ind.CreateOne(ctx, mongo.IndexModel{
		Keys:    bsonx.Doc{{Key: indexData.Field, Value: bsonx.Int32(1)}},
		Options: options.Index().SetUnique(indexData.Unique).SetSparse(true).SetBackground(true)})
	return err
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func newColl(sp *SessionProvider, table string) (*mongo.Collection, context.Context, context.CancelFunc, error) {
	c, err := sp.Client()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := mongoContext()
	return c.Database(store).Collection(table), ctx, cancel, nil
}

func sanitize(s string) string {
	if len(s) > 0 && s[0] == '$' {
		return s[1:]
	}
	return s
}
