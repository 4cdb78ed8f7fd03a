// internal/poller/mongo/client.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Stats mirrors the dbStats command reply.
// Sizes are doubles because servers report them as either int or double.
type Stats struct {
	DB              string  `bson:"db"`
	Collections     int64   `bson:"collections"`
	Views           int64   `bson:"views"`
	Objects         int64   `bson:"objects"`
	AvgObjSize      float64 `bson:"avgObjSize"`
	DataSize        float64 `bson:"dataSize"`
	StorageSize     float64 `bson:"storageSize"`
	FreeStorageSize float64 `bson:"freeStorageSize"`
	Indexes         int64   `bson:"indexes"`
	IndexSize       float64 `bson:"indexSize"`
	TotalSize       float64 `bson:"totalSize"`
	ScaleFactor     float64 `bson:"scaleFactor"`
	FsUsedSize      float64 `bson:"fsUsedSize"`
	FsTotalSize     float64 `bson:"fsTotalSize"`
	OK              float64 `bson:"ok"`
}

// Client is one driver session bound to one database.
// Pooling, auth and reconnects are the driver's business.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// New connects and pings the primary so that a bad URI or unreachable
// server fails here rather than on the first probe.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo client: uri required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo client: database required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo client: connect: %w", err)
	}

	pctx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := c.Ping(pctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo client: ping: %w", err)
	}

	return &Client{
		client: c,
		db:     c.Database(cfg.Database),
	}, nil
}

// Stats runs dbStats against the bound database.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	if c == nil || c.db == nil {
		return Stats{}, errors.New("mongo client: not connected")
	}

	var s Stats
	res := c.db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}})
	if err := res.Decode(&s); err != nil {
		return Stats{}, fmt.Errorf("mongo client: dbStats: %w", err)
	}
	return s, nil
}

// Close disconnects the session.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
