// internal/poller/builder.go
package poller

import (
	"context"
	"time"

	cfg "github.com/tamzrod/mongo-watchdog/internal/config"
	pmongo "github.com/tamzrod/mongo-watchdog/internal/poller/mongo"
)

// Build connects to MongoDB and wraps the session in a Poller.
// Connection failure is returned as-is: the caller decides it is fatal.
// No retries, no loops, no semantics.
func Build(ctx context.Context, m cfg.MongoConfig) (*Poller, error) {
	client, err := pmongo.New(ctx, pmongo.Config{
		URI:            m.URI,
		Database:       m.Database,
		ConnectTimeout: time.Duration(m.ConnectTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	p, err := New(
		Config{
			Database: m.Database,
			Timeout:  time.Duration(m.ProbeTimeoutMs) * time.Millisecond,
		},
		mongoClient{c: client},
	)
	if err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	return p, nil
}

// mongoClient adapts the driver session to the poller's Client contract.
type mongoClient struct {
	c *pmongo.Client
}

func (m mongoClient) Stats(ctx context.Context) (Snapshot, error) {
	s, err := m.c.Stats(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Database:    s.DB,
		Collections: s.Collections,
		Views:       s.Views,
		Objects:     s.Objects,
		AvgObjSize:  s.AvgObjSize,
		DataSize:    s.DataSize,
		StorageSize: s.StorageSize,
		Indexes:     s.Indexes,
		IndexSize:   s.IndexSize,
		TotalSize:   s.TotalSize,
		FsUsedSize:  s.FsUsedSize,
		FsTotalSize: s.FsTotalSize,
	}, nil
}

func (m mongoClient) Close(ctx context.Context) error {
	return m.c.Close(ctx)
}
