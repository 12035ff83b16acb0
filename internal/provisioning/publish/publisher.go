package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/imamik/crdbcerts/internal/fsutil"
	"github.com/imamik/crdbcerts/internal/layout"
	"github.com/imamik/crdbcerts/internal/platform/s3"
	"github.com/imamik/crdbcerts/internal/provisioning"
	"github.com/imamik/crdbcerts/internal/util/naming"
	"github.com/imamik/crdbcerts/internal/util/retry"
)

const phase = "publish"

// ContentType is set on every uploaded certificate.
const ContentType = "application/x-pem-file"

// ObjectStore is the subset of the S3 client the publisher needs.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

var _ ObjectStore = (*s3.Client)(nil)

// Publisher uploads CA certificates.
type Publisher struct {
	store ObjectStore

	// Retry tunes the backoff for transient store errors.
	Retry []retry.Option
}

// NewPublisher creates a publisher writing to store.
func NewPublisher(store ObjectStore) *Publisher {
	return &Publisher{store: store}
}

// Name implements the provisioning.Phase interface.
func (p *Publisher) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Publisher) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Publish
	if cfg == nil {
		return nil
	}

	var exists bool
	err := p.call(ctx, "bucket lookup", func(c context.Context) (err error) {
		exists, err = p.store.BucketExists(c, cfg.Bucket)
		return err
	})
	if err != nil {
		return err
	}
	if !exists {
		provisioning.LogResourceCreating(ctx.Observer, phase, "bucket", cfg.Bucket)
		err := p.call(ctx, "bucket creation", func(c context.Context) error {
			return p.store.CreateBucket(c, cfg.Bucket)
		})
		if err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, "bucket", cfg.Bucket)
	}

	for _, cs := range ctx.Config.Create {
		state := ctx.ClusterState(cs)
		// #nosec G304
		data, err := os.ReadFile(state.Paths.CACertsFile)
		if err != nil {
			return &fsutil.FilesystemError{Op: "read", Path: state.Paths.CACertsFile, Err: err}
		}

		key := naming.CAObjectKey(cfg.Prefix, cs.Namespace, layout.CACertFile)
		var current []byte
		err = p.call(ctx, "download of "+key, func(c context.Context) (err error) {
			current, err = p.store.GetObject(c, cfg.Bucket, key)
			return err
		})
		switch {
		case err == nil && bytes.Equal(current, data):
			ctx.Observer.Printf("[%s] %s/%s is up to date", phase, cfg.Bucket, key)
			state.Published = append(state.Published, key)
			continue
		case err != nil && !errors.Is(err, s3.ErrObjectNotFound):
			return err
		}

		err = p.call(ctx, "upload of "+key, func(c context.Context) error {
			return p.store.PutObject(c, cfg.Bucket, key, ContentType, data)
		})
		if err != nil {
			return fmt.Errorf("failed to publish CA certificate of %s: %w", cs.Namespace, err)
		}
		state.Published = append(state.Published, key)
		provisioning.LogResourceCreated(ctx.Observer, phase, "object", cfg.Bucket+"/"+key)
	}
	return nil
}

// call runs fn, retrying errors the store reports as transient.
func (p *Publisher) call(ctx *provisioning.Context, what string, fn func(context.Context) error) error {
	opts := make([]retry.Option, 0, len(p.Retry)+1)
	opts = append(opts, retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		ctx.Observer.Printf("[%s] %s failed (attempt %d), retrying in %v: %v", phase, what, attempt, wait, err)
	}))
	opts = append(opts, p.Retry...)

	return retry.Do(ctx, func(c context.Context) error {
		err := fn(c)
		if err != nil && !s3.IsTransient(err) {
			return retry.Permanent(err)
		}
		return err
	}, opts...)
}
