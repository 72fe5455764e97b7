package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const objectSuffix = ".json"

// GCSStore keeps one JSON object per record in a Cloud Storage bucket.
// Object names are <prefix><parent>/<key>.json.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// GCSOptions configures OpenGCS.
type GCSOptions struct {
	Bucket          string
	Prefix          string
	CredentialsFile string // service-account key; empty uses application default credentials
}

// OpenGCS creates a Cloud Storage client authenticated with the service
// account credential file.
func OpenGCS(ctx context.Context, opts GCSOptions, logger *slog.Logger) (*GCSStore, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return NewGCSStore(client, opts.Bucket, opts.Prefix, logger), nil
}

func NewGCSStore(client *storage.Client, bucket, prefix string, logger *slog.Logger) *GCSStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

func (g *GCSStore) objectName(parent, key string) string {
	return g.prefix + parent + "/" + key + objectSuffix
}

func (g *GCSStore) retryOpts(ctx context.Context, op, name string) []retry.Option {
	return []retry.Option{
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10 * time.Second),
		retry.MaxJitter(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Info("retrying storage operation after error", "operation", op, "attempt", n, "object", name, "error", err)
		}),
	}
}

func (g *GCSStore) Children(ctx context.Context, path string) ([]Node, error) {
	parent, err := Clean(path)
	if err != nil {
		return nil, err
	}

	listPrefix := g.prefix + parent + "/"
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{
		Prefix:    listPrefix,
		Delimiter: "/",
	})

	nodes := []Node{}
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, unavailable("iterate storage", err)
		}
		// Delimiter listings report sub-collections as prefixes only.
		if attrs.Name == "" || !strings.HasSuffix(attrs.Name, objectSuffix) {
			continue
		}

		key := strings.TrimSuffix(strings.TrimPrefix(attrs.Name, listPrefix), objectSuffix)
		rec, _, err := g.read(ctx, attrs.Name)
		if errors.Is(err, storage.ErrObjectNotExist) {
			continue // deleted between listing and read
		}
		if err != nil {
			return nil, unavailable("read "+attrs.Name, err)
		}
		nodes = append(nodes, Node{Key: key, Data: rec})
	}
	sortNodes(nodes)
	return nodes, nil
}

func (g *GCSStore) Push(ctx context.Context, path string, data Record) (string, error) {
	parent, err := Clean(path)
	if err != nil {
		return "", err
	}
	key, err := NewKey()
	if err != nil {
		return "", unavailable("push", err)
	}
	payload, err := encode(compact(data))
	if err != nil {
		return "", err
	}

	name := g.objectName(parent, key)
	err = retry.Do(func() error {
		obj := g.client.Bucket(g.bucket).Object(name).If(storage.Conditions{DoesNotExist: true})
		return g.write(ctx, obj, payload)
	}, g.retryOpts(ctx, "push", name)...)
	if err != nil {
		return "", unavailable("push "+name, err)
	}

	g.logger.Debug("record pushed", "object", name)
	return key, nil
}

// Update does a read-merge-write guarded by a generation precondition, so a
// concurrent writer makes the attempt fail and retry instead of being lost.
func (g *GCSStore) Update(ctx context.Context, path string, fields Record) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}

	name := g.objectName(parent, key)
	err = retry.Do(func() error {
		current, gen, err := g.read(ctx, name)
		exists := true
		switch {
		case errors.Is(err, storage.ErrObjectNotExist):
			current = Record{}
			exists = false
		case err != nil:
			return err
		}

		obj := g.client.Bucket(g.bucket).Object(name)
		merged := Merge(current, fields)
		if len(merged) == 0 {
			if !exists {
				return nil
			}
			err := ifGeneration(obj, gen).Delete(ctx)
			if errors.Is(err, storage.ErrObjectNotExist) {
				return nil
			}
			return err
		}

		payload, err := encode(merged)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		if exists {
			obj = ifGeneration(obj, gen)
		} else {
			obj = obj.If(storage.Conditions{DoesNotExist: true})
		}
		return g.write(ctx, obj, payload)
	}, g.retryOpts(ctx, "update", name)...)
	if err != nil {
		return unavailable("update "+name, err)
	}
	return nil
}

func (g *GCSStore) Delete(ctx context.Context, path string) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}

	name := g.objectName(parent, key)
	err = retry.Do(func() error {
		err := g.client.Bucket(g.bucket).Object(name).Delete(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return err
	}, g.retryOpts(ctx, "delete", name)...)
	if err != nil {
		return unavailable("delete "+name, err)
	}
	return nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

// ifGeneration guards obj with the generation it was read at, when known.
func ifGeneration(obj *storage.ObjectHandle, gen int64) *storage.ObjectHandle {
	if gen == 0 {
		return obj
	}
	return obj.If(storage.Conditions{GenerationMatch: gen})
}

func (g *GCSStore) read(ctx context.Context, name string) (Record, int64, error) {
	r, err := g.client.Bucket(g.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			g.logger.Warn("failed to close storage reader", "object", name, "error", closeErr)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read object: %w", err)
	}
	rec, err := decode(data)
	if err != nil {
		return nil, 0, err
	}
	return rec, r.Attrs.Generation, nil
}

func (g *GCSStore) write(ctx context.Context, obj *storage.ObjectHandle, payload []byte) error {
	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(payload); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			g.logger.Warn("failed to close writer after error", "error", closeErr)
		}
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object writer: %w", err)
	}
	return nil
}

var _ Client = (*GCSStore)(nil)
