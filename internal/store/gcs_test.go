package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fsouza/fake-gcs-server/fakestorage"
)

const testBucket = "noticeboard-test"

func newTestGCSStore(t *testing.T, prefix string, objects ...fakestorage.Object) (*GCSStore, *fakestorage.Server) {
	t.Helper()
	srv, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: objects,
		NoListener:     true,
	})
	if err != nil {
		t.Fatalf("start fake storage: %v", err)
	}
	t.Cleanup(srv.Stop)
	if len(objects) == 0 {
		srv.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: testBucket})
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGCSStore(srv.Client(), testBucket, prefix, logger), srv
}

func seedObject(name, content string) fakestorage.Object {
	return fakestorage.Object{
		ObjectAttrs: fakestorage.ObjectAttrs{
			BucketName:  testBucket,
			Name:        name,
			ContentType: "application/json",
		},
		Content: []byte(content),
	}
}

func TestGCSStore(t *testing.T) {
	s, srv := newTestGCSStore(t, "board")
	backendContract(t, s)

	if _, err := srv.GetObject(testBucket, "board/notices/zzz-created-by-update.json"); err != nil {
		t.Errorf("expected record stored as one object: %v", err)
	}
}

func TestGCSStoreChildrenSkipsNestedAndForeignObjects(t *testing.T) {
	s, _ := newTestGCSStore(t, "board",
		seedObject("board/notices/b-key.json", `{"title":"second"}`),
		seedObject("board/notices/a-key.json", `{"title":"first","views":3}`),
		seedObject("board/notices/a-key/replies/r1.json", `{"title":"nested"}`),
		seedObject("board/notices/readme.txt", `not a record`),
		seedObject("board/other/c-key.json", `{"title":"elsewhere"}`),
		seedObject("notices/outside-prefix.json", `{"title":"unprefixed"}`),
	)

	nodes, err := s.Children(context.Background(), "notices")
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 children, got %v", nodes)
	}
	if nodes[0].Key != "a-key" || nodes[1].Key != "b-key" {
		t.Errorf("keys = %q, %q; want a-key, b-key", nodes[0].Key, nodes[1].Key)
	}
	if nodes[0].Data["title"] != "first" {
		t.Errorf("record = %v", nodes[0].Data)
	}
}

func TestGCSStoreUpdateAndDeleteExistingObject(t *testing.T) {
	s, srv := newTestGCSStore(t, "",
		seedObject("notices/abc.json", `{"title":"seeded","author":"Admin"}`),
	)
	ctx := context.Background()

	if err := s.Update(ctx, "notices/abc", Record{"author": nil, "category": "events"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	nodes, err := s.Children(ctx, "notices")
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 child, got %d", len(nodes))
	}
	got := nodes[0].Data
	if got["title"] != "seeded" || got["category"] != "events" {
		t.Errorf("merged record = %v", got)
	}
	if _, ok := got["author"]; ok {
		t.Error("nil value should delete the field")
	}

	if err := s.Delete(ctx, "notices/abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := srv.GetObject(testBucket, "notices/abc.json"); err == nil {
		t.Error("object still present after delete")
	}
	if err := s.Delete(ctx, "notices/abc"); err != nil {
		t.Errorf("delete missing object should succeed: %v", err)
	}
}

func TestGCSObjectName(t *testing.T) {
	g := NewGCSStore(nil, "bucket", "board", nil)
	if got := g.objectName("notices", "abc"); got != "board/notices/abc.json" {
		t.Errorf("objectName = %q", got)
	}
	g = NewGCSStore(nil, "bucket", "", nil)
	if got := g.objectName("notices", "abc"); got != "notices/abc.json" {
		t.Errorf("objectName without prefix = %q", got)
	}
}
