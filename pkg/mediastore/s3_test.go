package mediastore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}

// fakeS3 is a thread-safe in-memory S3 backend.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte

	headErr error // optional injected failure
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*in.Key] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *in.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound", msg: "not found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3PutOpen(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "clips", "library")
	ctx := context.Background()

	clip := []byte("s3 clip bytes")
	if err := store.Put(ctx, "ep01.mp3", bytes.NewReader(clip)); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["library/ep01.mp3"]; !ok {
		t.Fatalf("object stored under wrong key; have %v", keysOf(fake))
	}

	r, err := store.Open(ctx, "ep01.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, clip) {
		t.Fatalf("got %q, want %q", got, clip)
	}
}

func TestS3NoPrefix(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "clips", "")
	if err := store.Put(context.Background(), "ep01.mp3", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.objects["ep01.mp3"]; !ok {
		t.Fatalf("object stored under wrong key; have %v", keysOf(fake))
	}
}

func TestS3OpenMissing(t *testing.T) {
	store := NewS3(newFakeS3(), "clips", "")
	_, err := store.Open(context.Background(), "nope.mp3")
	if err == nil {
		t.Fatal("expected error for missing object")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestS3Exists(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "clips", "")
	ctx := context.Background()

	ok, err := store.Exists(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected false for missing object")
	}

	if err := store.Put(ctx, "present", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists(ctx, "present")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected true for stored object")
	}
}

func TestS3ExistsPropagatesErrors(t *testing.T) {
	fake := newFakeS3()
	fake.headErr = errors.New("throttled")
	store := NewS3(fake, "clips", "")
	if _, err := store.Exists(context.Background(), "x"); err == nil {
		t.Fatal("expected non-NotFound head failure to surface")
	}
}

func TestS3Delete(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "clips", "")
	ctx := context.Background()

	if err := store.Put(ctx, "clip", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "clip"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "clip"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func keysOf(f *fakeS3) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}
