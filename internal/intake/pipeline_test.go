package intake

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/encarrerauy/encarreraok/internal/config"
	"github.com/encarrerauy/encarreraok/internal/hash"
	"github.com/encarrerauy/encarreraok/internal/model"
	"github.com/encarrerauy/encarreraok/internal/storage"
	storeMocks "github.com/encarrerauy/encarreraok/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMB = 1024 * 1024

func testPolicy() config.EvidenceConfig {
	return config.EvidenceConfig{
		SignatureMaxBytes:           1 * testMB,
		ImageMaxBytes:               4 * testMB,
		AudioMaxBytes:               5 * testMB,
		ImageCompressThresholdBytes: 2 * testMB,
		ImageCompressTargetBytes:    3 * testMB / 2,
		ImageIntakeCapBytes:         12 * testMB,
	}
}

type recorderStub struct {
	mu      sync.Mutex
	entries []model.AuditLogEntry
}

func (r *recorderStub) Record(_ context.Context, e model.AuditLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorderStub) last(t *testing.T) model.AuditLogEntry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.entries)
	return r.entries[len(r.entries)-1]
}

// noisePNG builds a PNG of random pixels; noise barely compresses losslessly,
// so the encoded size approaches the raw pixel size.
func noisePNG(t *testing.T, side int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type explodingReader struct{ t *testing.T }

func (r *explodingReader) Read([]byte) (int, error) {
	r.t.Fatal("body must not be read when the declared size already exceeds the limit")
	return 0, errors.New("unreachable")
}

func TestIngestSizeRejection(t *testing.T) {
	ctx := context.Background()

	t.Run("oversized signature writes nothing", func(t *testing.T) {
		root := t.TempDir()
		store, err := storage.NewFS(root)
		require.NoError(t, err)
		rec := &recorderStub{}
		p := NewPipeline(store, rec, testPolicy())

		payload := bytes.Repeat([]byte{0x1}, 12*testMB/10)
		_, err = p.Ingest(ctx, Request{
			RequestID:    "r1",
			EventID:      "e1",
			Category:     CategorySignature,
			Label:        "signature",
			DeclaredSize: int64(len(payload)),
			Body:         bytes.NewReader(payload),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		var sizeErr *SizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, CategorySignature, sizeErr.Category)
		assert.Equal(t, int64(1*testMB), sizeErr.Limit)

		assert.Empty(t, listFiles(t, root))
		assert.Equal(t, model.AuditRejectedTooLarge, rec.last(t).Outcome)
	})

	t.Run("declared size precheck skips the body entirely", func(t *testing.T) {
		rec := &recorderStub{}
		mStore := new(storeMocks.MockStorage)
		p := NewPipeline(mStore, rec, testPolicy())

		_, err := p.Ingest(ctx, Request{
			RequestID:    "r2",
			Category:     CategoryAudio,
			Label:        "audio",
			DeclaredSize: 6 * testMB,
			Body:         &explodingReader{t: t},
		})

		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestIngestAudio(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	rec := &recorderStub{}
	p := NewPipeline(store, rec, testPolicy())

	// Arbitrary undecodable bytes: audio is accepted even when its fidelity
	// cannot be locally verified.
	payload := bytes.Repeat([]byte{0xAB, 0xCD}, 2*testMB)
	ef, err := p.Ingest(ctx, Request{
		RequestID:    "r3",
		EventID:      "e1",
		Category:     CategoryAudio,
		Label:        "audio",
		Filename:     "statement.ogg",
		DeclaredSize: int64(len(payload)),
		Body:         bytes.NewReader(payload),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), ef.OriginalSize)
	assert.Equal(t, ef.OriginalSize, ef.StoredSize)
	assert.True(t, strings.HasPrefix(ef.StoragePath, "audios/"))
	assert.True(t, strings.HasSuffix(ef.StoragePath, ".ogg"))
	assert.Equal(t, hash.Bytes(payload), ef.ChecksumSHA256)

	ok, err := store.Exists(ctx, ef.StoragePath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.AuditStored, rec.last(t).Outcome)
}

func TestIngestDocumentImage(t *testing.T) {
	ctx := context.Background()

	t.Run("oversized image is compressed under the ceiling", func(t *testing.T) {
		store, err := storage.NewFS(t.TempDir())
		require.NoError(t, err)
		rec := &recorderStub{}
		p := NewPipeline(store, rec, testPolicy())

		payload := noisePNG(t, 1200) // well above the 2 MB threshold, above the 4 MB ceiling
		require.Greater(t, int64(len(payload)), int64(4*testMB))

		ef, err := p.Ingest(ctx, Request{
			RequestID:    "r4",
			EventID:      "e1",
			Category:     CategoryDocumentImage,
			Label:        "document_front",
			Filename:     "dni.png",
			DeclaredSize: int64(len(payload)),
			Body:         bytes.NewReader(payload),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), ef.OriginalSize)
		assert.Less(t, ef.StoredSize, ef.OriginalSize)
		assert.LessOrEqual(t, ef.StoredSize, int64(4*testMB))
		assert.True(t, strings.HasSuffix(ef.StoragePath, ".jpg"))

		entry := rec.last(t)
		assert.Equal(t, model.AuditStored, entry.Outcome)
		assert.Equal(t, ef.OriginalSize, entry.OriginalSize)
		assert.Equal(t, ef.StoredSize, entry.StoredSize)
	})

	t.Run("undecodable over-ceiling payload is rejected with nothing on disk", func(t *testing.T) {
		root := t.TempDir()
		store, err := storage.NewFS(root)
		require.NoError(t, err)
		rec := &recorderStub{}
		p := NewPipeline(store, rec, testPolicy())

		payload := bytes.Repeat([]byte{0x5A}, int(4.5*testMB))
		_, err = p.Ingest(ctx, Request{
			RequestID:    "r5",
			Category:     CategoryDocumentImage,
			Label:        "document_back",
			DeclaredSize: int64(len(payload)),
			Body:         bytes.NewReader(payload),
		})

		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		assert.Empty(t, listFiles(t, root))
	})

	t.Run("image under the threshold is stored unmodified", func(t *testing.T) {
		store, err := storage.NewFS(t.TempDir())
		require.NoError(t, err)
		rec := &recorderStub{}
		p := NewPipeline(store, rec, testPolicy())

		payload := noisePNG(t, 300)
		require.Less(t, int64(len(payload)), int64(2*testMB))

		ef, err := p.Ingest(ctx, Request{
			RequestID:    "r6",
			Category:     CategoryDocumentImage,
			Label:        "document_front",
			DeclaredSize: int64(len(payload)),
			Body:         bytes.NewReader(payload),
		})

		require.NoError(t, err)
		assert.Equal(t, ef.OriginalSize, ef.StoredSize)
		assert.Equal(t, hash.Bytes(payload), ef.ChecksumSHA256)
		assert.True(t, strings.HasSuffix(ef.StoragePath, ".png"))
	})
}

func TestIngestUnsupportedCategory(t *testing.T) {
	rec := &recorderStub{}
	mStore := new(storeMocks.MockStorage)
	p := NewPipeline(mStore, rec, testPolicy())

	_, err := p.Ingest(context.Background(), Request{
		RequestID: "r7",
		Category:  Category("video"),
		Body:      strings.NewReader("x"),
	})

	assert.ErrorIs(t, err, ErrUnsupportedCategory)
	assert.Equal(t, model.AuditRejectedCategory, rec.last(t).Outcome)
	mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestStorageFailure(t *testing.T) {
	rec := &recorderStub{}
	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("disk full"))
	p := NewPipeline(mStore, rec, testPolicy())

	_, err := p.Ingest(context.Background(), Request{
		RequestID:    "r8",
		Category:     CategoryAudio,
		Label:        "audio",
		DeclaredSize: 3,
		Body:         strings.NewReader("abc"),
	})

	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.Equal(t, model.AuditStorageFailed, rec.last(t).Outcome)
	mStore.AssertExpectations(t)
}

func TestIngestConcurrentPathsNeverCollide(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	rec := &recorderStub{}
	p := NewPipeline(store, rec, testPolicy())

	const n = 16
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ef, err := p.Ingest(ctx, Request{
				RequestID:    "rc",
				Category:     CategoryAudio,
				Label:        "audio",
				DeclaredSize: 4,
				Body:         strings.NewReader("data"),
			})
			if assert.NoError(t, err) {
				paths <- ef.StoragePath
			}
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool)
	for p := range paths {
		assert.False(t, seen[p], "path %s stored twice", p)
		seen[p] = true
	}
	assert.Len(t, seen, n)
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}
