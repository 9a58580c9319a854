package evidence_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	"github.com/stretchr/testify/require"
)

func TestNewObjectKey(t *testing.T) {
	t.Parallel()

	k := evidence.NewObjectKey("Holiday Photo.JPG")
	require.True(t, strings.HasSuffix(k, ".jpg"))
	require.True(t, evidence.ValidKey(k))

	require.NotEqual(t, k, evidence.NewObjectKey("Holiday Photo.JPG"))

	bare := evidence.NewObjectKey("../../etc/passwd")
	require.True(t, evidence.ValidKey(bare))
	require.NotContains(t, bare, "/")
}

func TestValidKey(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", ".", "..", "../x", "a/b", `a\b`, "not-a-uuid.png"} {
		require.False(t, evidence.ValidKey(bad), bad)
	}
	require.True(t, evidence.ValidKey("0b6f1e0e-6f5c-4a3a-9f6e-3c2d1b0a9f8e.mp4"))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	k, err := evidence.KindOf("image/png")
	require.NoError(t, err)
	require.Equal(t, evidence.KindImage, k)

	k, err = evidence.KindOf("Video/MP4; codecs=avc1")
	require.NoError(t, err)
	require.Equal(t, evidence.KindVideo, k)

	for _, bad := range []string{"application/pdf", "text/plain", "image/", "", "image/svg+xml", "Image/SVG+XML; charset=utf-8"} {
		_, err := evidence.KindOf(bad)
		require.ErrorIs(t, err, evidence.ErrUnsupportedType, bad)
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestLimitsCheck(t *testing.T) {
	t.Parallel()
	l := evidence.DefaultLimits

	require.NoError(t, l.Check(nil))
	require.NoError(t, l.Check(append(repeat("image/png", 5), repeat("video/mp4", 2)...)))

	require.ErrorIs(t, l.Check(repeat("image/png", 6)), evidence.ErrTooManyImages)
	require.ErrorIs(t, l.Check(repeat("video/mp4", 3)), evidence.ErrTooManyVideos)
	require.ErrorIs(t, l.Check(append(repeat("image/png", 5), repeat("video/mp4", 3)...)), evidence.ErrTooManyFiles)
	require.ErrorIs(t, l.Check([]string{"image/png", "application/zip"}), evidence.ErrUnsupportedType)
}

func TestDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "uploads")

	d, err := evidence.NewDisk(root)
	require.NoError(t, err)

	key := evidence.NewObjectKey("a.png")
	n, err := d.Put(ctx, key, "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	require.EqualValues(t, 6, n)

	rc, err := d.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "pixels", string(body))

	require.NoError(t, d.Delete(ctx, key))
	require.NoError(t, d.Delete(ctx, key))

	_, err = d.Open(ctx, key)
	require.ErrorIs(t, err, evidence.ErrNotFound)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDiskRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	d, err := evidence.NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = d.Put(ctx, "../escape.png", "image/png", strings.NewReader("x"))
	require.ErrorIs(t, err, evidence.ErrInvalidKey)

	_, err = d.Open(ctx, "../escape.png")
	require.ErrorIs(t, err, evidence.ErrInvalidKey)
}

func TestDiskPutHonoursCancelledContext(t *testing.T) {
	d, err := evidence.NewDisk(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := evidence.NewObjectKey("a.png")
	_, err = d.Put(ctx, key, "image/png", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = d.Open(context.Background(), key)
	require.ErrorIs(t, err, evidence.ErrNotFound)
}

func TestDiskPing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	d, err := evidence.NewDisk(root)
	require.NoError(t, err)
	require.NoError(t, d.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(root))
	require.Error(t, d.Ping(context.Background()))
}
