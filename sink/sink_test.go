package sink

import (
	"bytes"
	"context"
	"errors"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_CreateTruncates(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	s, err := store.Create(ctx, "out.bin")
	require.NoError(t, err)
	_, err = s.Write([]byte("first content"))
	require.NoError(t, err)
	require.NoError(t, s.Sync())
	require.NoError(t, s.Close())

	s, err = store.Create(ctx, "out.bin")
	require.NoError(t, err)
	_, err = s.Write([]byte("2nd"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(tmpDir, "out.bin"))
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))
}

func TestLocalStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := new(LocalStore).Create(ctx, "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewLocalStore(t.TempDir()).Create(ctx, filepath.Join("missing", "out.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, err := store.Create(ctx, "b")
	require.NoError(t, err)
	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)

	data, ok := store.Bytes("b")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Close())
	_, err = s.Write([]byte("x"))
	require.Error(t, err)

	_, err = store.Create(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, store.Names())

	_, ok = store.Bytes("missing")
	assert.False(t, ok)

	_, err = store.Create(ctx, "")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"ZSTD", CompressionZSTD},
		{" lz4 ", CompressionLZ4},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseCompression("gzip")
	require.Error(t, err)
	assert.Equal(t, "zstd", CompressionZSTD.String())
}

func payload() []byte {
	var buf bytes.Buffer
	for i := range 4096 {
		buf.WriteByte(byte(i % 7))
	}
	return buf.Bytes()
}

func TestCompress_RoundTrip(t *testing.T) {
	data := payload()

	decoders := map[Compression]func(r io.Reader) ([]byte, error){
		CompressionNone: io.ReadAll,
		CompressionZSTD: func(r io.Reader) ([]byte, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			defer dec.Close()
			return io.ReadAll(dec)
		},
		CompressionLZ4: func(r io.Reader) ([]byte, error) {
			return io.ReadAll(lz4.NewReader(r))
		},
	}

	for c, decode := range decoders {
		t.Run(c.String(), func(t *testing.T) {
			store := NewMemoryStore()
			raw, err := store.Create(context.Background(), "c.bin")
			require.NoError(t, err)

			s, err := Compress(raw, c, 0)
			require.NoError(t, err)

			_, err = s.Write(data[:1000])
			require.NoError(t, err)
			require.NoError(t, s.Sync())
			_, err = s.Write(data[1000:])
			require.NoError(t, err)
			require.NoError(t, s.Close())

			stored, ok := store.Bytes("c.bin")
			require.True(t, ok)
			if c != CompressionNone {
				assert.Less(t, len(stored), len(data))
			}

			got, err := decode(bytes.NewReader(stored))
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompress_Levels(t *testing.T) {
	_, err := Compress(Nop(io.Discard), CompressionZSTD, 19)
	require.NoError(t, err)

	_, err = Compress(Nop(io.Discard), CompressionLZ4, 9)
	require.NoError(t, err)

	_, err = Compress(Nop(io.Discard), CompressionLZ4, 10)
	require.Error(t, err)

	_, err = Compress(Nop(io.Discard), Compression(42), 0)
	require.Error(t, err)
}

func TestThrottle(t *testing.T) {
	var buf bytes.Buffer
	data := payload()

	s := Throttle(context.Background(), Nop(&buf), 1<<20)
	n, err := s.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, buf.Bytes())

	unlimited := Nop(&buf)
	assert.Equal(t, unlimited, Throttle(context.Background(), unlimited, 0))
}

func TestThrottle_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Throttle(ctx, Nop(io.Discard), 16)
	n, err := s.Write(make([]byte, 64))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

type shortWriter struct{ limit int }

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		return w.limit, errors.New("short write")
	}
	return len(p), nil
}

func TestChecksumWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	data := payload()

	_, err := cw.Write(data[:10])
	require.NoError(t, err)
	_, err = cw.Write(data[10:])
	require.NoError(t, err)
	assert.Equal(t, crc32.ChecksumIEEE(data), cw.Sum())

	cw.Reset()
	assert.Equal(t, crc32.ChecksumIEEE(nil), cw.Sum())

	// Only accepted bytes are hashed.
	cw = NewChecksumWriter(&shortWriter{limit: 3})
	n, err := cw.Write([]byte("abcdef"))
	require.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, crc32.ChecksumIEEE([]byte("abc")), cw.Sum())
}

func TestStoreFunc(t *testing.T) {
	called := ""
	store := StoreFunc(func(_ context.Context, name string) (Sink, error) {
		called = name
		return Nop(io.Discard), nil
	})

	_, err := store.Create(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", called)
}

func TestFaultyStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	store := NewFaultyStore(mem)
	store.AddRule("run", Fault{FailAfterBytes: 4})
	store.AddRule("run-close", Fault{FailAfterBytes: -1, FailOnClose: true})
	store.AddRule("blocked", Fault{FailOnCreate: true})

	s, err := store.Create(ctx, "run.bin")
	require.NoError(t, err)
	n, err := s.Write([]byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	_, err = s.Write([]byte("e"))
	require.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, int64(4), store.Written("run.bin"))
	require.NoError(t, s.Close())

	data, _ := mem.Bytes("run.bin")
	assert.Equal(t, []byte("abcd"), data)

	s, err = store.Create(ctx, "run-close.bin")
	require.NoError(t, err)
	_, err = s.Write([]byte("more than four bytes"))
	require.NoError(t, err, "the longer pattern wins")
	require.ErrorIs(t, s.Close(), ErrInjected)

	_, err = store.Create(ctx, "blocked.bin")
	require.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, []string{"run-close.bin", "run.bin"}, mem.Names())
}

func TestFaultyStore_ShortWrite(t *testing.T) {
	mem := NewMemoryStore()
	store := NewFaultyStore(mem)
	store.SetDefault(Fault{FailAfterBytes: 3, ShortWrite: true})

	s, err := store.Create(context.Background(), "short.bin")
	require.NoError(t, err)

	n, err := s.Write([]byte("abcdef"))
	require.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 3, n)

	n, err = s.Write([]byte("g"))
	require.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, n)

	data, _ := mem.Bytes("short.bin")
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, int64(3), store.Written("short.bin"))
}
