package console

import (
	"bytes"
	"strings"
	"testing"

	"fitstatus/internal/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T, capability Capability, opts WriterOptions) (*Writer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, capability, opts)
	require.NoError(t, err)
	return w, &buf
}

func TestEmit_QuietAndNonLeaderAreSilent(t *testing.T) {
	w, buf := newTestWriter(t, Capability{Quiet: true}, WriterOptions{})
	res, err := w.Emit([]string{"a"}, true)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, buf.String())

	w, buf = newTestWriter(t, Capability{IsLeader: func() bool { return false }}, WriterOptions{})
	res, err = w.Emit([]string{"a"}, false)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, buf.String())
}

func TestEmit_InlineErasesOneLinePerLine(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{})
	res, err := w.Emit([]string{"a", "b"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Erased)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, "\x1b[F\x1b[K\x1b[F\x1b[Ka\nb\n", buf.String())
}

func TestEmit_NotInline(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{})
	_, err := w.Emit([]string{"a"}, false)
	require.NoError(t, err)
	assert.Equal(t, "a\n", buf.String())
}

func TestEmit_TrackLinesErasesPreviousCount(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{TrackLines: true})
	_, err := w.Emit([]string{"a", "b", "c"}, false)
	require.NoError(t, err)
	buf.Reset()

	res, err := w.Emit([]string{"d"}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Erased)
	assert.Equal(t, strings.Repeat("\x1b[F\x1b[K", 3)+"d\n", buf.String())
}

func TestEmit_Colorizes(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{})
	_, err := w.Emit([]string{"!rx!e"}, false)
	require.NoError(t, err)
	assert.Equal(t, palette.Red+"x"+palette.End+"\n", buf.String())

	buf.Reset()
	_, err = w.EmitPlain([]string{"!rx!e"}, false)
	require.NoError(t, err)
	assert.Equal(t, "!rx!e\n", buf.String())
}

func TestEmit_LegacyCharset(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{Charset: "iso-8859-1"})

	res, err := w.Emit([]string{"café"}, false)
	require.NoError(t, err)
	assert.Zero(t, res.Replaced)
	assert.Equal(t, []byte("caf\xe9\n"), buf.Bytes())

	buf.Reset()
	res, err = w.Emit([]string{"╔x"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, "?x\n", buf.String())
}

func TestEmit_ASCIICharset(t *testing.T) {
	w, buf := newTestWriter(t, Capability{}, WriterOptions{Charset: "ascii"})
	res, err := w.Emit([]string{"├ é", "plain"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, "? ?\nplain\n", buf.String())
}

func TestNewWriter_UnknownCharset(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Capability{}, WriterOptions{Charset: "no-such-charset"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-charset")
}

type flushBuffer struct {
	bytes.Buffer
	flushes int
}

func (f *flushBuffer) Flush() error {
	f.flushes++
	return nil
}

func TestEmit_FlushesEachLine(t *testing.T) {
	var out flushBuffer
	w, err := NewWriter(&out, Capability{}, WriterOptions{})
	require.NoError(t, err)

	_, err = w.Emit([]string{"a", "b"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, out.flushes)
}

func TestASCIIFallback(t *testing.T) {
	assert.Equal(t, "a?b?", ASCIIFallback("a│b└"))
	assert.Equal(t, "plain", ASCIIFallback("plain"))
}

func TestDetectCharset(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"empty", map[string]string{}, "utf-8"},
		{"lang utf8", map[string]string{"LANG": "en_US.UTF-8"}, "utf-8"},
		{"lc_all wins", map[string]string{"LC_ALL": "de_DE.ISO-8859-1", "LANG": "en_US.UTF-8"}, "iso-8859-1"},
		{"modifier", map[string]string{"LANG": "de_DE.ISO-8859-15@euro"}, "iso-8859-15"},
		{"posix", map[string]string{"LANG": "C"}, "ascii"},
		{"no codeset", map[string]string{"LANG": "en_US"}, "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCharset(func(k string) string { return tt.env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}
