package linker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vherrors "github.com/ksyq12/rproxy/internal/errors"
	"github.com/ksyq12/rproxy/internal/executor"
)

func TestRelativeLink(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "letsencrypt", "live", "example.com")
	ssl := filepath.Join(dir, "web1", "ssl")
	require.NoError(t, os.MkdirAll(live, 0755))
	require.NoError(t, os.MkdirAll(ssl, 0755))

	target := filepath.Join(live, "privkey.pem")
	require.NoError(t, os.WriteFile(target, []byte("KEY"), 0600))

	link := filepath.Join(ssl, "example.com-le.key")
	require.NoError(t, Relative{}.Link(target, link))

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.False(t, filepath.IsAbs(dest), "link target should be relative: %s", dest)

	data, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "KEY", string(data))
}

func TestRelativeLinkRejectsMetacharacters(t *testing.T) {
	dir := t.TempDir()
	err := Relative{}.Link(filepath.Join(dir, "a;b"), filepath.Join(dir, "c"))
	assert.True(t, vherrors.Is(err, vherrors.ErrValidation))
}

func TestCommandLink(t *testing.T) {
	t.Run("runs ln -s with absolute paths", func(t *testing.T) {
		mock := &executor.MockExecutor{}
		l := New(false, mock)

		require.NoError(t, l.Link("/etc/nginx/sites-available/a.com.vhost", "/etc/nginx/sites-enabled/a.com.vhost"))
		require.Len(t, mock.Calls, 1)
		assert.Equal(t, "ln -s /etc/nginx/sites-available/a.com.vhost /etc/nginx/sites-enabled/a.com.vhost", mock.Calls[0].String())
	})

	t.Run("command failure", func(t *testing.T) {
		mock := &executor.MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("ln: File exists"), errors.New("exit status 1")
			},
		}
		err := New(false, mock).Link("/a", "/b")
		assert.True(t, vherrors.Is(err, vherrors.ErrExternalCommand))
	})

	t.Run("unsafe path never reaches the executor", func(t *testing.T) {
		mock := &executor.MockExecutor{}
		err := New(false, mock).Link("/a", "/b|reboot")
		assert.Error(t, err)
		assert.Empty(t, mock.Calls)
	})
}

func TestNewSelectsRelative(t *testing.T) {
	_, ok := New(true, nil).(Relative)
	assert.True(t, ok)
}

func TestReplace(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	m := &Mock{}
	require.NoError(t, Replace(m, a, link))
	require.NoError(t, Replace(m, b, link))

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, b, dest)
	assert.Len(t, m.Calls, 2)

	t.Run("refuses to replace a regular file", func(t *testing.T) {
		err := Replace(m, a, b)
		assert.True(t, vherrors.Is(err, vherrors.ErrFilesystem))
	})
}
