package shortcut

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pavez/launchkit/pkg/errors"
	"github.com/pavez/launchkit/pkg/filesystem"
	"github.com/pavez/launchkit/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWScriptProviderCreate(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	icon := env.WriteFile("media/app.ico", "ico")
	fake := testutil.NewFakeRunner()

	p := NewWScriptProvider(fake)
	path, err := p.Create(context.Background(), env.Desktop, Shortcut{
		Name:       "Construction Budget",
		Target:     env.Path("run_app.vbs"),
		WorkingDir: env.Root,
		Icon:       icon,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.Desktop, "Construction Budget.lnk"), path)

	require.Len(t, fake.Commands, 1)
	cmd := fake.Commands[0]
	assert.Equal(t, "powershell", cmd.Name)
	assert.Equal(t, []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-Command"}, cmd.Args[:4])
	script := cmd.Args[4]
	assert.Contains(t, script, "$shell.CreateShortcut('"+path+"')")
	assert.Contains(t, script, "$lnk.TargetPath = '"+env.Path("run_app.vbs")+"'")
	assert.Contains(t, script, "$lnk.WorkingDirectory = '"+env.Root+"'")
	assert.Contains(t, script, "$lnk.IconLocation = '"+icon+"'")
	assert.True(t, strings.HasSuffix(script, "$lnk.Save()"))
}

func TestScriptSkipsMissingIcon(t *testing.T) {
	script := Script(`C:\Users\O'Neil\Desktop\App.lnk`, Shortcut{
		Name:   "App",
		Target: `C:\app\run_app.vbs`,
		Icon:   filepath.Join(t.TempDir(), "missing.ico"),
	})
	assert.NotContains(t, script, "IconLocation")
	assert.Contains(t, script, `'C:\Users\O''Neil\Desktop\App.lnk'`)
}

func TestWScriptProviderFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fake := testutil.NewFakeRunner(testutil.Rule{Contains: "powershell", Err: testutil.ErrExit})

	_, err := NewWScriptProvider(fake).Create(context.Background(), env.Desktop, Shortcut{Name: "App", Target: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrShortcutCreate))
}

func TestDesktopEntryProviderCreate(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	icon := env.WriteFile("media/app.ico", "ico")
	p := NewDesktopEntryProvider(filesystem.NewOS())

	s := Shortcut{
		Name:       "Construction Budget",
		Target:     env.Path("run_app.sh"),
		WorkingDir: env.Root,
		Icon:       icon,
	}
	path, err := p.Create(context.Background(), env.Desktop, s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.Desktop, "Construction Budget.desktop"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\n"+
		"Type=Application\n"+
		"Version=1.0\n"+
		"Name=Construction Budget\n"+
		"Exec=/bin/sh \""+env.Path("run_app.sh")+"\"\n"+
		"Path="+env.Root+"\n"+
		"Icon="+icon+"\n"+
		"Terminal=false\n", string(content))

	// Recreating replaces the existing entry
	s.Icon = ""
	_, err = p.Create(context.Background(), env.Desktop, s)
	require.NoError(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Icon=")
}

func TestDesktopEntryProviderInMemory(t *testing.T) {
	fs := filesystem.NewMemory()
	p := NewDesktopEntryProvider(fs)

	path, err := p.Create(context.Background(), "/home/ana/Desktop", Shortcut{Name: "Install App", Target: "/budget/install_app.sh"})
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/Desktop/Install App.desktop", path)

	content, err := filesystem.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Exec=/bin/sh \"/budget/install_app.sh\"\n")
}

func TestExecQuote(t *testing.T) {
	assert.Equal(t, `"/home/ana/my app/run.sh"`, execQuote("/home/ana/my app/run.sh"))
	assert.Equal(t, `"/tmp/\\$HOME"`, execQuote("/tmp/$HOME"))
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	path, err := p.Create(context.Background(), t.TempDir(), Shortcut{Name: "App"})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, p.Path("/desk", "App"))
}

func TestForPlatform(t *testing.T) {
	assert.Equal(t, "wscript", ForPlatform(true, testutil.NewFakeRunner(), filesystem.NewOS()).Name())
	assert.NotEqual(t, "wscript", ForPlatform(false, testutil.NewFakeRunner(), filesystem.NewOS()).Name())
}
