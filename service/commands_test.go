package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toyblog/app/models"
	"toyblog/app/services"
	"toyblog/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnv points the badger store at a fresh temp directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "badger")
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STORE_DRIVER", config.StoreBadger)
	t.Setenv("SESSION_DRIVER", config.SessionBadger)
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("BCRYPT_COST", "4")
	return dbPath
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// withApp opens the configured store, runs fn and closes it again so the
// badger directory lock is released for the next command.
func withApp(t *testing.T, fn func(app *App)) {
	t.Helper()
	ctx := context.Background()
	app, err := NewApp(ctx, config.Load(), testLogger())
	require.NoError(t, err)
	defer func() { require.NoError(t, app.Close(ctx)) }()
	fn(app)
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "toyblog version "+Version+"\n", out)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, "", "bake")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := runCLI(t, "", "db", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "sqlite"`)
}

func TestDBCommandsNeedBadger(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("STORE_DRIVER", config.StoreMongo)
	t.Setenv("SESSION_DRIVER", config.SessionRedis)
	_, err := runCLI(t, "", "db", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER=badger")
}

func TestInitDB(t *testing.T) {
	dbPath := setupTestEnv(t)

	out, err := runCLI(t, "", "db", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized successfully")
	assert.DirExists(t, dbPath)

	out, err = runCLI(t, "", "db", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database already exists")
}

func TestCleanDB(t *testing.T) {
	dbPath := setupTestEnv(t)

	t.Run("missing database", func(t *testing.T) {
		out, err := runCLI(t, "", "db", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database is already clean")
	})

	t.Run("cancelled", func(t *testing.T) {
		_, err := runCLI(t, "", "db", "init")
		require.NoError(t, err)

		out, err := runCLI(t, "n\n", "db", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := runCLI(t, "y\n", "db", "clean")
		require.NoError(t, err)
		assert.Contains(t, out, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})

	t.Run("yes flag skips the prompt", func(t *testing.T) {
		_, err := runCLI(t, "", "db", "init")
		require.NoError(t, err)

		out, err := runCLI(t, "", "db", "clean", "--yes")
		require.NoError(t, err)
		assert.NotContains(t, out, "[y/N]")
		assert.NoDirExists(t, dbPath)
	})
}

func TestBackupAndRestore(t *testing.T) {
	setupTestEnv(t)
	backupFile := filepath.Join(t.TempDir(), "snapshot.db")

	_, err := runCLI(t, "", "db", "backup", "--out", backupFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database exists")

	withApp(t, func(app *App) {
		_, err := app.Blogs.CreateBlog(context.Background(), services.BlogInput{
			Title: "Backed up post", Snippet: "snippet", Body: "body",
		})
		require.NoError(t, err)
	})

	out, err := runCLI(t, "", "db", "backup", "--out", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Database backed up successfully to "+backupFile)

	_, err = runCLI(t, "", "db", "clean", "--yes")
	require.NoError(t, err)

	out, err = runCLI(t, "", "db", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Database restored successfully")

	withApp(t, func(app *App) {
		posts, err := app.Blogs.ListBlogs(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Backed up post", posts[0].Title)
	})

	out, err = runCLI(t, "n\n", "db", "restore", backupFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Operation cancelled")
}

func TestRestoreRejectsBadFiles(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()

	_, err := runCLI(t, "", "db", "restore", filepath.Join(dir, "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup file does not exist")

	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = runCLI(t, "", "db", "restore", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup file is empty")

	_, err = runCLI(t, "", "db", "restore")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	setupTestEnv(t)
	export := filepath.Join(t.TempDir(), "blogs.json")
	require.NoError(t, os.WriteFile(export, []byte(`{
		"blogs": [
			{"id": 1, "title": "Wooden trains are back", "snippet": "All aboard", "body": "Choo choo.", "createdAt": "2024-03-01T10:00:00.000Z"},
			{"id": 2, "title": "Puzzle night", "snippet": "Pieces", "body": "Bring snacks.", "author": "Rita"},
			{"id": 3, "title": "Nope", "snippet": "too short title", "body": "x"}
		],
		"nextId": 4
	}`), 0o644))

	out, err := runCLI(t, "", "import", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 posts, 0 already present, 1 invalid")

	out, err = runCLI(t, "", "import", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 posts, 2 already present, 1 invalid")

	withApp(t, func(app *App) {
		posts, err := app.Blogs.ListBlogs(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "Puzzle night", posts[0].Title)
		assert.Equal(t, "Rita", posts[0].Author)
		assert.Equal(t, models.DefaultAuthor, posts[1].Author)
		assert.Equal(t, 2024, posts[1].CreatedAt.Year())
	})

	_, err = runCLI(t, "", "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestUsersPromote(t *testing.T) {
	setupTestEnv(t)
	withApp(t, func(app *App) {
		auth := services.NewAuthService(app.Store.Users, app.Config.BcryptCost)
		_, err := auth.Register(context.Background(), services.RegisterInput{
			Email: "boss@example.com", Password: "secret1", Password2: "secret1",
		})
		require.NoError(t, err)
	})

	out, err := runCLI(t, "", "users", "promote", "Boss@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com is now admin\n", out)

	out, err = runCLI(t, "", "users", "demote", "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com is now user\n", out)

	_, err = runCLI(t, "", "users", "promote", "ghost@example.com")
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}
