package root

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"become/internal/engine"
	"become/internal/storage"
)

type cli struct {
	t      *testing.T
	config string
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "become.db")
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("db_path: "+dbPath+"\ntimezone: UTC\nlog_mode: quiet\n"), 0o644))
	for _, k := range []string{"BECOME_DB", "BECOME_CONFIG", "BECOME_REDIS_ADDR", "BECOME_TZ", "BECOME_LOG_MODE"} {
		t.Setenv(k, "")
	}
	return &cli{t: t, config: config, dbPath: dbPath}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runContext(context.Background(), args...)
}

func (c *cli) runContext(ctx context.Context, args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (c *cli) snapshot() engine.Snapshot {
	c.t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, c.dbPath)
	require.NoError(c.t, err)
	defer db.Close()
	snap, err := storage.NewStore(db).Load(ctx)
	require.NoError(c.t, err)
	return snap
}

func TestCLIQuestLifecycle(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("identity", "add", "Writer", "-c", "creative", "-a", "Focus, Discipline")
	require.NoError(t, err)
	assert.Contains(t, out, "Identity created")

	_, err = c.run("quest", "add", "Write 500 words", "-i", "writer", "-x", "120")
	require.NoError(t, err)
	_, err = c.run("quest", "add", "Edit chapter", "-i", "writer")
	require.NoError(t, err)

	snap := c.snapshot()
	require.Len(t, snap.Quests, 2)
	assert.Equal(t, "Creative", snap.Identities[0].Category)
	first, second := snap.Quests[0].ID, snap.Quests[1].ID

	out, err = c.run("do", first)
	require.NoError(t, err)
	assert.Contains(t, out, "+120 XP")
	assert.Contains(t, out, "LEVEL UP")

	_, err = c.run("do", first)
	require.Error(t, err)
	assert.Equal(t, engine.KindInvalidTransition, engine.KindOf(err))

	_, err = c.run("fail", second)
	require.NoError(t, err)
	out, err = c.run("forge", second, "-r", "Fear", "-l", "Start with one line")
	require.NoError(t, err)
	assert.Contains(t, out, "wisdom")

	out, err = c.run("quest", "list", "-s", "forged")
	require.NoError(t, err)
	assert.Contains(t, out, "Edit chapter")
	assert.Contains(t, out, "Start with one line")
	assert.NotContains(t, out, "Write 500 words")

	out, err = c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Writer L2")

	_, err = c.run("week")
	require.NoError(t, err)
	_, err = c.run("badges")
	require.NoError(t, err)
}

func TestCLICheckin(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("checkin")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage streak")
	assert.Equal(t, 1, c.snapshot().Streaks.Usage.Count)
}

func TestCLIArgumentErrors(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("do")
	assert.EqualError(t, err, "quest id is required")

	_, err = c.run("quest", "list", "-s", "bogus")
	assert.Error(t, err)

	_, err = c.run("identity", "add", "Writer", "-c", "Creative")
	require.Error(t, err)
	assert.Equal(t, engine.KindValidation, engine.KindOf(err))
}

func TestCLIJournal(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("log", "Petite", "victoire", "ce", "matin")
	require.NoError(t, err)
	assert.Contains(t, out, "victory")
	_, err = c.run("log", "Une idée pour le blog")
	require.NoError(t, err)

	logs := c.snapshot().Logs
	require.Len(t, logs, 2)
	assert.Equal(t, "Petite victoire ce matin", logs[0].Content)
	assert.Equal(t, engine.LogThought, logs[1].Type)

	out, err = c.run("log", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal")
	shown := 0
	for _, l := range logs {
		if strings.Contains(out, l.Content) {
			shown++
		}
	}
	assert.Equal(t, 1, shown, out)
}

func TestCLIOnboardAndToday(t *testing.T) {
	c := newCLI(t)
	plan := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(plan, []byte(`identities:
  - name: Writer
    category: creative
    attributes: [Focus, Discipline]
  - name: Runner
    category: Sport & Health
    attributes: [Endurance]
tasks:
  - identity: Writer
    title: Morning pages
    time: "07:30"
    xp: 40
  - identity: Nobody
    title: Stretch
`), 0o644))

	out, err := c.run("onboard", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "2 new, 0 already present")
	assert.Contains(t, out, "2 planned for today")

	out, err = c.run("onboard", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "0 new, 2 already present")
	assert.Contains(t, out, "0 planned for today")

	snap := c.snapshot()
	require.Len(t, snap.Identities, 2)
	assert.Equal(t, "Creative", snap.Identities[0].Category)
	require.Len(t, snap.Quests, 2)

	var pages engine.Quest
	for _, q := range snap.Quests {
		if q.Title == "Morning pages" {
			pages = q
		}
	}
	assert.Equal(t, snap.Identities[0].ID, pages.LinkedIdentityID)
	assert.Equal(t, 40, pages.XPReward)

	_, err = c.run("do", pages.ID)
	require.NoError(t, err)

	out, err = c.run("quest", "list", "--today")
	require.NoError(t, err)
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "Stretch")

	out, err = c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2 done (50%)")

	_, err = c.run("onboard", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCLIBadgesFollowCategoryOrder(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("badges")
	require.NoError(t, err)

	last := -1
	for _, cat := range engine.BadgeCategories {
		i := strings.Index(out, cat)
		require.GreaterOrEqual(t, i, 0, "category %s missing", cat)
		assert.Greater(t, i, last, "category %s out of order", cat)
		last = i
	}
}

func TestCLIServeStopsOnCancel(t *testing.T) {
	c := newCLI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := c.runContext(ctx, "serve", "--addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "Listening on")
}

func TestCLIServeReportsListenError(t *testing.T) {
	c := newCLI(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, err = c.run("serve", "--addr", ln.Addr().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}
