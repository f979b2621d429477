package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pollboard/poll"
)

type fixtureFetcher struct {
	snap poll.Snapshot
	err  error
}

func (f fixtureFetcher) Fetch(ctx context.Context) (poll.Snapshot, error) {
	return f.snap, f.err
}

func fixture() poll.Snapshot {
	return poll.Snapshot{
		Posts: []poll.Post{
			{ID: 101, Subject: "[2024.01][TV] Frieren / 葬送のフリーレン", Votes: 300, AverageScore: 2, BayesianAverageScore: 1.8, StandardDeviation: 0.3},
			{ID: 102, Subject: "[2024.04][TV] Dungeon Meshi / ダンジョン飯 / Delicious in Dungeon", Votes: 250, AverageScore: 0, BayesianAverageScore: 0.2, StandardDeviation: 1.1},
			{ID: 103, Subject: "[2023.10][TV] Apothecary Diaries", Votes: 120, AverageScore: -2, BayesianAverageScore: -1.5, StandardDeviation: 0.4},
			{ID: 104, Subject: "[2023.07] Summer Special", Votes: 120, AverageScore: 1, BayesianAverageScore: 0.9, StandardDeviation: 0.8},
			{ID: 105, Subject: "misc thread without tag", Votes: 5, AverageScore: -1, BayesianAverageScore: -0.1, StandardDeviation: 0.2},
		},
		LastUpdated: time.Unix(1718000000, 0),
	}
}

// execute runs the CLI against the fixture feed and returns stdout.
func execute(t *testing.T, f fixtureFetcher, args ...string) (string, error) {
	t.Helper()
	t.Setenv("POLLBOARD_CONFIG", "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand(&RootOptions{Fetcher: f})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	require.NotNil(t, cmd)
	assert.Equal(t, "pollboard", cmd.Use)

	for _, name := range []string{"serve", "table", "viz", "years", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("source"))
}

func TestTableFlagDefaults(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	tableCmd, _, err := cmd.Find([]string{"table"})
	require.NoError(t, err)

	assert.Equal(t, "bayesian_average_score", tableCmd.Flags().Lookup("sort").DefValue)
	assert.Equal(t, "desc", tableCmd.Flags().Lookup("dir").DefValue)
	assert.Equal(t, "1", tableCmd.Flags().Lookup("page").DefValue)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, fixtureFetcher{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "pollboard dev\n", out)
}

func TestYears(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "years")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "years", []byte(out))
}

func TestVizPlain(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "viz", "--plain")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "viz_plain", []byte(out))
}

func TestVizPlainCompactFiltered(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "viz", "--plain", "--compact", "--year", "2023")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "viz_plain_compact_2023", []byte(out))
}

func TestVizLimit(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "viz", "--plain", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestVizStyled(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "viz")
	require.NoError(t, err)
	assert.Contains(t, out, "64px")
	assert.Contains(t, out, "Dungeon Meshi")
	assert.Contains(t, out, "(300 / 2.00)")
}

func TestVizPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viz.png")
	_, err := execute(t, fixtureFetcher{snap: fixture()}, "viz", "--png", path, "--width", "400")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestVizNoData(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "viz", "--year", "1999")
	require.NoError(t, err)
	assert.Equal(t, "No data available for the selected filters\n", out)
}

func TestTable(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "table")
	require.NoError(t, err)

	assert.Contains(t, out, "投票数")
	assert.Contains(t, out, "Frieren")
	assert.Contains(t, out, "5 of 5 rows · page 1 · has more: false")
	assert.Less(t, strings.Index(out, "Frieren"), strings.Index(out, "Summer Special"))
}

func TestTableSortAndPaging(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "table", "--sort", "votes", "--dir", "asc", "--page-size", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "misc thread without tag")
	assert.Contains(t, out, "Apothecary Diaries")
	assert.NotContains(t, out, "Frieren")
	assert.Contains(t, out, "2 of 5 rows · page 1 · has more: true")
}

func TestTableSearch(t *testing.T) {
	out, err := execute(t, fixtureFetcher{snap: fixture()}, "table", "-s", "DUNGEON", "--year", "2023")
	require.NoError(t, err)

	assert.Contains(t, out, "Dungeon Meshi")
	assert.Contains(t, out, "1 of 1 rows")
}

func TestInvalidFlags(t *testing.T) {
	cases := [][]string{
		{"table", "--quarter", "Q9"},
		{"table", "--month", "13"},
		{"table", "--sort", "views"},
		{"table", "--dir", "sideways"},
		{"table", "--page", "0"},
		{"viz", "--quarter", "summer"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(t, fixtureFetcher{snap: fixture()}, args...)
			require.Error(t, err)
		})
	}
}

func TestFetchError(t *testing.T) {
	boom := errors.New("feed unreachable")
	_, err := execute(t, fixtureFetcher{err: boom}, "years")
	require.ErrorIs(t, err, boom)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, fixtureFetcher{snap: fixture()}, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "years")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
