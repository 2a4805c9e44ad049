/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/bracketodds/bracket"
	"github.com/mikeb26/bracketodds/odds"
)

var oddsLine = regexp.MustCompile(`^player (.+) wins ([0-9]+(?:\.[0-9]+)?)% of the time$`)

// runCLI runs the command and returns stdout, stderr and the exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("BRACKETODDS_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.Execute()

	return stdout.String(), stderr.String(), exitCode(err)
}

func parseOdds(t *testing.T, out string) map[string]float64 {
	t.Helper()
	ret := make(map[string]float64)
	for _, line := range bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n")) {
		m := oddsLine.FindStringSubmatch(string(line))
		require.NotNil(t, m, "unexpected line %q", line)
		pct, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		ret[m[1]] = pct
	}
	return ret
}

func writeDoc(t *testing.T, name string, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestTwoPlayers(t *testing.T) {
	path := writeDoc(t, "two.toml", `
[Players.Fragga]
elo = 1600
draw = 1

[Players.Ser]
elo = 1400
draw = 2
`)
	stdout, _, code := runCLI(t, path)
	require.Equal(t, exitOK, code)

	got := parseOdds(t, stdout)
	require.Len(t, got, 2)
	assert.InDelta(t, 75.97, got["Fragga"], 0.01)
	assert.InDelta(t, 24.03, got["Ser"], 0.01)
	assert.InDelta(t, 100.0, got["Fragga"]+got["Ser"], 1e-3)
}

func TestOutputFollowsDraw(t *testing.T) {
	stdout, _, code := runCLI(t, "testdata/tournament.toml")
	require.Equal(t, exitOK, code)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 4)
	for i, name := range []string{"Ettu", "Fragga", "Ser", "Sujoy"} {
		m := oddsLine.FindStringSubmatch(string(lines[i]))
		require.NotNil(t, m)
		assert.Equal(t, name, m[1])
	}

	total := 0.0
	for _, pct := range parseOdds(t, stdout) {
		total += pct
	}
	assert.InDelta(t, 100.0, total, 1e-3)
}

func TestByeAndDefaultInput(t *testing.T) {
	path := writeDoc(t, "bye.yaml", `
Players:
  Ettu: {elo: 1500, draw: 1}
  Fragga: {elo: 1700, draw: 2}
  Sujoy: {elo: 1550, draw: 4}
`)
	t.Setenv("BRACKETODDS_INPUT", path)

	stdout, _, code := runCLI(t)
	require.Equal(t, exitOK, code)

	got := parseOdds(t, stdout)
	require.Len(t, got, 3)
	assert.InDelta(t, 100.0, got["Ettu"]+got["Fragga"]+got["Sujoy"], 1e-3)
}

func TestHigherRatedPredictor(t *testing.T) {
	stdout, _, code := runCLI(t, "--predictor", "higher-rated", "--workers", "2",
		"testdata/tournament.toml")
	require.Equal(t, exitOK, code)

	got := parseOdds(t, stdout)
	assert.Equal(t, 100.0, got["Fragga"])
	assert.Equal(t, 0.0, got["Ettu"])
}

func TestInvalidSizeExitsTwo(t *testing.T) {
	path := writeDoc(t, "bad.toml", `
[Tournament]
size = 3

[Players.A]
elo = 1500
draw = 1

[Players.B]
elo = 1400
draw = 2
`)
	stdout, _, code := runCLI(t, path)
	assert.Equal(t, exitInvalidInput, code)
	assert.Empty(t, stdout)
}

func TestDataErrorsExitTwo(t *testing.T) {
	cases := map[string]string{
		"dup.toml":       "[Players.A]\nelo = 1\ndraw = 1\n[Players.B]\nelo = 1\ndraw = 1\n",
		"range.toml":     "[Players.A]\nelo = 1\ndraw = 1\n[Players.B]\nelo = 1\ndraw = 7\n",
		"structure.toml": "[Tournament]\nstructure = \"Double Elimination\"\n[Players.A]\nelo = 1\ndraw = 1\n",
		"missing.toml":   "[Players.A]\ndraw = 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			stdout, _, code := runCLI(t, writeDoc(t, name, doc))
			assert.Equal(t, exitInvalidInput, code)
			assert.Empty(t, stdout)
		})
	}

	stdout, _, code := runCLI(t, filepath.Join(t.TempDir(), "nope.toml"))
	assert.Equal(t, exitInvalidInput, code)
	assert.Empty(t, stdout)
}

func TestBadFlagsExitOne(t *testing.T) {
	_, _, code := runCLI(t, "--predictor", "coin", "testdata/tournament.toml")
	assert.Equal(t, exitFailure, code)

	_, _, code = runCLI(t, "a.toml", "b.toml")
	assert.Equal(t, exitFailure, code)

	_, _, code = runCLI(t, "--scale", "0", "testdata/tournament.toml")
	assert.Equal(t, exitFailure, code)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestOutputOddsDecimal(t *testing.T) {
	b, err := bracket.Build([]bracket.Entrant{
		{Name: "Fragga", Rating: 2800, Draw: 1},
		{Name: "Ser", Rating: 800, Draw: 2},
	}, 0)
	require.NoError(t, err)
	res := &odds.Result{Bracket: b, Probabilities: []float64{1 - 1.2e-7, 1.2e-7}}

	var out bytes.Buffer
	require.NoError(t, outputOdds(&out, res))
	assert.NotContains(t, out.String(), "e-")
	assert.Contains(t, out.String(), "player Ser wins 0.00001")
	parseOdds(t, out.String())

	assert.ErrorContains(t, outputOdds(failingWriter{}, res), "disk full")
}

func TestWriteFailureExitsOne(t *testing.T) {
	t.Setenv("BRACKETODDS_LOG_LEVEL", "error")

	var stderr bytes.Buffer
	cmd := newRootCmd(failingWriter{}, &stderr)
	cmd.SetArgs([]string{"testdata/tournament.toml"})
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}
