package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/shipflow/balance"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/model"
)

const lanes = `shipment_company,from_country,to_country,cost
UPS,Austria,Bulgaria,4
DHL,Austria,Bulgaria,2
UPS,Bulgaria,Germany,3
DHL,Germany,Austria,1
`

func fixture(t *testing.T) (dir, input, env string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(input, []byte(lanes), 0o600))
	env = filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, nil, 0o600))

	return dir, input, env
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(os.Stderr)

	return root.Execute()
}

func TestSolveCmd(t *testing.T) {
	dir, input, env := fixture(t)
	out := filepath.Join(dir, "result.csv")
	prom := filepath.Join(dir, "shipflow.prom")
	models := filepath.Join(dir, "models")

	err := run(t, "solve", "--env-file", env, "-i", input, "-o", out,
		"--log-level", "error", "--metrics-file", prom, "--model-dir", models, "--workers", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, "from,to,cost,path,num_of_days", lines[0])
	require.Equal(t, `Austria,Bulgaria,2,"[(DHL, Austria, Bulgaria)]",1`, lines[1])
	require.Equal(t, `Austria,Germany,5,"[(DHL, Austria, Bulgaria), (UPS, Bulgaria, Germany)]",2`, lines[2])

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(metrics), "shipflow_nodes 3")

	entries, err := os.ReadDir(models)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	require.FileExists(t, filepath.Join(models, "Austria__Germany.dimacs"))
}

func TestSolveCmd_BackendAndFormatFlags(t *testing.T) {
	dir, input, env := fixture(t)
	out := filepath.Join(dir, "result.json")

	err := run(t, "solve", "--env-file", env, "-i", input, "-o", out,
		"--log-level", "error", "--backend", "ilp", "--format", "json", "--path-order", "legacy")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"num_of_days": 2`)
	require.Equal(t, "ilp", cfg.Backend)
}

func TestModelCmd(t *testing.T) {
	dir, input, env := fixture(t)
	out := filepath.Join(dir, "a_g.dimacs")

	require.NoError(t, run(t, "model", "Austria", "Germany", "--env-file", env, "-i", input, "-o", out, "--log-level", "error"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "p min 3 4\n")
}

func TestRouteCmd_UnknownNode(t *testing.T) {
	_, input, env := fixture(t)
	err := run(t, "route", "Austria", "Mars", "--env-file", env, "-i", input, "--log-level", "error")
	require.Error(t, err)
}

func TestSetup_BadFlag(t *testing.T) {
	_, input, env := fixture(t)
	err := run(t, "nodes", "--env-file", env, "-i", input, "--backend", "simplex")
	require.Error(t, err)
}

func TestNodesCmd_YAML(t *testing.T) {
	_, input, env := fixture(t)
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"nodes", "--env-file", env, "-i", input, "--format", "yaml", "--log-level", "error"})
	require.NoError(t, root.Execute())

	require.NotContains(t, buf.String(), "{")
	var got nodeSummary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "endpoints", got.NodeSet)
	require.Equal(t, []string{"Austria", "Bulgaria", "Germany"}, got.Nodes)
	require.Equal(t, 6, got.Pairs)
}

func TestFileSafe(t *testing.T) {
	require.Equal(t, "Austria", fileSafe("Austria"))
	require.Equal(t, "New%20York", fileSafe("New York"))
	require.Equal(t, "a%2Fb", fileSafe("a/b"))
	require.Equal(t, "A%5FB", fileSafe("A_B"))
	require.NotEqual(t, fileSafe("A B"), fileSafe("A_B"))
}

func TestDimacsDump_DistinctNamesDistinctFiles(t *testing.T) {
	cat, err := catalog.FromRows([]catalog.Row{{Carrier: "X", From: "A", To: "B", Cost: 1}})
	require.NoError(t, err)
	nodes := cat.Nodes(catalog.Endpoints)
	b, err := balance.Build("A", "B", nodes)
	require.NoError(t, err)
	m, err := model.Build(b, cat, nodes)
	require.NoError(t, err)

	dir := t.TempDir()
	sink := dimacsDump(dir)
	pairs := [][2]string{{"A B", "C"}, {"A_B", "C"}, {"A__B", "C"}, {"A", "B__C"}}
	errs := make([]error, len(pairs))
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, from, to string) {
			defer wg.Done()
			errs[i] = sink(from, to, m)
		}(i, p[0], p[1])
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, len(pairs))
	require.FileExists(t, filepath.Join(dir, "A%20B__C.dimacs"))
}
