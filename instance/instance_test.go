package instance_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/zonealloc/instance"
	"github.com/katalvlaran/zonealloc/model"
	"github.com/stretchr/testify/require"
)

func demo() *instance.Instance {
	return &instance.Instance{
		Name:      "demo",
		Resources: []string{"alice", "bob", "carol"},
		Zones:     []string{"north", "south"},
		Capacity:  []int{1, 1},
		Cost:      [][]float64{{1, 4}, {2, 3}, {5, 1}},
	}
}

func TestLoad_YAMLAndCSVAgree(t *testing.T) {
	fromYAML, err := instance.Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	fromCSV, err := instance.Load(filepath.Join("testdata", "demo.csv"))
	require.NoError(t, err)

	if diff := cmp.Diff(demo(), fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(demo(), fromCSV); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, fromCSV.Validate())
}

func TestParse_Errors(t *testing.T) {
	_, err := instance.Parse([]byte(""))
	require.ErrorIs(t, err, instance.ErrFormat)

	_, err = instance.Parse([]byte("cost: [[1]]\ncapacity: [0]\nbogus: 1\n"))
	require.ErrorIs(t, err, instance.ErrFormat)

	_, err = instance.Parse([]byte("cost: nope\n"))
	require.ErrorIs(t, err, instance.ErrFormat)

	// JSON is valid YAML.
	in, err := instance.Parse([]byte(`{"cost": [[1, 2]], "capacity": [1, 0]}`))
	require.NoError(t, err)
	require.NoError(t, in.Validate())
}

func TestReadCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"no zones":       "resource\nalice\n",
		"bad cost":       "r,z\nalice,x\ncapacity,0\n",
		"bad capacity":   "r,z\nalice,1\ncapacity,one\n",
		"ragged":         "r,z1,z2\nalice,1\ncapacity,0,0\n",
		"no capacity":    "r,z\nalice,1\n",
		"two capacities": "r,z\nalice,1\ncapacity,0\ncapacity,1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := instance.ReadCSV(strings.NewReader(doc))
			require.ErrorIs(t, err, instance.ErrFormat)
		})
	}
}

func TestValidate(t *testing.T) {
	in := demo()
	in.Resources = in.Resources[:2]
	require.ErrorIs(t, in.Validate(), instance.ErrNames)

	in = demo()
	in.Zones = append(in.Zones, "east")
	require.ErrorIs(t, in.Validate(), instance.ErrNames)

	in = demo()
	in.Capacity = []int{2, 2}
	require.ErrorIs(t, in.Validate(), model.ErrInfeasible)
}

func TestNames(t *testing.T) {
	in := &instance.Instance{Cost: [][]float64{{1}}, Capacity: []int{0}}
	require.Equal(t, "R0", in.ResourceName(0))
	require.Equal(t, "Z0", in.ZoneName(0))
	require.Equal(t, "carol", demo().ResourceName(2))
	require.Equal(t, "south", demo().ZoneName(1))
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, demo().WriteYAML(&buf))
	back, err := instance.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, demo(), back)
}

func TestGenerate(t *testing.T) {
	opts := instance.DefaultGenerateOptions()
	opts.Seed = 42
	opts.Named = true
	a, err := instance.Generate(opts)
	require.NoError(t, err)
	b, err := instance.Generate(opts)
	require.NoError(t, err)
	require.Equal(t, a, b, "same seed, same instance")
	require.NoError(t, a.Validate())
	require.Len(t, a.Cost, 12)
	require.Len(t, a.Zones, 3)

	var total int
	for _, c := range a.Capacity {
		total += c
	}
	require.Equal(t, 6, total)
	for _, row := range a.Cost {
		for _, c := range row {
			require.GreaterOrEqual(t, c, 0.0)
			require.LessOrEqual(t, c, 100.0)
		}
	}

	opts.Seed = 43
	c, err := instance.Generate(opts)
	require.NoError(t, err)
	require.NotEqual(t, a.Cost, c.Cost)

	for _, bad := range []instance.GenerateOptions{
		{Resources: -1, Zones: 1},
		{Resources: 1, Zones: 0},
		{Resources: 1, Zones: 1, Fill: 1.5},
		{Resources: 1, Zones: 1, MaxCost: -1},
	} {
		_, err = instance.Generate(bad)
		require.ErrorIs(t, err, instance.ErrGenerate)
	}
}
