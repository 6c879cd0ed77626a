package app

import (
	"bytes"
	"context"
	gojson "encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ktr0731/protoorder/cui"
	"github.com/ktr0731/protoorder/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testdata = "../proto/testdata"

func run(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(logger.Reset)
	var w, ew bytes.Buffer
	code := New(cui.New(cui.Writer(&w), cui.ErrWriter(&ew))).RunContext(ctx, args)
	return code, w.String(), ew.String()
}

func TestRun(t *testing.T) {
	cases := map[string]struct {
		args     []string
		expected string
	}{
		"version": {
			args:     []string{"--version"},
			expected: "protoorder 0.1.0\n",
		},
		"value layout": {
			args:     []string{"-I", testdata, "layout.proto"},
			expected: "layout.Tree\nlayout.Leaf\n",
		},
		"pointer layout": {
			args:     []string{"-I", testdata, "--layout", "pointer", "layout.proto"},
			expected: "layout.Leaf\nlayout.Tree\n",
		},
		"verify": {
			args:     []string{"-I", testdata, "--verify", "layout.proto"},
			expected: "layout.Tree\nlayout.Leaf\n",
		},
		"table": {
			args: []string{"-I", testdata, "-o", "table", "layout.proto"},
			expected: `+-------------+-------+-----------+-------------+-------------+
|   MESSAGE   | INDEX | MAP ENTRY |  HARD DEPS  |  SOFT DEPS  |
+-------------+-------+-----------+-------------+-------------+
| layout.Tree |     0 | false     |             | layout.Leaf |
| layout.Leaf |     1 | false     | layout.Tree |             |
+-------------+-------+-----------+-------------+-------------+

`,
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			code, out, errOut := run(t, context.Background(), c.args...)
			require.Equal(t, 0, code, "stderr: %s", errOut)
			if diff := cmp.Diff(c.expected, out); diff != "" {
				t.Errorf("(-want, +got)\n%s", diff)
			}
			assert.Empty(t, errOut)
		})
	}
}

func TestRunMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	const outer = `syntax = "proto3";

package outer;

message Outer {
  Inner inner = 1;
}

message Inner {}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outer.proto"), []byte(outer), 0o644))

	t.Run("name", func(t *testing.T) {
		code, out, errOut := run(t, context.Background(), "-I", testdata, "-I", dir, "layout.proto", "outer.proto")
		require.Equal(t, 0, code, "stderr: %s", errOut)
		expected := "layout.proto\nlayout.Tree\nlayout.Leaf\nouter.proto\nouter.Inner\nouter.Outer\n"
		if diff := cmp.Diff(expected, out); diff != "" {
			t.Errorf("(-want, +got)\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		code, out, errOut := run(t, context.Background(), "-I", testdata, "-I", dir, "-o", "json", "layout.proto", "outer.proto")
		require.Equal(t, 0, code, "stderr: %s", errOut)

		var v filesView
		require.NoError(t, gojson.Unmarshal([]byte(out), &v))
		expected := filesView{
			Files: []*fileView{
				{
					File: "layout.proto",
					Messages: []*messageView{
						{Name: "layout.Tree", Index: 0, HardDeps: []string{}, SoftDeps: []string{"layout.Leaf"}},
						{Name: "layout.Leaf", Index: 1, HardDeps: []string{"layout.Tree"}, SoftDeps: []string{}},
					},
				},
				{
					File: "outer.proto",
					Messages: []*messageView{
						{Name: "outer.Inner", Index: 1, HardDeps: []string{}, SoftDeps: []string{}},
						{Name: "outer.Outer", Index: 0, HardDeps: []string{"outer.Inner"}, SoftDeps: []string{}},
					},
				},
			},
		}
		if diff := cmp.Diff(expected, v); diff != "" {
			t.Errorf("(-want, +got)\n%s", diff)
		}
	})
}

func TestRunDumpConfig(t *testing.T) {
	code, out, errOut := run(t, context.Background(), "--dump-config", "--layout", "pointer", "-I", "protos")
	require.Equal(t, 0, code, "stderr: %s", errOut)
	assert.Contains(t, out, `layout = "pointer"`)
	assert.Contains(t, out, `"protos"`)
}

func TestRunVerbose(t *testing.T) {
	code, _, errOut := run(t, context.Background(), "--verbose", "-I", testdata, "layout.proto")
	require.Equal(t, 0, code, "stderr: %s", errOut)
	assert.Contains(t, errOut, "layout.proto: 2 messages, 1 hard edges, 1 soft edges")
	assert.Contains(t, errOut, "config:")
}

func TestRunErrors(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := map[string]struct {
		ctx       context.Context
		args      []string
		errSubstr string
		usage     bool
	}{
		"no files": {
			args:      []string{"-I", testdata},
			errSubstr: "protoorder: at least one proto file is required",
			usage:     true,
		},
		"unknown layout": {
			args:      []string{"--layout", "cpp", "layout.proto"},
			errSubstr: "invalid config",
			usage:     true,
		},
		"unknown format": {
			args:      []string{"-o", "yaml", "layout.proto"},
			errSubstr: "output.format must be one of name, table, json",
			usage:     true,
		},
		"invalid flag condition": {
			args:      []string{"--version", "--dump-config"},
			errSubstr: "invalid flag condition",
		},
		"missing file": {
			args:      []string{"-I", testdata, "missing.proto"},
			errSubstr: "failed to compile proto files",
		},
		"unknown flag": {
			args:      []string{"--foo"},
			errSubstr: "unknown flag: --foo",
		},
		"canceled": {
			ctx:  canceled,
			args: []string{"-I", testdata, "layout.proto"},
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			ctx := c.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			code, out, errOut := run(t, ctx, c.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, c.errSubstr)
			if c.usage {
				assert.Contains(t, out, "Usage: protoorder")
			}
		})
	}
}
