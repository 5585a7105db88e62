package calvin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkFixture(t *testing.T) *File {
	t.Helper()
	hdr := NewFileHeader("walk-test")
	hdr.Meta.Params.Add(NewASCIIParam("top", "x", -1))
	parent := NewGenericDataHeader("parent-type")
	parent.Params.Add(NewInt8Param("p", -3))
	hdr.Meta.AddParent(parent)

	for _, name := range []string{"G1", "G2"} {
		g, err := hdr.AddGroup(name)
		require.NoError(t, err)
		tbl, err := g.AddTable("T", 0)
		require.NoError(t, err)
		require.NoError(t, tbl.AddColumn("c", Int8Column()))
		require.NoError(t, tbl.AddParam(NewUInt16Param("n", 7)))
	}

	path := filepath.Join(t.TempDir(), "walk.dat")
	w, err := Create(path, hdr)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWalk(t *testing.T) {
	f := walkFixture(t)

	var paths []string
	err := Walk(f, func(path string, obj any) error {
		paths = append(paths, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/G1", "/G1/T", "/G2", "/G2/T"}, paths)
}

func TestWalkStop(t *testing.T) {
	f := walkFixture(t)

	count := 0
	err := Walk(f, func(path string, obj any) error {
		count++
		if _, ok := obj.(*GroupHeader); ok {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWalkParams(t *testing.T) {
	f := walkFixture(t)

	got := map[string]string{}
	err := WalkParams(f, func(info ParamInfo) error {
		got[info.Path] = info.ObjectType + "=" + info.Param.String()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/@top":        "file=x",
		"/parent[0]@p": "parent=-3",
		"/G1/T@n":      "table=7",
		"/G2/T@n":      "table=7",
	}, got)
}
