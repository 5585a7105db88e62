package calvin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.dat"))
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenBadPreamble(t *testing.T) {
	tests := []struct {
		name  string
		patch func([]byte)
	}{
		{"bad magic", func(b []byte) { b[0] = 60 }},
		{"bad version", func(b []byte) { b[1] = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGenotypeFile(t)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.patch(data)
			require.NoError(t, os.WriteFile(path, data, 0o644))

			_, err = Open(path)
			assert.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestOpenTruncated(t *testing.T) {
	path := writeGenotypeFile(t)
	st, err := os.Stat(path)
	require.NoError(t, err)

	for _, size := range []int64{st.Size() - 1, st.Size() - 17, 40, 5} {
		require.NoError(t, os.Truncate(path, size))
		_, err := Open(path)
		assert.ErrorIs(t, err, ErrTruncatedFile, "size %d", size)
	}
}

func TestOpenSpanMismatch(t *testing.T) {
	path := writeGenotypeFile(t)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xAA})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Trailing bytes after the last table are tolerated.
	cf, err := Open(path)
	require.NoError(t, err)
	tbl, err := cf.Header().Table("MultiData", "Genotype")
	require.NoError(t, err)
	next := tbl.NextTable()
	require.NoError(t, cf.Close())

	// A next-table offset that disagrees with the data span is not.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	start := tbl.HeaderStart()
	next++
	data[start+4] = byte(next >> 24)
	data[start+5] = byte(next >> 16)
	data[start+6] = byte(next >> 8)
	data[start+7] = byte(next)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrCorruptHeader)
}

func putUint32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

func TestOpenDataOverlapsHeader(t *testing.T) {
	tests := []struct {
		name    string
		dataPos func(headerStart int64) int64
	}{
		{"data at file start", func(int64) int64 { return 0 }},
		{"data inside table header", func(start int64) int64 { return start + 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGenotypeFile(t)
			cf, err := Open(path)
			require.NoError(t, err)
			tbl, err := cf.Header().Table("MultiData", "Genotype")
			require.NoError(t, err)
			start, dataSize := tbl.HeaderStart(), tbl.DataSize()
			require.NoError(t, cf.Close())

			dataPos := tt.dataPos(start)
			// Keep the span self-consistent so only the overlap is wrong.
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			putUint32(data[start:], uint32(dataPos))
			putUint32(data[start+4:], uint32(dataPos+dataSize))
			require.NoError(t, os.WriteFile(path, data, 0o644))

			_, err = Open(path)
			assert.ErrorIs(t, err, ErrCorruptHeader)
			_, err = OpenUpdate(path)
			assert.ErrorIs(t, err, ErrCorruptHeader)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, data, after, "rejected file is left untouched")
		})
	}
}

func TestOpenAs(t *testing.T) {
	path := writeGenotypeFile(t)

	f, err := OpenAs(path, "affymetrix-multi-data-type-analysis")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenAs(path, "affymetrix-calvin-intensity")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestRandomAccessOrder(t *testing.T) {
	hdr := NewFileHeader("random-access")
	g, err := hdr.AddGroup("G")
	require.NoError(t, err)
	tbl, err := g.AddTable("T", 50)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn("i8", Int8Column()))
	require.NoError(t, tbl.AddColumn("u16", UInt16Column()))
	require.NoError(t, tbl.AddColumn("i32", Int32Column()))
	require.NoError(t, tbl.AddColumn("name", TextColumn(6)))

	path := filepath.Join(t.TempDir(), "random.dat")
	w, err := Create(path, hdr)
	require.NoError(t, err)
	rw, err := w.Table("G", "T")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, rw.WriteRow(int8(-i), uint16(i*1000), int32(i*-70000), "µ"+string(rune('a'+i%26))))
	}
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	rt, err := f.OpenTablePath("G/T")
	require.NoError(t, err)

	for i := 49; i >= 0; i-- {
		v8, err := rt.Int8(i, 0)
		require.NoError(t, err)
		assert.Equal(t, int8(-i), v8)
		v16, err := rt.UInt16(i, 1)
		require.NoError(t, err)
		assert.Equal(t, uint16(i*1000), v16)
		v32, err := rt.Int32(i, 2)
		require.NoError(t, err)
		assert.Equal(t, int32(i*-70000), v32)
		s, err := rt.String(i, 3)
		require.NoError(t, err)
		assert.Equal(t, "µ"+string(rune('a'+i%26)), s)
	}

	col, err := rt.Float64Column(2)
	require.NoError(t, err)
	require.Len(t, col, 50)
	assert.Equal(t, float64(49*-70000), col[49])
}

func TestTableAccessErrors(t *testing.T) {
	f, err := Open(writeGenotypeFile(t))
	require.NoError(t, err)
	tbl, err := f.OpenTable("MultiData", "Genotype")
	require.NoError(t, err)

	_, err = tbl.Cell(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tbl.Cell(0, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tbl.Cell(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = tbl.Int32(0, 1)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = tbl.String(0, 2)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = tbl.Float64Column(0)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = f.OpenTable("MultiData", "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.OpenTablePath("MultiData")
	assert.ErrorIs(t, err, ErrInvalidPath)

	require.NoError(t, f.Close())
	_, err = tbl.Cell(0, 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = f.OpenTable("MultiData", "Genotype")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHeaderRoundTrip(t *testing.T) {
	hdr := genotypeHeader(t, 0)
	hdr.Meta.Params.Add(NewTextParam("affymetrix-algorithm-name", "BRLMM", -1))
	hdr.Meta.Params.Add(NewRawParam("future-param", "application/x-future", []byte{1, 2, 3}))

	parent := NewGenericDataHeader("affymetrix-calvin-intensity")
	parent.FileID = "parent-id"
	parent.Params.Add(NewInt32Param("affymetrix-cel-rows", 2560))
	grand := NewGenericDataHeader("affymetrix-calvin-scan-acquisition")
	parent.AddParent(grand)
	hdr.Meta.AddParent(parent)

	tbl, err := hdr.Table("MultiData", "Genotype")
	require.NoError(t, err)
	require.NoError(t, tbl.AddParam(NewFloatParam("threshold", 0.25)))

	path := filepath.Join(t.TempDir(), "header.dat")
	w, err := Create(path, hdr)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	meta := f.Header().Meta

	name, ok := meta.Params.Find("affymetrix-algorithm-name")
	require.True(t, ok)
	s, err := name.Text()
	require.NoError(t, err)
	assert.Equal(t, "BRLMM", s)

	future, ok := meta.Params.Find("future-param")
	require.True(t, ok)
	assert.Equal(t, ParamUnknown, future.Type())
	assert.Equal(t, "application/x-future", future.MIMEType())
	assert.Equal(t, []byte{1, 2, 3}, future.Payload())

	found, ok := meta.FindParent("affymetrix-calvin-scan-acquisition")
	require.True(t, ok)
	assert.Equal(t, "affymetrix-calvin-scan-acquisition", found.FileTypeID)
	require.Len(t, meta.Parents(), 1)
	rows, ok := meta.Parents()[0].Params.Find("affymetrix-cel-rows")
	require.True(t, ok)
	n, err := rows.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(2560), n)

	rt, err := f.Header().Table("MultiData", "Genotype")
	require.NoError(t, err)
	th, ok := rt.FindParam("threshold")
	require.True(t, ok)
	v, err := th.Float()
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), v)
	assert.Equal(t, "ProbeSetName", rt.Columns()[0].Name)
	assert.Equal(t, ASCIIColumn(8), rt.Columns()[0].Type)
}
