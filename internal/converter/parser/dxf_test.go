package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinding/internal/converter/dxftest"
	"wayfinding/internal/converter/models"
)

func TestParse_Entities(t *testing.T) {
	data := dxftest.New().
		Line("PAREDE", 0, 0, 1, 1).
		LWPolyline("PISO", true, [2]float64{0, 0}, [2]float64{4, 0}, [2]float64{4, 3}, [2]float64{0, 3}).
		Polyline("CORREDOR", false, [2]float64{1, 1}, [2]float64{2, 2}, [2]float64{3, 1}).
		Raw("0", "CIRCLE", "8", "MOBILIA", "10", "5", "20", "5", "40", "1").
		Bytes()

	entities, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entities, 4)

	line, ok := entities[0].(*models.Segment)
	require.True(t, ok, "want *models.Segment, got %T", entities[0])
	assert.Equal(t, "PAREDE", line.Layer())
	pts, err := line.Points()
	require.NoError(t, err)
	assert.Equal(t, []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, pts)

	lw, ok := entities[1].(*models.LightPolyline)
	require.True(t, ok, "want *models.LightPolyline, got %T", entities[1])
	assert.True(t, lw.Closed())
	assert.Len(t, lw.Vertices, 4)
	assert.Equal(t, models.Point{X: 4, Y: 3}, lw.Vertices[2])

	heavy, ok := entities[2].(*models.HeavyPolyline)
	require.True(t, ok, "want *models.HeavyPolyline, got %T", entities[2])
	assert.False(t, heavy.Closed())
	assert.Equal(t, "CORREDOR", heavy.Layer())
	assert.Equal(t, []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}, heavy.Vertices)

	assert.Equal(t, models.KindUnknown, entities[3].Kind())
	assert.Equal(t, "MOBILIA", entities[3].Layer())
}

func TestParse_ClosedHeavyPolyline(t *testing.T) {
	data := dxftest.New().
		Polyline("PISO", true, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{1, 1}).
		Line("A", 0, 0, 2, 2).
		Bytes()

	entities, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entities, 2, "VERTEX and SEQEND must not leak as entities")
	assert.Equal(t, models.KindHeavyPolyline, entities[0].Kind())
	assert.True(t, entities[0].Closed())
	assert.Equal(t, models.KindSegment, entities[1].Kind())
}

func TestParse_SkipsPaperSpace(t *testing.T) {
	data := dxftest.New().
		Raw("0", "LINE", "67", "1", "8", "VIEWPORT", "10", "0", "20", "0", "11", "1", "21", "1").
		Line("A", 0, 0, 1, 0).
		Bytes()

	entities, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "A", entities[0].Layer())
}

func TestParse_EntityErrorIsLocal(t *testing.T) {
	data := dxftest.New().
		Raw("0", "LINE", "8", "A", "10", "abc", "20", "0", "11", "1", "21", "1").
		Raw("0", "LWPOLYLINE", "8", "B", "70", "1", "20", "5").
		Line("C", 0, 0, 1, 1).
		Bytes()

	entities, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entities, 3)

	_, err = entities[0].Points()
	assert.ErrorContains(t, err, "invalid number")

	_, err = entities[1].Points()
	assert.ErrorContains(t, err, "code 20 before code 10")

	pts, err := entities[2].Points()
	require.NoError(t, err)
	assert.Len(t, pts, 2)
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "binary",
			data: append([]byte("AutoCAD Binary DXF\r\n\x1a\x00"), 0x00, 0x01),
			want: ErrBinaryDXF,
		},
		{
			name: "non numeric group code",
			data: []byte("0\nSECTION\nxx\nENTITIES\n0\nEOF\n"),
			want: ErrMalformed,
		},
		{
			name: "dangling group code",
			data: []byte("0\nSECTION\n2\nENTITIES\n0\n"),
			want: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_CRLFAndPadding(t *testing.T) {
	text := dxftest.New().Line("A", 1.5, 2, 3, 4).String()
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i := range lines {
		if i%2 == 0 {
			lines[i] = "  " + lines[i]
		}
	}
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(strings.Join(lines, "\r\n")+"\r\n")...)

	entities, err := ParseDXF(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entities, 1)
	pts, err := entities[0].Points()
	require.NoError(t, err)
	assert.Equal(t, []models.Point{{X: 1.5, Y: 2}, {X: 3, Y: 4}}, pts)
}

func TestParse_LayerEncoding(t *testing.T) {
	t.Run("legacy codepage", func(t *testing.T) {
		data := dxftest.New().
			Header("$ACADVER", 1, "AC1015").
			Header("$DWGCODEPAGE", 3, "ANSI_1252").
			Line("XREA", 0, 0, 1, 1).
			Bytes()
		data = bytes.ReplaceAll(data, []byte("XREA"), []byte("\xc1REA"))

		entities, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.Equal(t, "ÁREA", entities[0].Layer())
	})

	t.Run("unicode escape", func(t *testing.T) {
		data := dxftest.New().
			Header("$ACADVER", 1, "AC1015").
			Line(`\U+00C1REA`, 0, 0, 1, 1).
			Bytes()

		entities, err := Parse(data)
		require.NoError(t, err)
		assert.Equal(t, "ÁREA", entities[0].Layer())
	})

	t.Run("utf-8 drawing", func(t *testing.T) {
		data := dxftest.New().
			Header("$ACADVER", 1, "AC1027").
			Line("CONSULTÓRIO", 0, 0, 1, 1).
			Bytes()

		entities, err := Parse(data)
		require.NoError(t, err)
		assert.Equal(t, "CONSULTÓRIO", entities[0].Layer())
	})
}

func TestHeaderVars(t *testing.T) {
	data := dxftest.New().
		Header("$ACADVER", 1, "AC1018").
		Header("$DWGCODEPAGE", 3, "ANSI_1251").
		Header("$UCSNAME", 2, "WORLD").
		Bytes()

	pairs, err := readPairs(data)
	require.NoError(t, err)

	vars := headerVars(splitRecords(pairs))
	assert.Equal(t, "AC1018", vars["$ACADVER"])
	assert.Equal(t, "ANSI_1251", vars["$DWGCODEPAGE"])
	assert.Equal(t, "WORLD", vars["$UCSNAME"])
}

func TestParse_NonFiniteNumbers(t *testing.T) {
	for _, value := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
		t.Run(value, func(t *testing.T) {
			data := dxftest.New().
				Raw("0", "LINE", "8", "A", "10", value, "20", "0", "11", "1", "21", "1").
				Raw("0", "POLYLINE", "8", "B", "70", "1").
				Raw("0", "VERTEX", "8", "B", "10", "0", "20", value).
				Raw("0", "SEQEND").
				Bytes()

			entities, err := Parse(data)
			require.NoError(t, err)
			require.Len(t, entities, 2)

			for _, e := range entities {
				_, err := e.Points()
				assert.ErrorContains(t, err, "invalid number")
			}
		})
	}
}
