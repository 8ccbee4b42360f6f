package gridsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- IndexToLabel / LabelToIndex Tests ---

func TestIndexToLabel(t *testing.T) {
	tests := map[int]string{
		0:   "A",
		1:   "B",
		25:  "Z",
		26:  "AA",
		27:  "AB",
		51:  "AZ",
		52:  "BA",
		701: "ZZ",
		702: "AAA",
	}
	for col, expected := range tests {
		assert.Equal(t, expected, IndexToLabel(col), "col %d", col)
	}
}

func TestIndexToLabel_Negative(t *testing.T) {
	assert.Equal(t, "", IndexToLabel(-1))
}

func TestLabelToIndex(t *testing.T) {
	tests := map[string]int{
		"A":   0,
		"Z":   25,
		"AA":  26,
		"AZ":  51,
		"ZZ":  701,
		"AAA": 702,
	}
	for label, expected := range tests {
		col, err := LabelToIndex(label)
		require.NoError(t, err, "label %q", label)
		assert.Equal(t, expected, col, "label %q", label)
	}
}

func TestLabelToIndex_Invalid(t *testing.T) {
	for _, label := range []string{"", "a", "A1", "1A", "Ä", "A-B", "AAAAAAAAAAAAAAA"} {
		_, err := LabelToIndex(label)
		assert.ErrorIs(t, err, ErrInvalidAddress, "label %q", label)
	}
}

func TestIndexToLabel_LabelToIndex_Roundtrip(t *testing.T) {
	for i := 0; i <= 18277; i++ { // A .. ZZZ
		label := IndexToLabel(i)
		col, err := LabelToIndex(label)
		require.NoError(t, err)
		require.Equal(t, i, col, "roundtrip col %d → %q → %d", i, label, col)
	}
}

// --- ParseAddress Tests ---

func TestParseAddress_Simple(t *testing.T) {
	ref, err := ParseAddress("A1")
	require.NoError(t, err)
	assert.Equal(t, CellRef{Row: 0, Col: 0}, ref)
}

func TestParseAddress_MultiLetter(t *testing.T) {
	ref, err := ParseAddress("AZ10")
	require.NoError(t, err)
	assert.Equal(t, 9, ref.Row)
	assert.Equal(t, 51, ref.Col)
}

func TestParseAddress_Invalid(t *testing.T) {
	cases := []string{"", "A", "1", "a1", "A1B", "$A$1", "A-1", " A1", "A0", "A99999999999999999999999"}
	for _, tc := range cases {
		_, err := ParseAddress(tc)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", tc)
	}
}

func TestCellRef_String_Roundtrip(t *testing.T) {
	for _, tc := range []string{"A1", "Z99", "AA1", "ZZ702"} {
		ref, err := ParseAddress(tc)
		require.NoError(t, err, "parse %q", tc)
		assert.Equal(t, tc, ref.String())
	}
}

// --- Rect Tests ---

func TestParseRange(t *testing.T) {
	r, err := ParseRange("C5:A1")
	require.NoError(t, err)
	assert.Equal(t, Rect{StartRow: 0, StartCol: 0, EndRow: 4, EndCol: 2}, r)
	assert.Equal(t, "A1:C5", r.String())
}

func TestParseRange_SingleCell(t *testing.T) {
	r, err := ParseRange("B2")
	require.NoError(t, err)
	assert.True(t, r.IsSingleCell())
	assert.Equal(t, "B2", r.String())
}

func TestParseRange_Invalid(t *testing.T) {
	_, err := ParseRange("A1:")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestRect_Normalize(t *testing.T) {
	r := Rect{StartRow: 3, StartCol: 4, EndRow: 1, EndCol: 0}.Normalize()
	assert.Equal(t, Rect{StartRow: 1, StartCol: 0, EndRow: 3, EndCol: 4}, r)
}

func TestRect_SizeAndCells(t *testing.T) {
	r := NewRect(1, 1, 5, 3)
	assert.Equal(t, Size{Width: 3, Height: 5}, r.Size())
	assert.Equal(t, 15, r.Cells())
	assert.Equal(t, "(3x5)", r.Size().String())
}

func TestRect_Contains(t *testing.T) {
	r := NewRect(1, 1, 5, 5)
	assert.True(t, r.Contains(1, 1))
	assert.True(t, r.Contains(5, 5))
	assert.True(t, r.Contains(3, 3))
	assert.False(t, r.Contains(0, 3))
	assert.False(t, r.Contains(3, 6))
}

func TestRect_Overlaps(t *testing.T) {
	r := NewRect(0, 0, 1, 1)
	assert.True(t, r.Overlaps(NewRect(1, 1, 2, 2)))
	assert.False(t, r.Overlaps(NewRect(2, 0, 3, 1)))
	assert.False(t, r.Overlaps(NewRect(0, 2, 1, 3)))
}

func TestRect_Within(t *testing.T) {
	assert.True(t, NewRect(0, 0, 9, 9).Within(10, 10))
	assert.False(t, NewRect(0, 0, 10, 9).Within(10, 10))
	assert.False(t, NewRect(-1, 0, 1, 1).Within(10, 10))
}
