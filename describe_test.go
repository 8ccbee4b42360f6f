package gridsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Empty(t *testing.T) {
	assert.Equal(t, "Sheet A1:J20 (10x20)\n", NewSheet().Describe())
}

func TestDescribe_Full(t *testing.T) {
	s := sheetWith(t, map[string]string{"A1": "1", "B1": "x", "A2": "=A1*2"}, WithDefaultSize(3, 3))
	s, err := s.SetRange(NewRect(0, 1, 0, 1), CellUpdate{}.WithBold(true).WithAlign(AlignCenter).WithTextColor("#112233"))
	require.NoError(t, err)
	s, err = s.Merge(NewRect(1, 1, 2, 2))
	require.NoError(t, err)

	expected := "Sheet A1:C3 (3x3)\n" +
		"  Merges:\n" +
		"    B2:C3 (2x2)\n" +
		"  Values:\n" +
		"    A1: \"1\"\n" +
		"    B1: \"x\" [bold align=center color=#112233]\n" +
		"  Formulas:\n" +
		"    A2: =A1*2 = 2\n"
	assert.Equal(t, expected, s.Describe())
}

func TestDescribeFormat(t *testing.T) {
	assert.Equal(t, "", describeFormat(DefaultFormat()))
	assert.Equal(t, " [italic bg=#000000 wrap]", describeFormat(Format{
		Italic: true, Align: AlignLeft, BackgroundColor: "#000000", Wrap: true,
	}))
}
