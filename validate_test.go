package gridsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanSheet(t *testing.T) {
	s := sheetWith(t, map[string]string{"A1": "1", "A2": "=SUM(A1:A1)*2", "B1": "text"})
	assert.Empty(t, s.Validate())
}

func TestValidate_InvalidFormula(t *testing.T) {
	s := sheetWith(t, map[string]string{"A2": "=A1+", "B3": "=MAX(A1:A2)"})
	issues := s.Validate()
	require.Len(t, issues, 2)

	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, CellRef{Row: 1, Col: 0}, issues[0].CellRef)
	assert.Contains(t, issues[0].Message, "invalid formula")

	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Equal(t, CellRef{Row: 2, Col: 1}, issues[1].CellRef)
	assert.Contains(t, issues[1].Message, "MAX")
}

func TestValidate_OutOfGridReference(t *testing.T) {
	s := sheetWith(t, map[string]string{"A1": "=Z1+SUM(A1:A30)"}, WithDefaultSize(20, 10))
	issues := s.Validate()
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
		assert.Equal(t, "A1", issue.CellRef.String())
	}
	assert.Contains(t, issues[0].Message, "A1:A30")
	assert.Contains(t, issues[1].Message, "Z1")
}

func TestValidate_HiddenByMerge(t *testing.T) {
	s := sheetWith(t, map[string]string{"A1": "anchor", "B2": "lost"})
	s, err := s.Merge(NewRect(0, 0, 1, 1))
	require.NoError(t, err)

	issues := s.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, `[WARN] B2: value "lost" is hidden by merge A1:B2`, issues[0].String())
}

func TestValidationIssue_String(t *testing.T) {
	issue := ValidationIssue{Severity: SeverityError, CellRef: CellRef{Row: 1, Col: 0}, Message: "bad"}
	assert.Equal(t, "[ERROR] A2: bad", issue.String())
}

func TestReferences(t *testing.T) {
	assert.Nil(t, References("A1+B1"))
	assert.Empty(t, References("=1+2"))

	refs := References("=SUM(B1:A3)+C4*LOG10(2)+1E5")
	assert.Equal(t, []Rect{NewRect(0, 0, 2, 1), NewRect(3, 2, 3, 2)}, refs)
}
