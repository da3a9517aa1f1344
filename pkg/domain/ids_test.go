package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "coursebatch/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs must be non-empty, bounded, and free of whitespace or control characters"
func TestParseID_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Null byte injection", "do_123\x00", true},
		{"Embedded space", "do 123", true},
		{"Unicode zero-width space", "do_\u200b123", true},

		{"Surrounding whitespace is trimmed", "  do_2130 ", false},
		{"Opaque platform id", "01285019302823526477", false},
		{"Dotted content id", "do_11334.img", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseID_TrimsInput(t *testing.T) {
	batchID, err := ParseBatchID("  0130929928739635201 ")
	require.NoError(t, err)
	assert.Equal(t, BatchID("0130929928739635201"), batchID)
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types have identical parsing behavior.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	for _, input := range []string{"", "with space", strings.Repeat("x", maxIDLength+1)} {
		t.Run("all reject: "+input[:min(len(input), 16)], func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errCourse := ParseCourseID(input)
			_, errBatch := ParseBatchID(input)
			_, errProgram := ParseProgramID(input)

			require.Error(t, errUser)
			require.Error(t, errCourse)
			require.Error(t, errBatch)
			require.Error(t, errProgram)
		})
	}

	t.Run("error message names the identifier", func(t *testing.T) {
		_, err := ParseProgramID("")
		require.Error(t, err)
		assert.Equal(t, "program id is required", dErrors.MessageOf(err))
	})
}
