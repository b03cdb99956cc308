package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ddlFor(t *testing.T, constraint string) string {
	t.Helper()
	for _, ddl := range exclusionDDL {
		if strings.Contains(ddl, "ADD CONSTRAINT "+constraint) {
			return ddl
		}
	}
	require.Failf(t, "missing DDL", "no statement adds constraint %s", constraint)
	return ""
}

func TestExclusionDDLGuardsBothTables(t *testing.T) {
	assert.Contains(t, exclusionDDL[0], "btree_gist")

	holds := ddlFor(t, "holds_no_overlap")
	assert.Contains(t, holds, "EXCLUDE USING GIST")
	assert.Contains(t, holds, "room_id WITH =")
	assert.Contains(t, holds, "'[)'")

	reservations := ddlFor(t, "reservations_no_overlap")
	assert.Contains(t, reservations, "EXCLUDE USING GIST")
	assert.Contains(t, reservations, "'[)'")
	// Cancelled rows must not block the range they used to occupy.
	assert.Contains(t, reservations, "status IN ('confirmed', 'ongoing')")
}
