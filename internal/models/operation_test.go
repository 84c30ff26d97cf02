package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperationIsValid(t *testing.T) {
	for _, op := range Operations() {
		require.True(t, op.IsValid(), "expected %q to be valid", op)
	}

	require.False(t, Operation("ship").IsValid())
	require.False(t, Operation("").IsValid())
	require.False(t, Operation("ADD").IsValid())
}

func TestItemStatusIsValid(t *testing.T) {
	require.True(t, ItemStatusInStock.IsValid())
	require.True(t, ItemStatusDispatched.IsValid())
	require.True(t, ItemStatusRemoved.IsValid())
	require.False(t, ItemStatus("lost").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	require.Len(t, Roles(), 4)
	for _, role := range Roles() {
		require.True(t, role.IsValid())
	}
	require.False(t, Role("root").IsValid())
}
