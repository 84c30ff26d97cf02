package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
)

func TestBuildManifestProducesPDF(t *testing.T) {
	items := []models.Item{
		{Name: "Propeller", Code: "X-100", Quantity: 4},
		{Name: "Battery Pack", Code: "X-200", Quantity: 2},
	}

	manifest, err := BuildManifest("A1", items, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(manifest, []byte("%PDF")))
	require.Greater(t, len(manifest), 500)
}

func TestBuildManifestEmptyItems(t *testing.T) {
	manifest, err := BuildManifest("A1", nil, time.Now())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(manifest, []byte("%PDF")))
}
