package discovery_test

import (
	"testing"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAll(t *testing.T, node *discovery.DiscoveredNode, txt map[string]string) {
	t.Helper()
	for k, v := range txt {
		require.NoError(t, discovery.FillDiscoveredTXT(k, v, node), "key %s", k)
	}
}

func TestFillDiscoveredTXT(t *testing.T) {
	var node discovery.DiscoveredNode
	fillAll(t, &node, map[string]string{
		"D":   "840",
		"VP":  "65521+32769",
		"CM":  "2",
		"DT":  "257",
		"DN":  "Kitchen Light",
		"RI":  "0100AABB",
		"PH":  "33",
		"PI":  "Press button",
		"SII": "5000",
		"SAI": "300",
		"SAT": "4000",
		"T":   "6",
		"ICD": "1",
	})

	assert.Equal(t, uint16(840), node.LongDiscriminator)
	assert.Equal(t, uint16(65521), node.VendorID)
	assert.Equal(t, uint16(32769), node.ProductID)
	assert.Equal(t, discovery.CommissioningModeEnhanced, node.CommissioningMode)
	assert.Equal(t, uint16(257), node.DeviceType)
	assert.Equal(t, "Kitchen Light", node.DeviceName)
	assert.Equal(t, []byte{0x01, 0x00, 0xAA, 0xBB}, node.RotatingID)
	assert.Equal(t, uint16(33), node.PairingHint)
	assert.Equal(t, "Press button", node.PairingInstruction)
	assert.Equal(t, 5*time.Second, node.MRP.Idle)
	assert.Equal(t, 300*time.Millisecond, node.MRP.Active)
	assert.Equal(t, 4*time.Second, node.MRP.ActiveThreshold)
	assert.True(t, node.SupportsTCP)
	assert.True(t, node.ICD)
	assert.True(t, node.IsSleepy(discovery.DefaultMRPHints()))
}

func TestFillTXTKeysAreCaseInsensitive(t *testing.T) {
	var node discovery.DiscoveredNode
	require.NoError(t, discovery.FillDiscoveredTXT("d", "12", &node))
	require.NoError(t, discovery.FillDiscoveredTXT("sii", "800", &node))
	assert.Equal(t, uint16(12), node.LongDiscriminator)
	assert.Equal(t, 800*time.Millisecond, node.MRP.Idle)
}

func TestFillTXTIgnoresUnknownKeys(t *testing.T) {
	var node discovery.DiscoveredNode
	assert.NoError(t, discovery.FillDiscoveredTXT("XYZ", "whatever", &node))
	assert.Equal(t, discovery.DiscoveredNode{}, node)

	var common discovery.CommonResolutionData
	assert.NoError(t, discovery.FillCommonTXT("D", "840", &common))
	assert.Equal(t, discovery.CommonResolutionData{}, common)
}

func TestFillTXTRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"D", "4096"},
		{"D", "abc"},
		{"VP", "65521+"},
		{"VP", "70000"},
		{"CM", "3"},
		{"RI", "XYZ"},
		{"SII", "3600001"},
		{"SAI", "-1"},
		{"ICD", "2"},
		{"T", "256"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var node discovery.DiscoveredNode
			err := discovery.FillDiscoveredTXT(tt.key, tt.value, &node)
			assert.Error(t, err)
			assert.Equal(t, discovery.DiscoveredNode{}, node)
		})
	}
}

func TestFillTXTBoundedStrings(t *testing.T) {
	var node discovery.DiscoveredNode
	long := string(make([]byte, discovery.MaxDeviceNameLen+1))
	assert.ErrorIs(t, discovery.FillDiscoveredTXT("DN", long, &node), discovery.ErrInvalidTXTRecord)
	assert.Empty(t, node.DeviceName)
}

func TestTCPLegacyValue(t *testing.T) {
	var common discovery.CommonResolutionData
	require.NoError(t, discovery.FillCommonTXT("T", "1", &common))
	assert.True(t, common.SupportsTCP)

	require.NoError(t, discovery.FillCommonTXT("T", "2", &common))
	assert.False(t, common.SupportsTCP, "client-only bit does not make the node reachable over TCP")
}

func TestEncodeCommissionableTXTFillsBack(t *testing.T) {
	info := &discovery.CommissionableInfo{
		LongDiscriminator:  3840,
		VendorID:           0xFFF1,
		ProductID:          0x8000,
		DeviceType:         257,
		CommissioningMode:  discovery.CommissioningModeBasic,
		DeviceName:         "Lamp",
		RotatingID:         []byte{0xCA, 0xFE},
		PairingHint:        1,
		PairingInstruction: "10",
		MRP:                discovery.MRPHints{Idle: time.Second, Active: 200 * time.Millisecond},
		SupportsTCP:        true,
	}

	var node discovery.DiscoveredNode
	for k, v := range discovery.EncodeCommissionableTXT(info) {
		require.NoError(t, discovery.FillDiscoveredTXT(k, v, &node), "key %s", k)
	}

	assert.Equal(t, info.LongDiscriminator, node.LongDiscriminator)
	assert.Equal(t, info.VendorID, node.VendorID)
	assert.Equal(t, info.ProductID, node.ProductID)
	assert.Equal(t, info.DeviceType, node.DeviceType)
	assert.Equal(t, info.CommissioningMode, node.CommissioningMode)
	assert.Equal(t, info.DeviceName, node.DeviceName)
	assert.Equal(t, info.RotatingID, node.RotatingID)
	assert.Equal(t, info.MRP, node.MRP)
	assert.True(t, node.SupportsTCP)
}

func TestEncodeOperationalTXT(t *testing.T) {
	txt := discovery.EncodeOperationalTXT(&discovery.OperationalInfo{
		MRP: discovery.MRPHints{Idle: 5 * time.Second},
		ICD: true,
	})
	assert.Equal(t, discovery.TXTRecordMap{"SII": "5000", "ICD": "1"}, txt)
}

func TestTXTRecordStrings(t *testing.T) {
	strs := discovery.TXTRecordsToStrings(discovery.TXTRecordMap{"VP": "1+2", "D": "840"})
	assert.Equal(t, []string{"D=840", "VP=1+2"}, strs)

	txt := discovery.StringsToTXTRecords([]string{"D=840", "flag", "", "VP=1+2"})
	assert.Equal(t, discovery.TXTRecordMap{"D": "840", "flag": "", "VP": "1+2"}, txt)
}
